// Package server assembles the Fiber application.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"quest-fees/app/config"
	"quest-fees/app/ledger"
	"quest-fees/app/routes"
	"quest-fees/app/routes/fees"
	"quest-fees/app/routes/students"
	"quest-fees/app/templates"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
)

// Options wires the application to its configuration and clock
type Options struct {
	School         config.SchoolConfig
	RequestTimeout time.Duration
	Now            func() time.Time
	AccessLog      bool
}

// customErrorHandler handles HTTP errors with custom templates
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := routes.StatusFor(err)

	// Check if this is an API request
	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	title := "An Error Occurred"
	message := routes.UserMessage(err)
	switch code {
	case fiber.StatusNotFound:
		title = "Page Not Found"
	case fiber.StatusInternalServerError:
		title = "Internal Server Error"
		message = "We're experiencing technical difficulties. Please try again later."
	}

	return c.Status(code).Render("error", fiber.Map{
		"Title":        title,
		"CurrentPage":  "",
		"ErrorCode":    code,
		"ErrorTitle":   title,
		"ErrorMessage": message,
	})
}

// New builds the app with every route registered
func New(registry *ledger.Registry, book *ledger.Ledger, opts Options) *fiber.App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	// Initialize template engine
	engine := html.NewFileSystem(http.FS(templates.FS), ".html")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:                 engine,
		ViewsLayout:           "layouts/main",
		PassLocalsToViews:     true,
		ErrorHandler:          customErrorHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:reqid} ${ip} - ${method} ${path} - ${status} - ${latency}\n",
		}))
	}
	app.Use(cors.New())
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)

		ctx, cancel := context.WithTimeout(c.Context(), opts.RequestTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("SchoolName", opts.School.Name)
		c.Locals("SchoolAddress", opts.School.Address)
		c.Locals("SchoolLogoURL", opts.School.LogoURL)
		return c.Next()
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/students")
	})

	// Setup students routes
	students.SetupStudentsRoutes(app, registry)

	// Setup fees routes
	fees.SetupFeesRoutes(app, registry, book, opts.Now)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	return app
}
