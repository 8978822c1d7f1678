package students

import (
	"quest-fees/app/ledger"
	"quest-fees/app/models"
	"quest-fees/app/routes"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentsRoutes(app *fiber.App, registry *ledger.Registry) {
	students := app.Group("/students")

	// Routes
	students.Get("/", func(c *fiber.Ctx) error {
		return StudentsPage(c, registry, nil, "")
	})
	students.Post("/", func(c *fiber.Ctx) error {
		return CreateStudentForm(c, registry)
	})

	// API routes
	api := app.Group("/api/students")
	api.Get("/", func(c *fiber.Ctx) error { // Get all students
		return GetStudentsAPI(c, registry)
	})
	api.Get("/:admission<int>", func(c *fiber.Ctx) error { // Get single student
		return GetStudentAPI(c, registry)
	})
	api.Post("/", func(c *fiber.Ctx) error { // Register new student
		return CreateStudentAPI(c, registry)
	})
}

// StudentsPage renders the "Add Student" form above the student table
func StudentsPage(c *fiber.Ctx, registry *ledger.Registry, formErr error, success string) error {
	data := fiber.Map{
		"Title":       "Students",
		"CurrentPage": "students",
		"students":    registry.Records(),
		"classes":     models.Classes,
		"Success":     success,
	}

	status := fiber.StatusOK
	if formErr != nil {
		status = routes.StatusFor(formErr)
		data["Error"] = routes.UserMessage(formErr)
		var form models.Registration
		_ = c.BodyParser(&form)
		data["form"] = form
	}

	return c.Status(status).Render("students/index", data)
}

// CreateStudentForm handles the "Add Student" form submission
func CreateStudentForm(c *fiber.Ctx, registry *ledger.Registry) error {
	var form models.Registration
	if err := c.BodyParser(&form); err != nil {
		return StudentsPage(c, registry, fiber.NewError(fiber.StatusBadRequest,
			"Please fill in all the required details before submitting the form."), "")
	}

	if _, err := registry.Register(c.UserContext(), form); err != nil {
		return StudentsPage(c, registry, err, "")
	}

	return StudentsPage(c, registry, nil, "Student added successfully!")
}
