package fees

import (
	"time"

	"quest-fees/app/ledger"

	"github.com/gofiber/fiber/v2"
)

// SetupFeesRoutes sets up the payment form, receipt and payment API routes.
// now supplies the payment date.
func SetupFeesRoutes(app *fiber.App, registry *ledger.Registry, book *ledger.Ledger, now func() time.Time) {
	fees := app.Group("/fees")

	// Web routes
	fees.Get("/", func(c *fiber.Ctx) error {
		return PaymentPage(c, registry, nil)
	})
	fees.Post("/pay", func(c *fiber.Ctx) error {
		return PayForm(c, registry, book, now())
	})

	// API routes
	app.Post("/api/students/:admission<int>/payments", func(c *fiber.Ctx) error {
		return CreatePaymentAPI(c, book, now())
	})
	app.Get("/api/options", GetOptionsAPI)
}
