package fees

import (
	"fmt"
	"time"

	"quest-fees/app/ledger"
	"quest-fees/app/models"
	"quest-fees/app/routes"

	"github.com/gofiber/fiber/v2"
)

// paymentForm is the payment form as posted by the browser
type paymentForm struct {
	AdmissionNumber int      `form:"admission_number"`
	PaymentType     string   `form:"payment_type"`
	Periods         []string `form:"periods"`
	Amount          int      `form:"amount"`
}

func (f paymentForm) request() models.PaymentRequest {
	return models.PaymentRequest{
		Type:    models.PaymentType(f.PaymentType),
		Periods: f.Periods,
		Amount:  f.Amount,
	}
}

// PaymentPage renders the payment form for the selected student. With no
// selection the first registered student is shown.
func PaymentPage(c *fiber.Ctx, registry *ledger.Registry, formErr error) error {
	admissions := registry.AdmissionNumbers()

	selected := c.QueryInt("admission_number", 0)
	paymentType := models.PaymentType(c.Query("payment_type", string(models.PaymentTermWise)))
	var form paymentForm
	if formErr != nil {
		_ = c.BodyParser(&form)
		selected = form.AdmissionNumber
		paymentType = models.PaymentType(form.PaymentType)
	}
	if selected == 0 && len(admissions) > 0 {
		selected = admissions[0]
	}
	if !paymentType.IsValid() {
		paymentType = models.PaymentTermWise
	}

	data := fiber.Map{
		"Title":        "Add Payment",
		"CurrentPage":  "fees",
		"admissions":   admissions,
		"selected":     selected,
		"paymentTypes": models.PaymentTypes,
		"paymentType":  paymentType,
		"periods":      paymentType.Periods(),
		"form":         form,
	}

	status := fiber.StatusOK
	if selected != 0 {
		student, err := registry.Lookup(selected)
		if err != nil && formErr == nil {
			formErr = err
		}
		if err == nil {
			data["student"] = student
		}
	}
	if formErr != nil {
		status = routes.StatusFor(formErr)
		data["Error"] = routes.UserMessage(formErr)
	}

	return c.Status(status).Render("fees/index", data)
}

// PayForm handles the "Add Payment" button and prints the receipt
func PayForm(c *fiber.Ctx, registry *ledger.Registry, book *ledger.Ledger, asOf time.Time) error {
	var form paymentForm
	if err := c.BodyParser(&form); err != nil {
		return PaymentPage(c, registry, fmt.Errorf("%w: enter the payment amount as a whole number", ledger.ErrInvalidInput))
	}

	student, receipt, err := book.Pay(c.UserContext(), form.AdmissionNumber, form.request(), asOf)
	if err != nil {
		return PaymentPage(c, registry, err)
	}

	return c.Render("fees/receipt", fiber.Map{
		"Title":       fmt.Sprintf("Receipt %s", receipt.ReceiptNumber),
		"CurrentPage": "fees",
		"receipt":     receipt,
		"student":     student,
		"Success":     fmt.Sprintf("Payment added successfully! Remaining balance: %d", receipt.RemainingBalance),
	})
}

// CreatePaymentAPI records a payment posted as JSON
func CreatePaymentAPI(c *fiber.Ctx, book *ledger.Ledger, asOf time.Time) error {
	admission, err := c.ParamsInt("admission")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid admission number")
	}

	var req models.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	student, receipt, err := book.Pay(c.UserContext(), admission, req, asOf)
	if err != nil {
		return routes.APIError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"student": student,
			"receipt": receipt,
		},
		"message": fmt.Sprintf("Payment added successfully! Remaining balance: %d", receipt.RemainingBalance),
	})
}

// GetOptionsAPI returns the fixed choices offered by the forms
func GetOptionsAPI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"classes":       models.Classes,
			"payment_types": models.PaymentTypes,
			"terms":         models.Terms,
			"months":        models.Months,
		},
	})
}
