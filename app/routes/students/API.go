package students

import (
	"quest-fees/app/ledger"
	"quest-fees/app/models"
	"quest-fees/app/routes"

	"github.com/gofiber/fiber/v2"
)

func GetStudentsAPI(c *fiber.Ctx, registry *ledger.Registry) error {
	students := registry.Records()
	return c.JSON(fiber.Map{
		"success":           true,
		"students":          students,
		"admission_numbers": registry.AdmissionNumbers(),
		"count":             len(students),
	})
}

func GetStudentAPI(c *fiber.Ctx, registry *ledger.Registry) error {
	admission, err := c.ParamsInt("admission")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid admission number")
	}

	student, err := registry.Lookup(admission)
	if err != nil {
		return routes.APIError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

func CreateStudentAPI(c *fiber.Ctx, registry *ledger.Registry) error {
	var req models.Registration
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	student, err := registry.Register(c.UserContext(), req)
	if err != nil {
		return routes.APIError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    student,
		"message": "Student added successfully",
	})
}
