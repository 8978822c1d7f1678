// Package routes holds what the student and fee routes share.
package routes

import (
	"errors"

	"quest-fees/app/ledger"
	"quest-fees/app/storage"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps ledger and storage errors to HTTP status codes
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ledger.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateAdmissionNumber):
		return fiber.StatusConflict
	case errors.Is(err, ledger.ErrOverpayment):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrStorage):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// UserMessage is the text shown to staff when a submission is rejected
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrDuplicateAdmissionNumber):
		return "A student with this admission number already exists!"
	case errors.Is(err, ledger.ErrOverpayment):
		return "Paid amount exceeds the total fee! Please enter a valid amount."
	case errors.Is(err, ledger.ErrNotFound):
		return "No student found with this admission number."
	case errors.Is(err, storage.ErrStorage):
		return "Could not reach the fee sheet. Please try again."
	}
	return err.Error()
}

// APIError turns err into a *fiber.Error for the JSON error handler
func APIError(err error) error {
	return fiber.NewError(StatusFor(err), err.Error())
}
