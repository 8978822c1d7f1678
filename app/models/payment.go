package models

import (
	"fmt"
	"time"
)

// DateLayout is the date format used in payment history and the Payment Date column.
const DateLayout = "2006-01-02"

// PaymentRequest is one submission of the payment form.
type PaymentRequest struct {
	Type    PaymentType `json:"payment_type" form:"payment_type"`
	Periods []string    `json:"periods" form:"periods"`
	Amount  int         `json:"amount" form:"amount"`
}

// PaymentLogEntry is one line of a student's payment history.
type PaymentLogEntry struct {
	Date          time.Time
	Detail        string
	Amount        int
	ReceiptNumber string
}

// String renders the entry the way it is stored in the Payment History column.
func (e PaymentLogEntry) String() string {
	return fmt.Sprintf("%s: %s, Amount: %d, Receipt: %s",
		e.Date.Format(DateLayout), e.Detail, e.Amount, e.ReceiptNumber)
}

// Receipt is the printable summary of a completed payment.
type Receipt struct {
	AdmissionNumber  int       `json:"admission_number"`
	StudentName      string    `json:"student_name"`
	ClassName        ClassName `json:"class_name"`
	ParentMobile     string    `json:"parent_mobile"`
	Date             string    `json:"date"`
	Detail           string    `json:"detail"`
	AmountPaid       int       `json:"amount_paid"`
	RemainingBalance int       `json:"remaining_balance"`
	ReceiptNumber    string    `json:"receipt_number"`
}
