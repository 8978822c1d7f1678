package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quest-fees/app/models"
)

// receiptWidth is the minimum length of a receipt number.
const receiptWidth = 5

// Ledger applies payments to students held in a Registry.
type Ledger struct {
	registry *Registry
}

func NewLedger(registry *Registry) *Ledger {
	return &Ledger{registry: registry}
}

// Pay records a payment for the student and writes the new balance through to
// storage. Nothing is written when the payment is rejected.
func (l *Ledger) Pay(ctx context.Context, admission int, req models.PaymentRequest, asOf time.Time) (models.StudentRecord, models.Receipt, error) {
	if admission <= 0 {
		return models.StudentRecord{}, models.Receipt{}, fmt.Errorf("%w: no student selected", ErrInvalidInput)
	}

	var receipt models.Receipt
	updated, err := l.registry.update(ctx, admission, func(rec models.StudentRecord) (models.StudentRecord, error) {
		next, r, err := ApplyPayment(rec, req, asOf)
		receipt = r
		return next, err
	})
	if err != nil {
		return models.StudentRecord{}, models.Receipt{}, err
	}
	return updated, receipt, nil
}

// ApplyPayment validates req against rec and returns the record as it stands
// after the payment, with the receipt to print. rec itself is not modified.
func ApplyPayment(rec models.StudentRecord, req models.PaymentRequest, asOf time.Time) (models.StudentRecord, models.Receipt, error) {
	if err := validatePayment(req); err != nil {
		return rec, models.Receipt{}, err
	}

	if req.Amount > rec.TotalFee-rec.PaidAmount {
		return rec, models.Receipt{}, fmt.Errorf("%w: %d already paid, %d more would exceed %d",
			ErrOverpayment, rec.PaidAmount, req.Amount, rec.TotalFee)
	}

	entry := models.PaymentLogEntry{
		Date:          asOf,
		Detail:        DetailLabel(req.Type, req.Periods),
		Amount:        req.Amount,
		ReceiptNumber: ReceiptNumber(asOf, rec.AdmissionNumber),
	}

	rec.PaidAmount += req.Amount
	rec.RemainingBalance = rec.TotalFee - rec.PaidAmount
	rec.PaymentHistory = AppendHistory(rec.PaymentHistory, entry)
	rec.ReceiptNumber = entry.ReceiptNumber
	rec.PaymentDate = asOf.Format(models.DateLayout)

	return rec, models.Receipt{
		AdmissionNumber:  rec.AdmissionNumber,
		StudentName:      rec.StudentName,
		ClassName:        rec.ClassName,
		ParentMobile:     rec.ParentMobile,
		Date:             rec.PaymentDate,
		Detail:           entry.Detail,
		AmountPaid:       req.Amount,
		RemainingBalance: rec.RemainingBalance,
		ReceiptNumber:    rec.ReceiptNumber,
	}, nil
}

func validatePayment(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be greater than zero", ErrInvalidInput)
	}
	if !req.Type.IsValid() {
		return fmt.Errorf("%w: unknown payment type %q", ErrInvalidInput, req.Type)
	}
	if req.Type == models.PaymentCustomWise {
		return nil
	}

	allowed := req.Type.Periods()
	for _, p := range req.Periods {
		if !contains(allowed, p) {
			return fmt.Errorf("%w: %q is not a valid choice for %s", ErrInvalidInput, p, req.Type)
		}
	}
	return nil
}

// ReceiptNumber is the payment day and month followed by the last two
// characters of the admission number, zero-filled to at least five
// characters. Admission numbers of two or more digits give six characters,
// e.g. "150342" for admission 42 on 15 March.
// Different students can share a receipt number on the same day.
func ReceiptNumber(asOf time.Time, admission int) string {
	adm := strconv.Itoa(admission)
	if len(adm) > 2 {
		adm = adm[len(adm)-2:]
	}
	n := asOf.Format("02") + asOf.Format("01") + adm
	if len(n) < receiptWidth {
		n = strings.Repeat("0", receiptWidth-len(n)) + n
	}
	return n
}

// DetailLabel describes what a payment was for, e.g. "Term-wise: I Term, II Term".
// An empty selection leaves just the payment type.
func DetailLabel(t models.PaymentType, periods []string) string {
	if t == models.PaymentCustomWise || len(periods) == 0 {
		return string(t)
	}
	return string(t) + ": " + strings.Join(periods, ", ")
}

// AppendHistory adds entry as a new line of history.
func AppendHistory(history string, entry models.PaymentLogEntry) string {
	if history == "" {
		return entry.String()
	}
	return history + "\n" + entry.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
