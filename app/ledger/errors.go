package ledger

import "errors"

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrDuplicateAdmissionNumber = errors.New("admission number already exists")
	ErrNotFound                 = errors.New("student not found")
	ErrOverpayment              = errors.New("paid amount exceeds the total fee")
)
