package models

// Column labels of the fee sheet, in persisted order.
const (
	ColAdmissionNumber  = "Admission number"
	ColStudentName      = "Student Name"
	ColParentMobile     = "Parent Mobile Number"
	ColClass            = "Class"
	ColTotalFee         = "Total Fee"
	ColPaidAmount       = "Paid Amount"
	ColRemainingBalance = "Remaining Balance"
	ColPaymentHistory   = "Payment History"
	ColReceiptNumber    = "Receipt Number"
	ColPaymentDate      = "Payment Date"
)

// Columns is the fixed column order used when a student row is appended.
var Columns = []string{
	ColAdmissionNumber,
	ColStudentName,
	ColParentMobile,
	ColClass,
	ColTotalFee,
	ColPaidAmount,
	ColRemainingBalance,
	ColPaymentHistory,
	ColReceiptNumber,
	ColPaymentDate,
}

// StudentRecord is one row of the fee sheet.
type StudentRecord struct {
	AdmissionNumber  int       `json:"admission_number"`
	StudentName      string    `json:"student_name"`
	ParentMobile     string    `json:"parent_mobile"`
	ClassName        ClassName `json:"class_name"`
	TotalFee         int       `json:"total_fee"`
	PaidAmount       int       `json:"paid_amount"`
	RemainingBalance int       `json:"remaining_balance"`
	PaymentHistory   string    `json:"payment_history"`
	ReceiptNumber    string    `json:"receipt_number"`
	PaymentDate      string    `json:"payment_date"`
}

// Registration carries the fields of the "Add Student" form.
type Registration struct {
	AdmissionNumber int       `json:"admission_number" form:"admission_number" validate:"required,gte=1"`
	StudentName     string    `json:"student_name" form:"student_name" validate:"required"`
	ParentMobile    string    `json:"parent_mobile" form:"parent_mobile" validate:"required"`
	ClassName       ClassName `json:"class_name" form:"class_name" validate:"required,class"`
	TotalFee        int       `json:"total_fee" form:"total_fee" validate:"required,gt=0"`
}

// NewStudentRecord builds the record for a fresh registration: nothing paid,
// the whole fee outstanding.
func NewStudentRecord(reg Registration) StudentRecord {
	return StudentRecord{
		AdmissionNumber:  reg.AdmissionNumber,
		StudentName:      reg.StudentName,
		ParentMobile:     reg.ParentMobile,
		ClassName:        reg.ClassName,
		TotalFee:         reg.TotalFee,
		PaidAmount:       0,
		RemainingBalance: reg.TotalFee,
	}
}

// Values returns the record's cells in Columns order.
func (s StudentRecord) Values() []interface{} {
	return []interface{}{
		s.AdmissionNumber,
		s.StudentName,
		s.ParentMobile,
		string(s.ClassName),
		s.TotalFee,
		s.PaidAmount,
		s.RemainingBalance,
		s.PaymentHistory,
		s.ReceiptNumber,
		s.PaymentDate,
	}
}

// PaymentFields returns the five cells a payment rewrites, keyed by column label.
func (s StudentRecord) PaymentFields() map[string]interface{} {
	return map[string]interface{}{
		ColPaidAmount:       s.PaidAmount,
		ColRemainingBalance: s.RemainingBalance,
		ColPaymentHistory:   s.PaymentHistory,
		ColReceiptNumber:    s.ReceiptNumber,
		ColPaymentDate:      s.PaymentDate,
	}
}
