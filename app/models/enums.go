package models

// ClassName is one of the grade labels offered on the registration form.
type ClassName string

const (
	ClassNursery ClassName = "Nur"
	ClassPP1     ClassName = "PPI"
	ClassPP2     ClassName = "PPII"
	Class1       ClassName = "I"
	Class2       ClassName = "II"
	Class3       ClassName = "III"
	Class4       ClassName = "IV"
	Class5       ClassName = "V"
	Class6       ClassName = "VI"
	Class7       ClassName = "VII"
	Class8       ClassName = "VIII"
	Class9       ClassName = "IX"
	Class10      ClassName = "X"
)

// Classes lists every grade label in display order.
var Classes = []ClassName{
	ClassNursery, ClassPP1, ClassPP2,
	Class1, Class2, Class3, Class4, Class5,
	Class6, Class7, Class8, Class9, Class10,
}

// IsValid reports whether c is one of the known grade labels.
func (c ClassName) IsValid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// PaymentType defines how a payment is categorised on the payment form
type PaymentType string

const (
	PaymentTermWise   PaymentType = "Term-wise"
	PaymentMonthWise  PaymentType = "Month-wise"
	PaymentCustomWise PaymentType = "Custom-wise"
)

// PaymentTypes lists the payment types in display order.
var PaymentTypes = []PaymentType{PaymentTermWise, PaymentMonthWise, PaymentCustomWise}

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTermWise, PaymentMonthWise, PaymentCustomWise:
		return true
	}
	return false
}

// Periods returns the sub-period labels selectable for the payment type.
// Custom-wise payments have none.
func (t PaymentType) Periods() []string {
	switch t {
	case PaymentTermWise:
		return Terms
	case PaymentMonthWise:
		return Months
	}
	return nil
}

// Terms are the selectable school terms.
var Terms = []string{"I Term", "II Term", "III Term"}

// Months are the selectable fee months, "01-month" through "10-month".
var Months = []string{
	"01-month", "02-month", "03-month", "04-month", "05-month",
	"06-month", "07-month", "08-month", "09-month", "10-month",
}
