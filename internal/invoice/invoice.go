// Package invoice defines the typed extraction target for Austrian private
// doctor's invoices (Wahlarztrechnungen). All records are value types built
// once per request; absent fields are nil pointers.
package invoice

import "time"

// Payment methods the extraction schema permits.
const (
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank transfer"
)

// Year ranges used to discard implausible dates during normalization.
const (
	minInvoiceYear = 2000
	maxInvoiceYear = 2100
	minBirthYear   = 1900
)

// Doctor holds details of the issuing doctor. All fields are optional
// free text; UID is expected to follow the Austrian VAT pattern
// ("ATU" + 8 digits) but is not enforced structurally.
type Doctor struct {
	Title           *string `json:"title"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Specialty       *string `json:"specialty"`
	PracticeName    *string `json:"practice_name"`
	PracticeAddress *string `json:"practice_address"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	UID             *string `json:"uid"`
}

// Patient holds details of the treated patient.
type Patient struct {
	FirstName            *string `json:"first_name"`
	LastName             *string `json:"last_name"`
	DateOfBirth          *Date   `json:"date_of_birth"`
	SocialSecurityNumber *string `json:"social_security_number"`
}

// Treatment is a single service line item. The treatments list must never
// carry the invoice's total row; that rule lives in the extraction prompt
// and is re-checked by the validator.
type Treatment struct {
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
}

// Invoice is the full extraction result for one document.
type Invoice struct {
	InvoiceDate   *Date       `json:"invoice_date"`
	InvoiceNumber *string     `json:"invoice_number"`
	DocumentType  *string     `json:"document_type"`
	Doctor        *Doctor     `json:"doctor"`
	Patient       *Patient    `json:"patient"`
	Diagnosis     *string     `json:"diagnosis"`
	Treatments    []Treatment `json:"treatments"`
	TotalAmount   *float64    `json:"total_amount"`
	PaymentMethod *string     `json:"payment_method"`
	IBAN          *string     `json:"iban"`
}

// Normalize turns implausible or out-of-range values into absent fields.
// Date fields that failed lenient parsing arrive as zero values and are
// cleared here; the invoice date must fall in 2000–2100, the birth date in
// 1900 through the current year. A payment method outside the two allowed
// values is dropped rather than kept as free text.
func (inv *Invoice) Normalize() {
	if inv.InvoiceDate != nil {
		if inv.InvoiceDate.IsZero() || !inv.InvoiceDate.InRange(minInvoiceYear, maxInvoiceYear) {
			inv.InvoiceDate = nil
		}
	}
	if inv.Patient != nil && inv.Patient.DateOfBirth != nil {
		dob := inv.Patient.DateOfBirth
		if dob.IsZero() || !dob.InRange(minBirthYear, time.Now().Year()) {
			inv.Patient.DateOfBirth = nil
		}
	}
	if inv.PaymentMethod != nil {
		switch *inv.PaymentMethod {
		case PaymentCash, PaymentBankTransfer:
		default:
			inv.PaymentMethod = nil
		}
	}
}
