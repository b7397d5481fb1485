// Package validate scores a parsed invoice with a fixed battery of presence
// and consistency checks. It is a pure function over the invoice record;
// it performs no I/O and never fails.
package validate

import (
	"math"
	"strings"

	"github.com/arznote/arznote/internal/invoice"
)

// sumKeywords mark a treatment description as a likely total row. The list
// deliberately includes "sunne", a misspelling of "Summe" that OCR models
// produce on noisy scans.
var sumKeywords = []string{
	"gesamt",
	"gesamtbetrag",
	"total",
	"honorar gesamt",
	"summe",
	"sunne",
}

// Amounts closer to the stated total than this are considered matching.
const totalTolerance = 0.05

// flagNames is the fixed flag set; the score denominator is its length.
var flagNames = []string{
	"invoice_date_missing",
	"invoice_number_missing",
	"diagnosis_missing",
	"treatments_missing",
	"total_amount_missing",
	"doctor_first_name_missing",
	"doctor_last_name_missing",
	"doctor_specialty_missing",
	"doctor_practice_address_missing",
	"patient_first_name_missing",
	"patient_last_name_missing",
	"patient_date_of_birth_missing",
	"patient_social_security_number_missing",
	"total_mismatch",
	"last_treatment_equals_sum_of_others",
	"last_treatment_looks_like_sum",
}

// Report is the validation result: a flag map plus a uniform-weight score
// in [0,1], where 1.0 means no flags raised.
type Report struct {
	Score float64         `json:"score"`
	Flags map[string]bool `json:"flags"`
}

// EmptyReport is what callers get when no invoice could be extracted.
func EmptyReport() Report {
	return Report{Flags: map[string]bool{}}
}

// Check runs all presence and consistency checks over the invoice.
func Check(inv *invoice.Invoice) Report {
	flags := make(map[string]bool, len(flagNames))

	flags["invoice_date_missing"] = inv.InvoiceDate == nil
	flags["invoice_number_missing"] = inv.InvoiceNumber == nil
	flags["diagnosis_missing"] = inv.Diagnosis == nil
	flags["treatments_missing"] = len(inv.Treatments) == 0
	flags["total_amount_missing"] = inv.TotalAmount == nil

	doc := inv.Doctor
	flags["doctor_first_name_missing"] = doc == nil || doc.FirstName == nil
	flags["doctor_last_name_missing"] = doc == nil || doc.LastName == nil
	flags["doctor_specialty_missing"] = doc == nil || doc.Specialty == nil
	flags["doctor_practice_address_missing"] = doc == nil || doc.PracticeAddress == nil

	pat := inv.Patient
	flags["patient_first_name_missing"] = pat == nil || pat.FirstName == nil
	flags["patient_last_name_missing"] = pat == nil || pat.LastName == nil
	flags["patient_date_of_birth_missing"] = pat == nil || pat.DateOfBirth == nil
	flags["patient_social_security_number_missing"] = pat == nil || pat.SocialSecurityNumber == nil

	mismatch, lastEqualsRest, lastLooksLikeSum := consistency(inv)
	flags["total_mismatch"] = mismatch
	flags["last_treatment_equals_sum_of_others"] = lastEqualsRest
	flags["last_treatment_looks_like_sum"] = lastLooksLikeSum

	raised := 0
	for _, v := range flags {
		if v {
			raised++
		}
	}
	score := math.Round((1-float64(raised)/float64(len(flagNames)))*100) / 100

	return Report{Score: score, Flags: flags}
}

// consistency computes the three cross-field checks. They only apply when
// there is at least one treatment and a nonzero total; otherwise all three
// stay false. Nil and zero amounts are skipped when summing.
func consistency(inv *invoice.Invoice) (mismatch, lastEqualsRest, lastLooksLikeSum bool) {
	if len(inv.Treatments) == 0 || inv.TotalAmount == nil || *inv.TotalAmount == 0 {
		return false, false, false
	}

	var amounts []float64
	for _, t := range inv.Treatments {
		if t.Amount != nil && *t.Amount != 0 {
			amounts = append(amounts, *t.Amount)
		}
	}
	if len(amounts) == 0 {
		return false, false, false
	}

	var calc float64
	for _, a := range amounts {
		calc += a
	}
	last := amounts[len(amounts)-1]

	mismatch = math.Abs(calc-*inv.TotalAmount) > totalTolerance
	// Exact float comparison kept on purpose; see DESIGN.md.
	lastEqualsRest = calc-last == last

	lastTreatment := inv.Treatments[len(inv.Treatments)-1]
	if lastTreatment.Description != nil {
		desc := strings.ToLower(*lastTreatment.Description)
		for _, kw := range sumKeywords {
			if strings.Contains(desc, kw) {
				lastLooksLikeSum = true
				break
			}
		}
	}
	return mismatch, lastEqualsRest, lastLooksLikeSum
}
