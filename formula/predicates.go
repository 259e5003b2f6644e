package formula

import (
	"github.com/buzzcrank/crankfeed"
)

// SponsorLeadThreshold is the minimum lead score of a high-value sponsor lead.
const SponsorLeadThreshold = 60

func StatusIs(status string) Expr {
	return Eq(Field(crankfeed.FieldStatus), Str(status))
}

// BlankOrFuture holds when field is empty or not before today.
func BlankOrFuture(field string) Expr {
	return Or(
		Eq(Field(field), Blank()),
		Gte(Field(field), Today()),
	)
}

func FlagSet(field string) Expr {
	return Eq(Field(field), Num(1))
}

func AtLeast(field string, n float64) Expr {
	return Gte(Field(field), Num(n))
}

// ApprovedUpcoming selects approved events that are undated or upcoming.
func ApprovedUpcoming() Expr {
	return And(
		StatusIs(crankfeed.StatusApprovedText),
		BlankOrFuture(crankfeed.FieldDate),
	)
}

// PendingOrSuggested selects events awaiting review.
func PendingOrSuggested() Expr {
	return Or(
		StatusIs(crankfeed.StatusPendingText),
		StatusIs(crankfeed.StatusSuggestedText),
	)
}

func HighValueSponsorLead() Expr {
	return And(
		FlagSet(crankfeed.FieldSponsorLead),
		AtLeast(crankfeed.FieldLeadScore, SponsorLeadThreshold),
	)
}
