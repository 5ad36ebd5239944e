package matching

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// Default tolerances, mirrored in pkg/config.
var (
	DefaultAmountTolerance = decimal.RequireFromString("0.01")
	DefaultFuzzyAmountPct  = 0.05
	DefaultFuzzyThreshold  = 0.8
	DefaultExactDateDays   = 3
	DefaultFuzzyDateDays   = 7
	DefaultDateMatchDays   = 1
)

// Candidate is a scored statement/business pairing proposed by a matcher.
type Candidate struct {
	Statement  domain.StatementTransaction
	Business   domain.BusinessTransaction
	Confidence float64
}

// dayDiff returns the absolute whole-day difference between two dates,
// ignoring the time-of-day component.
func dayDiff(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	days := int(da.Sub(db).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// directionAligned reports whether a statement transaction's direction
// matches the business transaction variant: outgoing expects a debit,
// incoming expects a credit.
func directionAligned(stmt domain.StatementTransaction, biz domain.BusinessTransaction) bool {
	return stmt.TransactionType == biz.Type.ExpectedStatementType()
}

// ExactMatcher accepts pairs whose amounts agree within an absolute
// tolerance, whose dates are within a few days (bank processing delay),
// and whose directions align. Confidence is always 1.0.
type ExactMatcher struct {
	AmountTolerance   decimal.Decimal
	DateToleranceDays int
}

// NewExactMatcher returns an ExactMatcher with the default tolerances.
func NewExactMatcher() ExactMatcher {
	return ExactMatcher{AmountTolerance: DefaultAmountTolerance, DateToleranceDays: DefaultExactDateDays}
}

// Matches reports whether the pair is an exact match.
func (m ExactMatcher) Matches(stmt domain.StatementTransaction, biz domain.BusinessTransaction) bool {
	diff := stmt.AbsAmount().Sub(biz.Amount).Abs()
	if diff.GreaterThan(m.AmountTolerance) {
		return false
	}
	if dayDiff(stmt.TransactionDate, biz.TransactionDate) > m.DateToleranceDays {
		return false
	}
	return directionAligned(stmt, biz)
}

// FuzzyMatcher scores pairs on amount closeness, date proximity and
// description similarity, accepting only those above its threshold.
type FuzzyMatcher struct {
	AmountTolerancePct float64 // relative, e.g. 0.05
	DateToleranceDays  int
	Threshold          float64
}

// NewFuzzyMatcher returns a FuzzyMatcher with the default tolerances
// and the given acceptance threshold (<=0 falls back to the default).
func NewFuzzyMatcher(threshold float64) FuzzyMatcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return FuzzyMatcher{
		AmountTolerancePct: DefaultFuzzyAmountPct,
		DateToleranceDays:  DefaultFuzzyDateDays,
		Threshold:          threshold,
	}
}

// Score returns the pair's confidence and whether it clears the
// threshold. Confidence is 0.4*amount + 0.2*date + 0.4*text, where the
// text score is the better of description-vs-description and
// description-vs-vendor-name similarity.
func (m FuzzyMatcher) Score(stmt domain.StatementTransaction, biz domain.BusinessTransaction) (float64, bool) {
	if !directionAligned(stmt, biz) {
		return 0, false
	}

	stmtAmount := stmt.AbsAmount()
	larger := decimal.Max(stmtAmount, biz.Amount)
	if larger.IsZero() {
		return 0, false
	}
	amountDiffPct, _ := stmtAmount.Sub(biz.Amount).Abs().Div(larger).Float64()
	if amountDiffPct > m.AmountTolerancePct {
		return 0, false
	}

	days := dayDiff(stmt.TransactionDate, biz.TransactionDate)
	if days > m.DateToleranceDays {
		return 0, false
	}

	stmtDesc := NormalizeDescription(stmt.Description)
	textScore := Similarity(stmtDesc, NormalizeDescription(biz.Description))
	if biz.VendorName != "" {
		if vendorScore := Similarity(stmtDesc, NormalizeDescription(biz.VendorName)); vendorScore > textScore {
			textScore = vendorScore
		}
	}

	amountScore := 1 - amountDiffPct
	dateScore := 1 - float64(days)/float64(m.DateToleranceDays)
	if dateScore < 0 {
		dateScore = 0
	}

	confidence := 0.4*amountScore + 0.2*dateScore + 0.4*textScore
	return confidence, confidence >= m.Threshold
}

// AmountMatcher is the pure amount-tolerance fallback; it ignores dates
// and descriptions entirely.
type AmountMatcher struct {
	Tolerance decimal.Decimal
}

// NewAmountMatcher returns an AmountMatcher with the default tolerance.
func NewAmountMatcher() AmountMatcher {
	return AmountMatcher{Tolerance: DefaultAmountTolerance}
}

// FindMatches returns every direction-aligned pair within the amount
// tolerance, ranked by confidence descending.
func (m AmountMatcher) FindMatches(statements []domain.StatementTransaction, business []domain.BusinessTransaction) []Candidate {
	var candidates []Candidate
	for _, stmt := range statements {
		stmtAmount := stmt.AbsAmount()
		for _, biz := range business {
			if !directionAligned(stmt, biz) {
				continue
			}
			diff := stmtAmount.Sub(biz.Amount).Abs()
			if diff.GreaterThan(m.Tolerance) {
				continue
			}
			larger := decimal.Max(stmtAmount, biz.Amount)
			confidence := 1.0
			if !larger.IsZero() {
				ratio, _ := diff.Div(larger).Float64()
				confidence = 1 - ratio
			}
			candidates = append(candidates, Candidate{Statement: stmt, Business: biz, Confidence: confidence})
		}
	}
	sortCandidates(candidates)
	return candidates
}

// DateMatcher is the final fallback, pairing transactions that occurred
// within a day of each other regardless of amount or description.
type DateMatcher struct {
	ToleranceDays int
}

// NewDateMatcher returns a DateMatcher with the default tolerance.
func NewDateMatcher() DateMatcher {
	return DateMatcher{ToleranceDays: DefaultDateMatchDays}
}

// FindMatches returns every direction-aligned pair within the date
// tolerance, ranked by confidence descending.
func (m DateMatcher) FindMatches(statements []domain.StatementTransaction, business []domain.BusinessTransaction) []Candidate {
	var candidates []Candidate
	for _, stmt := range statements {
		for _, biz := range business {
			if !directionAligned(stmt, biz) {
				continue
			}
			days := dayDiff(stmt.TransactionDate, biz.TransactionDate)
			if days > m.ToleranceDays {
				continue
			}
			confidence := 1 - float64(days)/float64(m.ToleranceDays+1)
			candidates = append(candidates, Candidate{Statement: stmt, Business: biz, Confidence: confidence})
		}
	}
	sortCandidates(candidates)
	return candidates
}

func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
}
