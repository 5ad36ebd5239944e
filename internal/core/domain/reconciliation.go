package domain

// MatchType identifies which matcher produced a reconciliation link.
type MatchType string

const (
	MatchExact  MatchType = "EXACT"
	MatchFuzzy  MatchType = "FUZZY"
	MatchAmount MatchType = "AMOUNT"
	MatchDate   MatchType = "DATE"
	MatchManual MatchType = "MANUAL"
)

// ReconciliationRecord links one statement transaction to exactly one
// business transaction. Each side appears in at most one record; creating
// the record and flipping both source statuses is logically a single
// transaction.
type ReconciliationRecord struct {
	RecordID                string                  `json:"recordID"` // Primary Key (UUID)
	StatementTransactionID  string                  `json:"statementTransactionID"`
	BusinessTransactionID   string                  `json:"businessTransactionID"`
	BusinessTransactionType BusinessTransactionType `json:"businessTransactionType"`
	MatchType               MatchType               `json:"matchType"`
	ConfidenceScore         float64                 `json:"confidenceScore"` // 0.0-1.0
	ReconciledBy            string                  `json:"reconciledBy"`    // "system" for automated matches
	AuditFields
}

// Match pairs a statement transaction with a business transaction as
// found by one of the matchers, before persistence.
type Match struct {
	Statement  StatementTransaction    `json:"statementTransaction"`
	Business   BusinessTransaction     `json:"businessTransaction"`
	Type       MatchType               `json:"matchType"`
	Confidence float64                 `json:"confidenceScore"`
	Direction  BusinessTransactionType `json:"businessTransactionType"`
}

// MatchDetail joins a persisted reconciliation record with the two
// transactions it links, for match lookup endpoints.
type MatchDetail struct {
	Record    ReconciliationRecord `json:"record"`
	Statement StatementTransaction `json:"statementTransaction"`
	Business  BusinessTransaction  `json:"businessTransaction"`
}

// ReconciliationSummary reports the outcome counts of one reconcile run.
type ReconciliationSummary struct {
	TotalMatches        int     `json:"totalMatchesFound"`
	ExactMatches        int     `json:"exactMatches"`
	FuzzyMatches        int     `json:"fuzzyMatches"`
	AmountMatches       int     `json:"amountMatches"`
	DateMatches         int     `json:"dateMatches"`
	UnmatchedStatements int     `json:"unmatchedStatements"`
	UnmatchedBusiness   int     `json:"unmatchedBusinessTransactions"`
	ReconciliationRate  float64 `json:"reconciliationRate"` // Always in [0,1]
}

// ReconciliationResult is the full output of one reconcile invocation.
// Inconsistencies carries matches whose three-part write (record plus two
// status flips) only partially applied; callers must surface these.
type ReconciliationResult struct {
	ExactMatches        []Match                `json:"exactMatches"`
	FuzzyMatches        []Match                `json:"fuzzyMatches"`
	AmountMatches       []Match                `json:"amountMatches"`
	DateMatches         []Match                `json:"dateMatches"`
	UnmatchedStatements []StatementTransaction `json:"unmatchedStatements"`
	UnmatchedBusiness   []BusinessTransaction  `json:"unmatchedBusiness"`
	Inconsistencies     []string               `json:"inconsistencies,omitempty"`
	Summary             ReconciliationSummary  `json:"reconciliationSummary"`
}

// AllMatches returns every match of the run regardless of strategy.
func (r *ReconciliationResult) AllMatches() []Match {
	out := make([]Match, 0, len(r.ExactMatches)+len(r.FuzzyMatches)+len(r.AmountMatches)+len(r.DateMatches))
	out = append(out, r.ExactMatches...)
	out = append(out, r.FuzzyMatches...)
	out = append(out, r.AmountMatches...)
	out = append(out, r.DateMatches...)
	return out
}
