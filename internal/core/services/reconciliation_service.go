package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/matching"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
)

const systemReconciler = "system"

// reconciliationService runs the four-matcher cascade over unreconciled
// transactions and persists confirmed matches.
type reconciliationService struct {
	txnRepo   portsrepo.TransactionRepositoryFacade
	reconRepo portsrepo.ReconciliationRepositoryFacade

	exact  matching.ExactMatcher
	fuzzy  matching.FuzzyMatcher
	amount matching.AmountMatcher
	date   matching.DateMatcher

	// Concurrent runs for different accounts may interleave, but an
	// unscoped run (all accounts) must not overlap with anything: it
	// takes the write side, account-scoped runs take the read side plus
	// their own account mutex.
	globalMu     sync.RWMutex
	accountLocks sync.Map // accountID -> *sync.Mutex
}

// NewReconciliationService creates the reconciliation engine. A
// fuzzyThreshold <= 0 selects the default (0.8).
func NewReconciliationService(txnRepo portsrepo.TransactionRepositoryFacade, reconRepo portsrepo.ReconciliationRepositoryFacade, fuzzyThreshold float64) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		txnRepo:   txnRepo,
		reconRepo: reconRepo,
		exact:     matching.NewExactMatcher(),
		fuzzy:     matching.NewFuzzyMatcher(fuzzyThreshold),
		amount:    matching.NewAmountMatcher(),
		date:      matching.NewDateMatcher(),
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Reconcile runs the four matchers in strictly decreasing confidence
// order: exact, fuzzy, amount, date. Each pass only sees transactions
// not consumed by an earlier pass in the same run.
func (s *reconciliationService) Reconcile(ctx context.Context, accountID *string, from, to *time.Time) (*domain.ReconciliationResult, error) {
	unlock := s.lockScope(accountID)
	defer unlock()

	logger := middleware.GetLoggerFromCtx(ctx)

	set, err := s.txnRepo.FindUnreconciled(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unreconciled transactions: %w", err)
	}

	statements := filterStatementsByDate(set.Statements, from, to)
	outgoing := filterBusinessByDate(set.Outgoing, from, to)
	incoming := filterBusinessByDate(set.Incoming, from, to)

	logger.Info("Starting reconciliation run",
		slog.Int("statements", len(statements)),
		slog.Int("outgoing", len(outgoing)),
		slog.Int("incoming", len(incoming)),
	)

	run := &reconcileRun{
		statements:   statements,
		outgoing:     outgoing,
		incoming:     incoming,
		consumedStmt: map[string]bool{},
		consumedBiz:  map[string]bool{},
		result:       &domain.ReconciliationResult{},
	}

	// The passes share the consumed sets, so order is load-bearing.
	if err := s.runExactPass(ctx, run); err != nil {
		return nil, err
	}
	if err := s.runFuzzyPass(ctx, run); err != nil {
		return nil, err
	}
	if err := s.runAmountPass(ctx, run); err != nil {
		return nil, err
	}
	if err := s.runDatePass(ctx, run); err != nil {
		return nil, err
	}

	run.collectUnmatched()
	run.result.Summary = summarize(run.result)

	logger.Info("Reconciliation run complete",
		slog.Int("total_matches", run.result.Summary.TotalMatches),
		slog.Int("unmatched_statements", run.result.Summary.UnmatchedStatements),
		slog.Float64("reconciliation_rate", run.result.Summary.ReconciliationRate),
	)
	return run.result, nil
}

// GetMatchForStatement resolves the reconciliation record for one
// statement transaction and loads both transactions it links.
func (s *reconciliationService) GetMatchForStatement(ctx context.Context, statementTransactionID string) (*domain.MatchDetail, error) {
	record, err := s.reconRepo.FindRecordByStatementTransaction(ctx, statementTransactionID)
	if err != nil {
		return nil, err
	}

	stmt, err := s.txnRepo.FindStatementTransactionByID(ctx, record.StatementTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matched statement transaction: %w", err)
	}
	biz, err := s.txnRepo.FindBusinessTransactionByID(ctx, record.BusinessTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matched business transaction: %w", err)
	}

	return &domain.MatchDetail{Record: *record, Statement: *stmt, Business: *biz}, nil
}

// lockScope serializes runs that could double-match the same statement
// transaction and returns the matching unlock function.
func (s *reconciliationService) lockScope(accountID *string) func() {
	if accountID == nil {
		s.globalMu.Lock()
		return s.globalMu.Unlock
	}
	s.globalMu.RLock()
	muIface, _ := s.accountLocks.LoadOrStore(*accountID, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	return func() {
		mu.Unlock()
		s.globalMu.RUnlock()
	}
}

// reconcileRun carries the working state of one Reconcile invocation.
type reconcileRun struct {
	statements []domain.StatementTransaction
	outgoing   []domain.BusinessTransaction
	incoming   []domain.BusinessTransaction

	consumedStmt map[string]bool
	consumedBiz  map[string]bool

	result *domain.ReconciliationResult
}

func (r *reconcileRun) availableStatements() []domain.StatementTransaction {
	out := make([]domain.StatementTransaction, 0, len(r.statements))
	for _, stmt := range r.statements {
		if !r.consumedStmt[stmt.TransactionID] {
			out = append(out, stmt)
		}
	}
	return out
}

func (r *reconcileRun) availableBusiness(txns []domain.BusinessTransaction) []domain.BusinessTransaction {
	out := make([]domain.BusinessTransaction, 0, len(txns))
	for _, biz := range txns {
		if !r.consumedBiz[biz.TransactionID] {
			out = append(out, biz)
		}
	}
	return out
}

func (r *reconcileRun) consume(m domain.Match) {
	r.consumedStmt[m.Statement.TransactionID] = true
	r.consumedBiz[m.Business.TransactionID] = true
}

func (r *reconcileRun) collectUnmatched() {
	r.result.UnmatchedStatements = r.availableStatements()
	r.result.UnmatchedBusiness = append(r.availableBusiness(r.outgoing), r.availableBusiness(r.incoming)...)
}

// runExactPass greedily takes the first eligible business transaction
// for each statement, outgoing ledger first. First-fit, not best-of: a
// deliberate simplification carried over from the reference behavior.
func (s *reconciliationService) runExactPass(ctx context.Context, run *reconcileRun) error {
	for _, stmt := range run.availableStatements() {
		match, found := s.findExact(stmt, run)
		if !found {
			continue
		}
		if err := s.persistMatch(ctx, run, match); err != nil {
			return err
		}
	}
	return nil
}

func (s *reconciliationService) findExact(stmt domain.StatementTransaction, run *reconcileRun) (domain.Match, bool) {
	for _, ledger := range [][]domain.BusinessTransaction{run.availableBusiness(run.outgoing), run.availableBusiness(run.incoming)} {
		for _, biz := range ledger {
			if s.exact.Matches(stmt, biz) {
				return domain.Match{
					Statement:  stmt,
					Business:   biz,
					Type:       domain.MatchExact,
					Confidence: 1.0,
					Direction:  biz.Type,
				}, true
			}
		}
	}
	return domain.Match{}, false
}

// runFuzzyPass is greedy first-fit like the exact pass, but accepts the
// first pair clearing the confidence threshold.
func (s *reconciliationService) runFuzzyPass(ctx context.Context, run *reconcileRun) error {
	for _, stmt := range run.availableStatements() {
		match, found := s.findFuzzy(stmt, run)
		if !found {
			continue
		}
		if err := s.persistMatch(ctx, run, match); err != nil {
			return err
		}
	}
	return nil
}

func (s *reconciliationService) findFuzzy(stmt domain.StatementTransaction, run *reconcileRun) (domain.Match, bool) {
	for _, ledger := range [][]domain.BusinessTransaction{run.availableBusiness(run.outgoing), run.availableBusiness(run.incoming)} {
		for _, biz := range ledger {
			if confidence, ok := s.fuzzy.Score(stmt, biz); ok {
				return domain.Match{
					Statement:  stmt,
					Business:   biz,
					Type:       domain.MatchFuzzy,
					Confidence: confidence,
					Direction:  biz.Type,
				}, true
			}
		}
	}
	return domain.Match{}, false
}

// runAmountPass ranks every remaining amount-tolerant pair by
// confidence and consumes them best-first.
func (s *reconciliationService) runAmountPass(ctx context.Context, run *reconcileRun) error {
	business := append(run.availableBusiness(run.outgoing), run.availableBusiness(run.incoming)...)
	candidates := s.amount.FindMatches(run.availableStatements(), business)
	return s.consumeRanked(ctx, run, candidates, domain.MatchAmount)
}

// runDatePass is the final fallback: date proximity only, ranked.
func (s *reconciliationService) runDatePass(ctx context.Context, run *reconcileRun) error {
	business := append(run.availableBusiness(run.outgoing), run.availableBusiness(run.incoming)...)
	candidates := s.date.FindMatches(run.availableStatements(), business)
	return s.consumeRanked(ctx, run, candidates, domain.MatchDate)
}

func (s *reconciliationService) consumeRanked(ctx context.Context, run *reconcileRun, candidates []matching.Candidate, matchType domain.MatchType) error {
	for _, cand := range candidates {
		if run.consumedStmt[cand.Statement.TransactionID] || run.consumedBiz[cand.Business.TransactionID] {
			continue
		}
		match := domain.Match{
			Statement:  cand.Statement,
			Business:   cand.Business,
			Type:       matchType,
			Confidence: cand.Confidence,
			Direction:  cand.Business.Type,
		}
		if err := s.persistMatch(ctx, run, match); err != nil {
			return err
		}
	}
	return nil
}

// persistMatch writes the reconciliation record (and both status flips)
// and registers the match in the run. An inconsistency from a partially
// applied write is recorded on the result and the pair still counts as
// consumed, but it does not count as a match: the store holds no record
// for it. Any other error is a store failure and aborts the run.
func (s *reconciliationService) persistMatch(ctx context.Context, run *reconcileRun, match domain.Match) error {
	now := time.Now().UTC()
	record := domain.ReconciliationRecord{
		RecordID:                uuid.NewString(),
		StatementTransactionID:  match.Statement.TransactionID,
		BusinessTransactionID:   match.Business.TransactionID,
		BusinessTransactionType: match.Direction,
		MatchType:               match.Type,
		ConfidenceScore:         match.Confidence,
		ReconciledBy:            systemReconciler,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemReconciler,
			LastUpdatedAt: now,
			LastUpdatedBy: systemReconciler,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, record); err != nil {
		var inconsistency *apperrors.ReconciliationInconsistencyError
		if !errors.As(err, &inconsistency) {
			return fmt.Errorf("failed to persist %s match: %w", match.Type, err)
		}
		middleware.GetLoggerFromCtx(ctx).Error("Reconciliation write partially applied",
			slog.String("statement_transaction_id", inconsistency.StatementTransactionID),
			slog.String("business_transaction_id", inconsistency.BusinessTransactionID),
			slog.String("failed_step", inconsistency.FailedStep),
			slog.String("error", inconsistency.Error()),
		)
		run.result.Inconsistencies = append(run.result.Inconsistencies, inconsistency.Error())
		run.consume(match)
		return nil
	}

	run.consume(match)
	switch match.Type {
	case domain.MatchExact:
		run.result.ExactMatches = append(run.result.ExactMatches, match)
	case domain.MatchFuzzy:
		run.result.FuzzyMatches = append(run.result.FuzzyMatches, match)
	case domain.MatchAmount:
		run.result.AmountMatches = append(run.result.AmountMatches, match)
	case domain.MatchDate:
		run.result.DateMatches = append(run.result.DateMatches, match)
	}
	return nil
}

func summarize(result *domain.ReconciliationResult) domain.ReconciliationSummary {
	total := len(result.AllMatches())
	summary := domain.ReconciliationSummary{
		TotalMatches:        total,
		ExactMatches:        len(result.ExactMatches),
		FuzzyMatches:        len(result.FuzzyMatches),
		AmountMatches:       len(result.AmountMatches),
		DateMatches:         len(result.DateMatches),
		UnmatchedStatements: len(result.UnmatchedStatements),
		UnmatchedBusiness:   len(result.UnmatchedBusiness),
	}
	if denominator := total + summary.UnmatchedStatements; denominator > 0 {
		summary.ReconciliationRate = float64(total) / float64(denominator)
	}
	return summary
}

func filterStatementsByDate(txns []domain.StatementTransaction, from, to *time.Time) []domain.StatementTransaction {
	if from == nil && to == nil {
		return txns
	}
	out := make([]domain.StatementTransaction, 0, len(txns))
	for _, txn := range txns {
		if inDateRange(txn.TransactionDate, from, to) {
			out = append(out, txn)
		}
	}
	return out
}

func filterBusinessByDate(txns []domain.BusinessTransaction, from, to *time.Time) []domain.BusinessTransaction {
	if from == nil && to == nil {
		return txns
	}
	out := make([]domain.BusinessTransaction, 0, len(txns))
	for _, txn := range txns {
		if inDateRange(txn.TransactionDate, from, to) {
			out = append(out, txn)
		}
	}
	return out
}

func inDateRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
