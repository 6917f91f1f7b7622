package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// matchTolerance is the amount comparison tolerance of the auto matcher.
var matchTolerance = decimal.New(1, -2) // 0.01

// MatchCandidate pairs a booking line with its header's transaction number
// for reference matching.
type MatchCandidate struct {
	Line              *models.TransactionBookingLine
	TransactionNumber string
}

// MatchResult is one auto-matcher decision for a statement line.
type MatchResult struct {
	Candidate *MatchCandidate
	Status    models.MatchStatus
	Note      string
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func refMatches(paymentRef string, c *MatchCandidate) bool {
	ref := strings.ToLower(strings.TrimSpace(paymentRef))
	if ref == "" {
		return false
	}
	if num := strings.ToLower(strings.TrimSpace(c.TransactionNumber)); num != "" && strings.Contains(num, ref) {
		return true
	}
	if desc := strings.ToLower(strings.TrimSpace(c.Line.Description)); desc != "" && strings.Contains(desc, ref) {
		return true
	}
	return false
}

// MatchStatementLine runs the tiered auto matcher over the candidate pool.
// Candidates must already be ordered oldest first (id ascending); the first
// hit of a tier wins.
//
// Tier 1: reference match. The booking's transaction number contains the
// statement reference, or the line description contains the reference. On a
// reference hit the amounts decide: within tolerance it is a match; a
// same-day amount disagreement is reported as a mismatch carrying the system
// amount in the note, and scanning stops there so the disagreement surfaces
// instead of silently matching a later line.
//
// Tier 2: no reference resolution. Fall back to the exact amount on the same
// day; without reference evidence a near-miss amount is not good enough.
func MatchStatementLine(paymentRef string, amount decimal.Decimal, date time.Time, candidates []*MatchCandidate) MatchResult {

	for _, c := range candidates {
		if !refMatches(paymentRef, c) {
			continue
		}
		normalized := c.Line.NormalizedAmount()
		if amount.Sub(normalized).Abs().LessThan(matchTolerance) {
			return MatchResult{Candidate: c, Status: models.MatchStatusMatched}
		}
		if sameDay(date, c.Line.TransactionDate) {
			return MatchResult{
				Candidate: c,
				Status:    models.MatchStatusMismatch,
				Note:      fmt.Sprintf(" [Mismatch: Sys Amount %s]", normalized.StringFixed(2)),
			}
		}
	}

	for _, c := range candidates {
		if amount.Equal(c.Line.NormalizedAmount()) && sameDay(date, c.Line.TransactionDate) {
			return MatchResult{Candidate: c, Status: models.MatchStatusMatched}
		}
	}

	return MatchResult{Status: models.MatchStatusUnmatched}
}

// AutoMatchStatement runs the matcher over every unmatched line of the
// statement. Each booking line is consumed by at most one statement line per
// run. Matched pairs get an auto match record; mismatches get the note
// appended and are left for manual review.
func AutoMatchStatement(ctx context.Context, logger *logrus.Logger, statementId int) (*models.BankStatement, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	statement, err := models.GetBankStatement(ctx, statementId)
	if err != nil {
		config.LogError(logger, "reconciliationWorkflow.go", "AutoMatchStatement", "GetBankStatement", statementId, err)
		return nil, err
	}
	if statement.State == models.StatementStatePosted || statement.State == models.StatementStateCancelled {
		return nil, errors.New("cannot match a posted or cancelled statement")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		lines, err := getOpenStatementLines(tx, statementId)
		if err != nil {
			config.LogError(logger, "reconciliationWorkflow.go", "AutoMatchStatement", "getOpenStatementLines", statementId, err)
			return err
		}
		candidates, err := loadMatchCandidates(tx, ctx, businessId, statement.AccountId)
		if err != nil {
			config.LogError(logger, "reconciliationWorkflow.go", "AutoMatchStatement", "loadMatchCandidates", statement.AccountId, err)
			return err
		}

		used := map[int]bool{}
		for _, line := range lines {
			pool := make([]*MatchCandidate, 0, len(candidates))
			for _, c := range candidates {
				if !used[c.Line.ID] {
					pool = append(pool, c)
				}
			}

			result := MatchStatementLine(line.PaymentRef, line.Amount, line.Date, pool)
			switch result.Status {
			case models.MatchStatusMatched:
				used[result.Candidate.Line.ID] = true
				match := models.ReconciliationMatch{
					BusinessId:      businessId,
					StatementLineId: line.ID,
					BookingLineId:   result.Candidate.Line.ID,
					Amount:          line.Amount.Abs(),
					MatchType:       models.MatchTypeAuto,
				}
				if err := models.CreateMatch(tx, &match); err != nil {
					config.LogError(logger, "reconciliationWorkflow.go", "AutoMatchStatement", "CreateMatch", line.ID, err)
					return err
				}
			case models.MatchStatusMismatch:
				err := tx.Model(&models.BankStatementLine{}).Where("id = ?", line.ID).
					Updates(map[string]interface{}{
						"MatchStatus": models.MatchStatusMismatch,
						"Note":        line.Note + result.Note,
					}).Error
				if err != nil {
					config.LogError(logger, "reconciliationWorkflow.go", "AutoMatchStatement", "UpdateMismatch", line.ID, err)
					return err
				}
			}
		}

		if statement.State == models.StatementStateDraft {
			return tx.Model(&models.BankStatement{}).Where("id = ?", statementId).
				Update("State", models.StatementStateOpen).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return models.GetBankStatement(ctx, statementId)
}

func getOpenStatementLines(tx *gorm.DB, statementId int) ([]*models.BankStatementLine, error) {
	var lines []*models.BankStatementLine
	err := tx.
		Where("statement_id = ? AND is_reconciled = ?", statementId, false).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func loadMatchCandidates(tx *gorm.DB, ctx context.Context, businessId string, accountId int) ([]*MatchCandidate, error) {

	lines, err := models.GetUnreconciledBookingLines(tx, ctx, businessId, accountId)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	bookingIds := make([]int, 0, len(lines))
	for _, l := range lines {
		bookingIds = append(bookingIds, l.BookingId)
	}
	bookingIds = utils.UniqueSlice(bookingIds)

	var bookings []*models.TransactionBooking
	if err := tx.Where("id IN ?", bookingIds).Find(&bookings).Error; err != nil {
		return nil, err
	}
	numbers := make(map[int]string, len(bookings))
	for _, b := range bookings {
		numbers[b.ID] = b.TransactionNumber
	}

	candidates := make([]*MatchCandidate, 0, len(lines))
	for _, l := range lines {
		candidates = append(candidates, &MatchCandidate{Line: l, TransactionNumber: numbers[l.BookingId]})
	}
	return candidates, nil
}

// ManualMatch links a statement line to a booking line chosen by the user.
func ManualMatch(ctx context.Context, logger *logrus.Logger, statementLineId int, bookingLineId int) error {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var stmtLine models.BankStatementLine
		if err := tx.Where("business_id = ?", businessId).First(&stmtLine, statementLineId).Error; err != nil {
			return errors.New("statement line not found")
		}
		if stmtLine.IsReconciled != nil && *stmtLine.IsReconciled {
			return errors.New("statement line is already reconciled")
		}

		var bookingLine models.TransactionBookingLine
		if err := tx.Where("business_id = ?", businessId).First(&bookingLine, bookingLineId).Error; err != nil {
			return errors.New("booking line not found")
		}
		if bookingLine.IsReconciled != nil && *bookingLine.IsReconciled {
			return errors.New("booking line is already reconciled")
		}

		match := models.ReconciliationMatch{
			BusinessId:      businessId,
			StatementLineId: statementLineId,
			BookingLineId:   bookingLineId,
			Amount:          stmtLine.Amount.Abs(),
			MatchType:       models.MatchTypeManual,
		}
		if err := models.CreateMatch(tx, &match); err != nil {
			config.LogError(logger, "reconciliationWorkflow.go", "ManualMatch", "CreateMatch", statementLineId, err)
			return err
		}
		return nil
	})
}
