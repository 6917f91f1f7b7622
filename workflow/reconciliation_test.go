package workflow

import (
	"testing"
	"time"

	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the matcher's
// tier semantics over an in-memory candidate pool; DB integration is covered
// by running against MySQL.

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func drLine(id int, amount string, date time.Time, desc string) *models.TransactionBookingLine {
	return &models.TransactionBookingLine{
		ID:              id,
		Description:     desc,
		TransactionType: models.TransactionTypeDebit,
		DrAmount:        decimal.RequireFromString(amount),
		TransactionDate: date,
	}
}

func crLine(id int, amount string, date time.Time, desc string) *models.TransactionBookingLine {
	return &models.TransactionBookingLine{
		ID:              id,
		Description:     desc,
		TransactionType: models.TransactionTypeCredit,
		CrAmount:        decimal.RequireFromString(amount),
		TransactionDate: date,
	}
}

func TestMatchStatementLine_ReferenceHit(t *testing.T) {
	d := day(2024, time.March, 5)
	candidates := []*MatchCandidate{
		{Line: drLine(1, "50.00", d, "Sales deposit"), TransactionNumber: "TRF/1007"},
		{Line: drLine(2, "100.00", d, "Sales deposit"), TransactionNumber: "TRF/1008"},
	}

	result := MatchStatementLine("1008", decimal.RequireFromString("100.00"), d, candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected matched, got %s", result.Status)
	}
	if result.Candidate.Line.ID != 2 {
		t.Fatalf("expected booking line 2, got %d", result.Candidate.Line.ID)
	}
}

func TestMatchStatementLine_ReferenceInsideTransactionNumber(t *testing.T) {
	// the booking number carries the statement reference as a fragment; the
	// reference hit must win even though the dates differ
	candidates := []*MatchCandidate{
		{Line: drLine(1, "100.00", day(2024, time.March, 1), ""), TransactionNumber: "INV/123/2024"},
	}

	result := MatchStatementLine("123", decimal.RequireFromString("100.00"), day(2024, time.March, 5), candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected reference match, got %s", result.Status)
	}

	// the opposite direction is not a reference hit: a verbose statement ref
	// is never contained in a short booking number
	result = MatchStatementLine("TRF 1008 branch", decimal.RequireFromString("100.00"), day(2024, time.March, 5), candidates)
	if result.Status != models.MatchStatusUnmatched {
		t.Fatalf("expected unmatched, got %s", result.Status)
	}
}

func TestMatchStatementLine_SameDayAmountDisagreement(t *testing.T) {
	d := day(2024, time.March, 5)
	candidates := []*MatchCandidate{
		{Line: drLine(1, "100.00", d, ""), TransactionNumber: "2001"},
		// an exact-amount candidate exists later in the pool, but the
		// reference disagreement must win and stop the scan
		{Line: drLine(2, "90.00", d, ""), TransactionNumber: "9999"},
	}

	result := MatchStatementLine("2001", decimal.RequireFromString("90.00"), d, candidates)
	if result.Status != models.MatchStatusMismatch {
		t.Fatalf("expected mismatch, got %s", result.Status)
	}
	if result.Candidate.Line.ID != 1 {
		t.Fatalf("expected the referenced line 1, got %d", result.Candidate.Line.ID)
	}
	want := " [Mismatch: Sys Amount 100.00]"
	if result.Note != want {
		t.Fatalf("expected note %q, got %q", want, result.Note)
	}
}

func TestMatchStatementLine_ReferencedOtherDayFallsThrough(t *testing.T) {
	stmtDay := day(2024, time.March, 5)
	candidates := []*MatchCandidate{
		// referenced but amounts differ and it is a different day
		{Line: drLine(1, "100.00", day(2024, time.March, 1), ""), TransactionNumber: "3001"},
		// amount+date fallback candidate
		{Line: drLine(2, "75.00", stmtDay, ""), TransactionNumber: "3002"},
	}

	result := MatchStatementLine("3001", decimal.RequireFromString("75.00"), stmtDay, candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected fallback match, got %s", result.Status)
	}
	if result.Candidate.Line.ID != 2 {
		t.Fatalf("expected booking line 2, got %d", result.Candidate.Line.ID)
	}
}

func TestMatchStatementLine_AmountDateFallback(t *testing.T) {
	d := day(2024, time.April, 10)
	candidates := []*MatchCandidate{
		{Line: drLine(1, "200.00", day(2024, time.April, 9), ""), TransactionNumber: "4001"},
		{Line: drLine(2, "200.00", d, ""), TransactionNumber: "4002"},
	}

	result := MatchStatementLine("no reference here", decimal.RequireFromString("200.00"), d, candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected matched, got %s", result.Status)
	}
	if result.Candidate.Line.ID != 2 {
		t.Fatalf("expected same-day line 2, got %d", result.Candidate.Line.ID)
	}
}

func TestMatchStatementLine_CreditLineNormalizedSign(t *testing.T) {
	d := day(2024, time.May, 2)
	candidates := []*MatchCandidate{
		{Line: crLine(1, "40.00", d, "ATM withdrawal"), TransactionNumber: "5001"},
	}

	// outflows arrive as negative statement amounts
	result := MatchStatementLine("5001", decimal.RequireFromString("-40.00"), d, candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected matched, got %s", result.Status)
	}
}

func TestMatchStatementLine_DescriptionContainsReference(t *testing.T) {
	d := day(2024, time.May, 2)
	candidates := []*MatchCandidate{
		{Line: drLine(1, "60.00", d, "Deposit INV-778 morning batch"), TransactionNumber: ""},
	}

	result := MatchStatementLine("INV-778", decimal.RequireFromString("60.00"), d, candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected matched via description, got %s", result.Status)
	}
}

func TestMatchStatementLine_FallbackRequiresExactAmount(t *testing.T) {
	d := day(2024, time.April, 10)
	candidates := []*MatchCandidate{
		// same day, no reference evidence, amount off by a fraction of a cent
		{Line: drLine(1, "100.004", d, ""), TransactionNumber: "4100"},
	}

	result := MatchStatementLine("no reference here", decimal.RequireFromString("100.00"), d, candidates)
	if result.Status != models.MatchStatusUnmatched {
		t.Fatalf("expected unmatched on inexact unreferenced amount, got %s", result.Status)
	}

	result = MatchStatementLine("no reference here", decimal.RequireFromString("100.004"), d, candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected exact-amount fallback match, got %s", result.Status)
	}
}

func TestMatchStatementLine_NoCandidate(t *testing.T) {
	d := day(2024, time.June, 1)
	candidates := []*MatchCandidate{
		{Line: drLine(1, "10.00", day(2024, time.June, 2), ""), TransactionNumber: "6001"},
	}

	result := MatchStatementLine("unrelated", decimal.RequireFromString("10.00"), d, candidates)
	if result.Status != models.MatchStatusUnmatched {
		t.Fatalf("expected unmatched, got %s", result.Status)
	}
	if result.Candidate != nil {
		t.Fatalf("expected no candidate on unmatched")
	}
}

func TestMatchStatementLine_FirstHitIsStable(t *testing.T) {
	d := day(2024, time.July, 8)
	candidates := []*MatchCandidate{
		{Line: drLine(3, "25.00", d, ""), TransactionNumber: "7003"},
		{Line: drLine(7, "25.00", d, ""), TransactionNumber: "7007"},
	}

	for i := 0; i < 10; i++ {
		result := MatchStatementLine("x", decimal.RequireFromString("25.00"), d, candidates)
		if result.Status != models.MatchStatusMatched || result.Candidate.Line.ID != 3 {
			t.Fatalf("run %d: expected stable match on line 3, got %+v", i, result)
		}
	}
}

func TestMatchStatementLine_ToleranceBoundary(t *testing.T) {
	d := day(2024, time.August, 1)
	candidates := []*MatchCandidate{
		{Line: drLine(1, "100.00", d, ""), TransactionNumber: "8001"},
	}

	// 0.005 below tolerance matches
	result := MatchStatementLine("8001", decimal.RequireFromString("100.005"), d, candidates)
	if result.Status != models.MatchStatusMatched {
		t.Fatalf("expected matched within tolerance, got %s", result.Status)
	}

	// exactly 0.01 off does not
	result = MatchStatementLine("8001", decimal.RequireFromString("100.01"), d, candidates)
	if result.Status != models.MatchStatusMismatch {
		t.Fatalf("expected mismatch at tolerance edge, got %s", result.Status)
	}
}
