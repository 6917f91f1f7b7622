package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestNextCommissionDueDate_Daily(t *testing.T) {
	txDate := d(2024, time.March, 15)
	due := NextCommissionDueDate(txDate, PaymentScheduleDaily, 10)
	if !due.Equal(txDate) {
		t.Fatalf("daily schedule must be due same day, got %s", due)
	}
}

func TestNextCommissionDueDate_MonthlyBeforePaymentDay(t *testing.T) {
	due := NextCommissionDueDate(d(2024, time.March, 10), PaymentScheduleMonthly, 15)
	if !due.Equal(d(2024, time.March, 15)) {
		t.Fatalf("expected 2024-03-15, got %s", due)
	}
}

func TestNextCommissionDueDate_MonthlyOnOrAfterPaymentDayRolls(t *testing.T) {
	// the payment day itself already rolls to next month
	due := NextCommissionDueDate(d(2024, time.March, 15), PaymentScheduleMonthly, 15)
	if !due.Equal(d(2024, time.April, 15)) {
		t.Fatalf("expected 2024-04-15, got %s", due)
	}
	due = NextCommissionDueDate(d(2024, time.March, 20), PaymentScheduleMonthly, 15)
	if !due.Equal(d(2024, time.April, 15)) {
		t.Fatalf("expected 2024-04-15, got %s", due)
	}
}

func TestNextCommissionDueDate_ClampsToMonthEnd(t *testing.T) {
	// day 31 in a leap-year February pays on the 29th
	due := NextCommissionDueDate(d(2024, time.January, 31), PaymentScheduleMonthly, 31)
	if !due.Equal(d(2024, time.February, 29)) {
		t.Fatalf("expected 2024-02-29, got %s", due)
	}
	// and the 28th outside leap years
	due = NextCommissionDueDate(d(2023, time.January, 31), PaymentScheduleMonthly, 31)
	if !due.Equal(d(2023, time.February, 28)) {
		t.Fatalf("expected 2023-02-28, got %s", due)
	}
}

func TestNextCommissionDueDate_DecemberRollsYear(t *testing.T) {
	due := NextCommissionDueDate(d(2024, time.December, 20), PaymentScheduleMonthly, 5)
	if !due.Equal(d(2025, time.January, 5)) {
		t.Fatalf("expected 2025-01-05, got %s", due)
	}
}

func TestNextCommissionDueDate_PaymentDayOutOfRangeClamps(t *testing.T) {
	due := NextCommissionDueDate(d(2024, time.March, 1), PaymentScheduleMonthly, 0)
	if !due.Equal(d(2024, time.April, 1)) {
		t.Fatalf("expected clamp to day 1 and roll, got %s", due)
	}
	due = NextCommissionDueDate(d(2024, time.March, 1), PaymentScheduleMonthly, 99)
	if !due.Equal(d(2024, time.March, 31)) {
		t.Fatalf("expected clamp to day 31, got %s", due)
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	total := decimal.RequireFromString("100.00")

	if got := DerivePaymentStatus(decimal.Zero, total); got != PaymentStatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
	if got := DerivePaymentStatus(decimal.RequireFromString("40.00"), total); got != PaymentStatusPartialPaid {
		t.Fatalf("expected partial_paid, got %s", got)
	}
	if got := DerivePaymentStatus(total, total); got != PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", got)
	}
	// within the 0.00001 tolerance counts as paid
	if got := DerivePaymentStatus(decimal.RequireFromString("99.999995"), total); got != PaymentStatusPaid {
		t.Fatalf("expected paid within tolerance, got %s", got)
	}
}

func TestIsCommissionPayable(t *testing.T) {
	today := d(2024, time.June, 15)

	if IsCommissionPayable(PaymentStatusPaid, d(2024, time.June, 1), today) {
		t.Fatal("a paid commission is never payable")
	}
	if !IsCommissionPayable(PaymentStatusPending, today, today) {
		t.Fatal("due today is payable")
	}
	if !IsCommissionPayable(PaymentStatusPartialPaid, d(2024, time.May, 31), today) {
		t.Fatal("overdue partial is payable")
	}
	if IsCommissionPayable(PaymentStatusPending, d(2024, time.June, 16), today) {
		t.Fatal("due tomorrow is not yet payable")
	}
}
