package workflow

import (
	"testing"
	"time"

	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/shopspring/decimal"
)

func commission(id int, amount, paid string) *models.Commission {
	a := decimal.RequireFromString(amount)
	p := decimal.RequireFromString(paid)
	return &models.Commission{
		ID:                  id,
		CommissionAmount:    a,
		CommissionPaid:      p,
		CommissionRemaining: a.Sub(p),
		Date:                time.Date(2024, time.January, id, 0, 0, 0, 0, time.UTC),
	}
}

func TestAllocatePayment_GreedyOldestFirst(t *testing.T) {
	commissions := []*models.Commission{
		commission(1, "30.00", "0"),
		commission(2, "50.00", "0"),
		commission(3, "20.00", "0"),
	}

	allocations, err := AllocatePayment(decimal.RequireFromString("60.00"), commissions)
	if err != nil {
		t.Fatal(err)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}
	if allocations[0].CommissionId != 1 || !allocations[0].Amount.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("unexpected first allocation: %+v", allocations[0])
	}
	if allocations[1].CommissionId != 2 || !allocations[1].Amount.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("unexpected second allocation: %+v", allocations[1])
	}
}

func TestAllocatePayment_RejectsOverpayment(t *testing.T) {
	commissions := []*models.Commission{
		commission(1, "30.00", "10.00"),
		commission(2, "20.00", "0"),
	}

	// total outstanding is 40; 40.01 must be rejected outright
	_, err := AllocatePayment(decimal.RequireFromString("40.01"), commissions)
	if err == nil {
		t.Fatal("expected overpayment rejection")
	}

	// exactly the outstanding total is fine
	allocations, err := AllocatePayment(decimal.RequireFromString("40.00"), commissions)
	if err != nil {
		t.Fatal(err)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}
}

func TestAllocatePayment_ConservesAmount(t *testing.T) {
	commissions := []*models.Commission{
		commission(1, "12.345", "0"),
		commission(2, "7.891", "1.111"),
		commission(3, "100.00", "0"),
	}

	amount := decimal.RequireFromString("55.55")
	allocations, err := AllocatePayment(amount, commissions)
	if err != nil {
		t.Fatal(err)
	}

	total := decimal.Zero
	for _, alloc := range allocations {
		if !alloc.Amount.IsPositive() {
			t.Fatalf("allocation must be positive: %+v", alloc)
		}
		total = total.Add(alloc.Amount)
	}
	if !total.Equal(amount) {
		t.Fatalf("allocated %s, expected %s", total.String(), amount.String())
	}
}

func TestAllocatePayment_SkipsSettledCommissions(t *testing.T) {
	commissions := []*models.Commission{
		commission(1, "30.00", "30.00"),
		commission(2, "20.00", "0"),
	}

	allocations, err := AllocatePayment(decimal.RequireFromString("15.00"), commissions)
	if err != nil {
		t.Fatal(err)
	}
	if len(allocations) != 1 || allocations[0].CommissionId != 2 {
		t.Fatalf("expected a single allocation to commission 2, got %+v", allocations)
	}
}

func TestAllocatePayment_NeverExceedsRemaining(t *testing.T) {
	commissions := []*models.Commission{
		commission(1, "10.00", "3.00"),
		commission(2, "10.00", "0"),
	}

	allocations, err := AllocatePayment(decimal.RequireFromString("9.00"), commissions)
	if err != nil {
		t.Fatal(err)
	}
	for _, alloc := range allocations {
		if alloc.Amount.GreaterThan(alloc.CommissionRemaining) {
			t.Fatalf("allocation %s exceeds remaining %s",
				alloc.Amount.String(), alloc.CommissionRemaining.String())
		}
	}
}

func TestAllocatePayment_Deterministic(t *testing.T) {
	commissions := []*models.Commission{
		commission(1, "33.33", "0"),
		commission(2, "44.44", "4.44"),
		commission(3, "55.55", "0"),
	}
	amount := decimal.RequireFromString("70.00")

	first, err := AllocatePayment(amount, commissions)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := AllocatePayment(amount, commissions)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: allocation count changed", i)
		}
		for j := range again {
			if again[j].CommissionId != first[j].CommissionId || !again[j].Amount.Equal(first[j].Amount) {
				t.Fatalf("run %d: allocation %d changed: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestAllocatePayment_RejectsNonPositive(t *testing.T) {
	commissions := []*models.Commission{commission(1, "10.00", "0")}
	if _, err := AllocatePayment(decimal.Zero, commissions); err == nil {
		t.Fatal("expected rejection of zero amount")
	}
	if _, err := AllocatePayment(decimal.RequireFromString("-5"), commissions); err == nil {
		t.Fatal("expected rejection of negative amount")
	}
}
