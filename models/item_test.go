package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNextMovingAverageCost_Blend(t *testing.T) {
	// 10 @ 2.00 on hand, receive 10 @ 4.00 -> 3.00
	got := NextMovingAverageCost(
		decimal.RequireFromString("10"), decimal.RequireFromString("2.00"),
		decimal.RequireFromString("10"), decimal.RequireFromString("4.00"))
	if !got.Equal(decimal.RequireFromString("3")) {
		t.Fatalf("expected 3, got %s", got)
	}
}

func TestNextMovingAverageCost_EmptyStockTakesIncomingCost(t *testing.T) {
	got := NextMovingAverageCost(
		decimal.Zero, decimal.Zero,
		decimal.RequireFromString("5"), decimal.RequireFromString("1.25"))
	if !got.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("expected 1.25, got %s", got)
	}
}

func TestNextMovingAverageCost_ZeroCombinedQty(t *testing.T) {
	got := NextMovingAverageCost(decimal.Zero, decimal.RequireFromString("9.99"), decimal.Zero, decimal.RequireFromString("7.77"))
	if !got.Equal(decimal.RequireFromString("7.77")) {
		t.Fatalf("expected incoming cost on zero qty, got %s", got)
	}
}

func TestNextMovingAverageCost_NoIntermediateRounding(t *testing.T) {
	// 3 @ 1.00 plus 1 @ 2.00 = 5/4 = 1.25 exactly; chained blends must not
	// drift from rounding between steps
	step1 := NextMovingAverageCost(
		decimal.RequireFromString("3"), decimal.RequireFromString("1.00"),
		decimal.RequireFromString("1"), decimal.RequireFromString("2.00"))
	if !step1.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("expected 1.25, got %s", step1)
	}

	// receive 4 more @ 1.75: (4*1.25 + 4*1.75)/8 = 1.50
	step2 := NextMovingAverageCost(
		decimal.RequireFromString("4"), step1,
		decimal.RequireFromString("4"), decimal.RequireFromString("1.75"))
	if !step2.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("expected 1.5, got %s", step2)
	}
}
