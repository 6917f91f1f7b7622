package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountsReconcile(t *testing.T) {
	amount := decimal.RequireFromString("100.00")

	if !AmountsReconcile(amount, decimal.RequireFromString("100.00")) {
		t.Fatal("exact cover must reconcile")
	}
	if !AmountsReconcile(amount, decimal.RequireFromString("100.0005")) {
		t.Fatal("within 0.001 must reconcile")
	}
	if AmountsReconcile(amount, decimal.RequireFromString("100.001")) {
		t.Fatal("exactly 0.001 off must not reconcile")
	}
	if AmountsReconcile(amount, decimal.RequireFromString("99.99")) {
		t.Fatal("a cent short must not reconcile")
	}
}

func TestAmountsReconcile_NegativeStatementAmount(t *testing.T) {
	// outflow lines carry negative amounts; matches store unsigned totals
	if !AmountsReconcile(decimal.RequireFromString("-40.00"), decimal.RequireFromString("40.00")) {
		t.Fatal("negative line with matching unsigned total must reconcile")
	}
	if AmountsReconcile(decimal.RequireFromString("-40.00"), decimal.Zero) {
		t.Fatal("uncovered line must not reconcile")
	}
}
