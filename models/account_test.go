package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNaturalBalance_CreditNaturedFlips(t *testing.T) {
	balance := decimal.RequireFromString("-150.00")

	for _, mainType := range []AccountMainType{AccountMainTypeLiability, AccountMainTypeEquity, AccountMainTypeIncome} {
		got := NaturalBalance(mainType, balance, 2)
		if !got.Equal(decimal.RequireFromString("150.00")) {
			t.Fatalf("%s: expected 150.00, got %s", mainType, got)
		}
	}
}

func TestNaturalBalance_DebitNaturedKeepsSign(t *testing.T) {
	balance := decimal.RequireFromString("150.00")

	for _, mainType := range []AccountMainType{AccountMainTypeAsset, AccountMainTypeExpense} {
		got := NaturalBalance(mainType, balance, 2)
		if !got.Equal(balance) {
			t.Fatalf("%s: expected 150.00, got %s", mainType, got)
		}
	}
}

func TestNaturalBalance_RoundsAtOutput(t *testing.T) {
	got := NaturalBalance(AccountMainTypeAsset, decimal.RequireFromString("10.005"), 2)
	if !got.Equal(decimal.RequireFromString("10.01")) {
		t.Fatalf("expected 10.01, got %s", got)
	}
	got = NaturalBalance(AccountMainTypeLiability, decimal.RequireFromString("-10.004"), 2)
	if !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected 10.00, got %s", got)
	}
}

func TestIsCreditNatured(t *testing.T) {
	cases := map[AccountMainType]bool{
		AccountMainTypeAsset:     false,
		AccountMainTypeLiability: true,
		AccountMainTypeEquity:    true,
		AccountMainTypeIncome:    true,
		AccountMainTypeExpense:   false,
	}
	for mainType, want := range cases {
		if got := mainType.IsCreditNatured(); got != want {
			t.Fatalf("%s: expected %v, got %v", mainType, want, got)
		}
	}
}
