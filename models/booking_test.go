package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizedAmount(t *testing.T) {
	debit := TransactionBookingLine{DrAmount: decimal.RequireFromString("25.00")}
	if !debit.NormalizedAmount().Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("debit normalizes positive, got %s", debit.NormalizedAmount())
	}

	credit := TransactionBookingLine{CrAmount: decimal.RequireFromString("25.00")}
	if !credit.NormalizedAmount().Equal(decimal.RequireFromString("-25.00")) {
		t.Fatalf("credit normalizes negative, got %s", credit.NormalizedAmount())
	}
}

func TestLineAmount(t *testing.T) {
	debit := TransactionBookingLine{DrAmount: decimal.RequireFromString("10.00")}
	credit := TransactionBookingLine{CrAmount: decimal.RequireFromString("10.00")}
	if !debit.LineAmount().Equal(credit.LineAmount()) {
		t.Fatal("line amount is unsigned on both sides")
	}
}

func TestValidateBookingLine(t *testing.T) {
	ok := TransactionBookingLine{DrAmount: decimal.RequireFromString("5.00")}
	if err := validateBookingLine(&ok); err != nil {
		t.Fatalf("valid line rejected: %v", err)
	}

	both := TransactionBookingLine{
		DrAmount: decimal.RequireFromString("5.00"),
		CrAmount: decimal.RequireFromString("5.00"),
	}
	if err := validateBookingLine(&both); err == nil {
		t.Fatal("line with both sides must be rejected")
	}

	neither := TransactionBookingLine{}
	if err := validateBookingLine(&neither); err == nil {
		t.Fatal("zero line must be rejected")
	}

	negative := TransactionBookingLine{DrAmount: decimal.RequireFromString("-1.00")}
	if err := validateBookingLine(&negative); err == nil {
		t.Fatal("negative line must be rejected")
	}
}
