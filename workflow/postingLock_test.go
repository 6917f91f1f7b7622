package workflow

import "testing"

func TestLedgerLockWaitSeconds(t *testing.T) {
	t.Setenv("LEDGER_LOCK_WAIT_SECONDS", "")
	if got := ledgerLockWaitSeconds(); got != defaultLedgerLockWaitSeconds {
		t.Fatalf("expected default %d, got %d", defaultLedgerLockWaitSeconds, got)
	}

	t.Setenv("LEDGER_LOCK_WAIT_SECONDS", "120")
	if got := ledgerLockWaitSeconds(); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}

	// junk and non-positive values fall back to the default
	for _, v := range []string{"abc", "0", "-5"} {
		t.Setenv("LEDGER_LOCK_WAIT_SECONDS", v)
		if got := ledgerLockWaitSeconds(); got != defaultLedgerLockWaitSeconds {
			t.Fatalf("%q: expected default %d, got %d", v, defaultLedgerLockWaitSeconds, got)
		}
	}
}
