package workflow

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/gorm"
)

const defaultLedgerLockWaitSeconds = 30

// ledgerLockWaitSeconds is how long GET_LOCK blocks before giving up.
// Tunable via LEDGER_LOCK_WAIT_SECONDS for deployments with long posting
// transactions.
func ledgerLockWaitSeconds() int {
	if v, err := strconv.Atoi(os.Getenv("LEDGER_LOCK_WAIT_SECONDS")); err == nil && v > 0 {
		return v
	}
	return defaultLedgerLockWaitSeconds
}

// acquireLedgerLock serializes ledger posting per business across instances
// with a MySQL advisory lock. GET_LOCK is connection-scoped, so the lock must
// be taken on the same *gorm.DB connection that runs the posting transaction.
func acquireLedgerLock(tx *gorm.DB, businessId string) error {
	name := fmt.Sprintf("ledger:%s", businessId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, ?)", name, ledgerLockWaitSeconds()).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire ledger lock for business_id=%s", businessId)
	}
	return nil
}

func releaseLedgerLock(tx *gorm.DB, businessId string) {
	name := fmt.Sprintf("ledger:%s", businessId)
	var ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", name).Scan(&ok).Error
}
