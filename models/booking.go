package models

import (
	"context"
	"errors"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionBooking is one double-entry posting header. Its lines carry the
// debits and credits; the header carries the reference/source metadata the
// reports group by.
type TransactionBooking struct {
	ID                int               `gorm:"primary_key" json:"id"`
	BusinessId        string            `gorm:"index;not null" json:"business_id"`
	TransactionNumber string            `gorm:"index;size:255" json:"transaction_number"`
	ReferenceNumber   string            `gorm:"size:255" json:"reference_number"`
	OrderNumber       string            `gorm:"size:255" json:"order_number"`
	VendorId          int               `gorm:"index" json:"vendor_id"`
	EmployeeId        int               `gorm:"index" json:"employee_id"`
	Source            TransactionSource `gorm:"size:50;index" json:"source"`
	PaymentStatus     PaymentStatus     `gorm:"type:enum('pending','partial_paid','paid');default:'pending';size:20" json:"payment_status"`
	TransactionDate   time.Time         `gorm:"index;not null" json:"transaction_date"`
	Amount            decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Rate              decimal.Decimal   `gorm:"type:decimal(20,6);default:0" json:"rate"`
	CurrencyId        int               `gorm:"index" json:"currency_id"`

	BookingLines []TransactionBookingLine `gorm:"foreignKey:BookingId" json:"booking_lines"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TransactionBookingLine is one half (debit or credit) of a posting.
// Exactly one of DrAmount/CrAmount is non-zero in well-formed data.
type TransactionBookingLine struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	BusinessId          string          `gorm:"index;not null;index:idx_tbl_biz_acct_date,priority:1" json:"business_id"`
	BookingId           int             `gorm:"index;not null" json:"booking_id"`
	AccountId           int             `gorm:"index;not null;index:idx_tbl_biz_acct_date,priority:2" json:"account_id"`
	Description         string          `gorm:"size:255" json:"description"`
	TransactionType     TransactionType `gorm:"type:enum('dr','cr');size:2;not null" json:"transaction_type"`
	DrAmount            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"dr_amount"`
	CrAmount            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cr_amount"`
	TransactionDate     time.Time       `gorm:"index;not null;index:idx_tbl_biz_acct_date,priority:3" json:"transaction_date"`
	CurrencyId          int             `gorm:"index" json:"currency_id"`
	CommissionPaymentId int             `gorm:"index;default:0" json:"commission_payment_id"`
	BulkPaymentLineId   int             `gorm:"index;default:0" json:"bulk_payment_line_id"`
	IsReconciled        *bool           `gorm:"not null;default:false;index" json:"is_reconciled"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Ledger immutability guardrails:
// - booking lines are append-only; the only mutable field is the
//   reconciliation flag maintained by the matching engine.
// - a reconciled line can no longer be deleted.

func (l *TransactionBookingLine) BeforeUpdate(tx *gorm.DB) error {
	allowed := map[string]bool{
		"IsReconciled":      true,
		"BulkPaymentLineId": true,
		"UpdatedAt":         true,
	}
	if tx == nil || tx.Statement == nil || tx.Statement.Schema == nil {
		return nil
	}
	for _, f := range tx.Statement.Schema.Fields {
		if tx.Statement.Changed(f.Name) && !allowed[f.Name] {
			return errors.New("immutable ledger: only reconciliation fields may be updated on booking lines")
		}
	}
	return nil
}

func (l *TransactionBookingLine) BeforeDelete(tx *gorm.DB) error {
	if l.IsReconciled != nil && *l.IsReconciled {
		return errors.New("cannot delete a reconciled booking line")
	}
	return nil
}

// NormalizedAmount converts the line to the statement's inflow-positive sign
// convention: debit if debit > 0, else minus credit.
func (l *TransactionBookingLine) NormalizedAmount() decimal.Decimal {
	if l.DrAmount.IsPositive() {
		return l.DrAmount
	}
	return l.CrAmount.Neg()
}

// LineAmount is the unsigned magnitude of the line, used when comparing the
// line against its matched total.
func (l *TransactionBookingLine) LineAmount() decimal.Decimal {
	if l.DrAmount.IsPositive() {
		return l.DrAmount
	}
	return l.CrAmount
}

// NextTransactionNumber issues the next sequential booking number for the
// business. Must run inside the posting transaction so concurrent posts
// serialize on the row lock.
func NextTransactionNumber(tx *gorm.DB, businessId string) (int, error) {
	var current int
	err := tx.Model(&TransactionBooking{}).
		Where("business_id = ?", businessId).
		Select("COALESCE(MAX(CAST(transaction_number AS UNSIGNED)), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func validateBookingLine(line *TransactionBookingLine) error {
	if line.DrAmount.IsNegative() || line.CrAmount.IsNegative() {
		return errors.New("booking line amounts cannot be negative")
	}
	if line.DrAmount.IsPositive() && line.CrAmount.IsPositive() {
		return errors.New("booking line cannot carry both debit and credit")
	}
	if line.DrAmount.IsZero() && line.CrAmount.IsZero() {
		return errors.New("booking line amount is required")
	}
	return nil
}

// CreateBookingWithLines persists a booking and its lines in the caller's
// transaction. The posting must balance: sum of debits equals sum of credits.
func CreateBookingWithLines(tx *gorm.DB, booking *TransactionBooking, lines []*TransactionBookingLine) error {
	if len(lines) < 2 {
		return errors.New("a booking needs at least one debit and one credit line")
	}
	drTotal := decimal.Zero
	crTotal := decimal.Zero
	for _, line := range lines {
		if err := validateBookingLine(line); err != nil {
			return err
		}
		drTotal = drTotal.Add(line.DrAmount)
		crTotal = crTotal.Add(line.CrAmount)
	}
	if !drTotal.Equal(crTotal) {
		return errors.New("booking is not balanced: total debit must equal total credit")
	}

	if err := tx.Create(booking).Error; err != nil {
		return err
	}
	for _, line := range lines {
		line.BookingId = booking.ID
		line.BusinessId = booking.BusinessId
		if line.TransactionDate.IsZero() {
			line.TransactionDate = booking.TransactionDate
		}
		line.IsReconciled = utils.NewFalse()
		if err := tx.Create(line).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetUnreconciledBookingLines returns the candidate pool for statement
// matching: same account, not yet reconciled, id ascending. The ascending id
// order is the documented stable iteration order of the matcher.
func GetUnreconciledBookingLines(tx *gorm.DB, ctx context.Context, businessId string, accountId int) ([]*TransactionBookingLine, error) {
	var lines []*TransactionBookingLine
	err := tx.WithContext(ctx).
		Where("business_id = ? AND account_id = ? AND is_reconciled = ?", businessId, accountId, false).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func GetBooking(ctx context.Context, id int) (*TransactionBooking, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[TransactionBooking](ctx, businessId, id, "BookingLines")
}

func GetBookings(ctx context.Context, fromDate *time.Time, toDate *time.Time) ([]*TransactionBooking, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("BookingLines").Where("business_id = ?", businessId)
	if fromDate != nil {
		dbCtx = dbCtx.Where("transaction_date >= ?", *fromDate)
	}
	if toDate != nil {
		dbCtx = dbCtx.Where("transaction_date <= ?", *toDate)
	}
	var results []*TransactionBooking
	if err := dbCtx.Order("transaction_date DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
