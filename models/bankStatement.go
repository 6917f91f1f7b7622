package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// reconcileTolerance is the matched-total comparison tolerance (0.001).
var reconcileTolerance = decimal.New(1, -3)

type BankStatement struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null" json:"business_id"`
	Name           string          `gorm:"index;size:50" json:"name"`
	Date           time.Time       `gorm:"index;not null" json:"date"`
	AccountId      int             `gorm:"index;not null" json:"account_id" binding:"required"`
	BalanceStart   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance_start"`
	BalanceEndReal decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance_end_real"`
	State          StatementState  `gorm:"type:enum('draft','open','posted','cancel');default:'draft';size:10;index" json:"state"`

	Lines []BankStatementLine `gorm:"foreignKey:StatementId" json:"lines"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BankStatementLine is one external bank-reported movement.
// Amount is inflow-positive.
type BankStatementLine struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	StatementId  int             `gorm:"index;not null" json:"statement_id"`
	Date         time.Time       `gorm:"index;not null" json:"date"`
	PaymentRef   string          `gorm:"size:255;not null" json:"payment_ref"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Note         string          `gorm:"type:text" json:"note"`
	MatchStatus  MatchStatus     `gorm:"type:enum('unmatched','matched','mismatch');default:'unmatched';size:10;index" json:"match_status"`
	IsReconciled *bool           `gorm:"not null;default:false;index" json:"is_reconciled"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ReconciliationMatch links one statement line to one booking line.
type ReconciliationMatch struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id"`
	StatementLineId int             `gorm:"index;not null" json:"statement_line_id"`
	BookingLineId   int             `gorm:"index;not null" json:"booking_line_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	MatchType       MatchType       `gorm:"type:enum('auto','manual');default:'manual';size:10" json:"match_type"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBankStatement struct {
	Date           time.Time       `json:"date" binding:"required"`
	AccountId      int             `json:"account_id" binding:"required"`
	BalanceStart   decimal.Decimal `json:"balance_start"`
	BalanceEndReal decimal.Decimal `json:"balance_end_real"`
}

type NewBankStatementLine struct {
	Date       time.Time       `json:"date" binding:"required"`
	PaymentRef string          `json:"payment_ref" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Note       string          `json:"note"`
}

// AmountsReconcile reports whether a matched total covers an amount within
// the 0.001 reconciliation tolerance.
func AmountsReconcile(amount decimal.Decimal, matchedTotal decimal.Decimal) bool {
	return amount.Abs().Sub(matchedTotal).Abs().LessThan(reconcileTolerance)
}

func CreateBankStatement(ctx context.Context, input *NewBankStatement) (*BankStatement, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	account, err := utils.FetchModel[ChartAccount](ctx, businessId, input.AccountId)
	if err != nil {
		return nil, errors.New("bank account not found")
	}
	if !account.AccountType.IsCashOrBank() {
		return nil, errors.New("statement account must be a cash or bank account")
	}

	statement := BankStatement{
		BusinessId:     businessId,
		Date:           input.Date,
		AccountId:      input.AccountId,
		BalanceStart:   input.BalanceStart,
		BalanceEndReal: input.BalanceEndReal,
		State:          StatementStateDraft,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&statement).Error; err != nil {
			return err
		}
		return tx.Model(&statement).Update("Name", fmt.Sprintf("BST/%06d", statement.ID)).Error
	})
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

func GetBankStatement(ctx context.Context, id int) (*BankStatement, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[BankStatement](ctx, businessId, id, "Lines")
}

func AddStatementLine(ctx context.Context, statementId int, input *NewBankStatementLine) (*BankStatementLine, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	statement, err := utils.FetchModel[BankStatement](ctx, businessId, statementId)
	if err != nil {
		return nil, errors.New("statement not found")
	}
	if statement.State == StatementStatePosted || statement.State == StatementStateCancelled {
		return nil, errors.New("cannot add lines to a posted or cancelled statement")
	}

	line := BankStatementLine{
		BusinessId:   businessId,
		StatementId:  statementId,
		Date:         input.Date,
		PaymentRef:   input.PaymentRef,
		Amount:       input.Amount,
		Note:         input.Note,
		MatchStatus:  MatchStatusUnmatched,
		IsReconciled: utils.NewFalse(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// ComputedStatementBalance is starting balance plus the sum of line amounts.
func ComputedStatementBalance(tx *gorm.DB, statement *BankStatement) (decimal.Decimal, error) {
	var lineTotal decimal.Decimal
	err := tx.Model(&BankStatementLine{}).
		Where("statement_id = ?", statement.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&lineTotal).Error
	if err != nil {
		return decimal.Zero, err
	}
	return statement.BalanceStart.Add(lineTotal), nil
}

// RecomputeStatementLineReconciled re-derives the line's reconciled flag from
// its matches. Runs after every match create/delete. A fully covered line is
// promoted to matched; an uncovered one keeps whatever status the matcher
// set (unmatched or mismatch).
func RecomputeStatementLineReconciled(tx *gorm.DB, statementLineId int) error {

	var line BankStatementLine
	if err := tx.First(&line, statementLineId).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	var matchedTotal decimal.Decimal
	err := tx.Model(&ReconciliationMatch{}).
		Where("statement_line_id = ?", statementLineId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&matchedTotal).Error
	if err != nil {
		return err
	}

	reconciled := AmountsReconcile(line.Amount, matchedTotal)
	updates := map[string]interface{}{"IsReconciled": reconciled}
	if reconciled {
		updates["MatchStatus"] = MatchStatusMatched
	}
	return tx.Model(&line).Updates(updates).Error
}

// RecomputeBookingLineReconciled mirrors the flag on the ledger side: a
// booking line is reconciled when its matches cover its unsigned amount.
func RecomputeBookingLineReconciled(tx *gorm.DB, bookingLineId int) error {

	var line TransactionBookingLine
	if err := tx.First(&line, bookingLineId).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	var matchedTotal decimal.Decimal
	err := tx.Model(&ReconciliationMatch{}).
		Where("booking_line_id = ?", bookingLineId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&matchedTotal).Error
	if err != nil {
		return err
	}

	reconciled := AmountsReconcile(line.LineAmount(), matchedTotal)
	return tx.Model(&line).Update("IsReconciled", reconciled).Error
}

// CreateMatch persists a match and triggers the reconciled-status
// recomputation on both sides, all in the caller's transaction.
func CreateMatch(tx *gorm.DB, match *ReconciliationMatch) error {
	if !match.Amount.IsPositive() {
		return errors.New("match amount must be positive")
	}
	if err := tx.Create(match).Error; err != nil {
		return err
	}
	if err := RecomputeStatementLineReconciled(tx, match.StatementLineId); err != nil {
		return err
	}
	return RecomputeBookingLineReconciled(tx, match.BookingLineId)
}

// DeleteMatch removes a match and re-derives both reconciled flags.
func DeleteMatch(ctx context.Context, matchId int) error {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match ReconciliationMatch
		if err := tx.Where("business_id = ?", businessId).First(&match, matchId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if err := tx.Delete(&match).Error; err != nil {
			return err
		}
		// the line may drop back to unmatched
		if err := tx.Model(&BankStatementLine{}).Where("id = ?", match.StatementLineId).
			Update("MatchStatus", MatchStatusUnmatched).Error; err != nil {
			return err
		}
		if err := RecomputeStatementLineReconciled(tx, match.StatementLineId); err != nil {
			return err
		}
		return RecomputeBookingLineReconciled(tx, match.BookingLineId)
	})
}

// ValidateBankStatement posts the statement. Strict: every line must be
// matched and the reported ending balance must agree with the computed one.
func ValidateBankStatement(ctx context.Context, statementId int) (*BankStatement, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	statement, err := utils.FetchModel[BankStatement](ctx, businessId, statementId)
	if err != nil {
		return nil, err
	}

	computed, err := ComputedStatementBalance(db.WithContext(ctx), statement)
	if err != nil {
		return nil, err
	}
	if statement.BalanceEndReal.Sub(computed).Abs().GreaterThan(reconcileTolerance) {
		return nil, errors.New("the ending balance is incorrect; please check the difference")
	}

	var unmatched int64
	err = db.WithContext(ctx).Model(&BankStatementLine{}).
		Where("statement_id = ? AND match_status <> ?", statementId, MatchStatusMatched).
		Count(&unmatched).Error
	if err != nil {
		return nil, err
	}
	if unmatched > 0 {
		return nil, fmt.Errorf("there are %d unmatched or mismatching lines; please resolve them", unmatched)
	}

	if err := db.WithContext(ctx).Model(&statement).Update("State", StatementStatePosted).Error; err != nil {
		return nil, err
	}
	return statement, nil
}
