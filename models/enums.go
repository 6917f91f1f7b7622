package models

type AccountMainType string

const (
	AccountMainTypeAsset     AccountMainType = "Asset"
	AccountMainTypeLiability AccountMainType = "Liability"
	AccountMainTypeEquity    AccountMainType = "Equity"
	AccountMainTypeIncome    AccountMainType = "Income"
	AccountMainTypeExpense   AccountMainType = "Expense"
)

// IsCreditNatured reports whether the main type normally carries a credit
// balance. Report output flips the sign for these so all figures read as
// positive "natural" amounts.
func (t AccountMainType) IsCreditNatured() bool {
	switch t {
	case AccountMainTypeLiability, AccountMainTypeEquity, AccountMainTypeIncome:
		return true
	}
	return false
}

type AccountType string

const (
	AccountTypeCash         AccountType = "cash"
	AccountTypeBankTransfer AccountType = "bank_transfer"
	AccountTypeReceivable   AccountType = "receivable"
	AccountTypePayable      AccountType = "payable"
	AccountTypeInventory    AccountType = "inventory"
	AccountTypeCommission   AccountType = "commission"
	AccountTypeOwnersEquity AccountType = "owners_equity"
	AccountTypeIncome       AccountType = "income"
	AccountTypeExpense      AccountType = "expense"
	AccountTypeCOGS         AccountType = "COGS"
)

// IsCashOrBank reports whether the account can be used as a paying account
// for commission payments and as the scope of a bank statement.
func (t AccountType) IsCashOrBank() bool {
	return t == AccountTypeCash || t == AccountTypeBankTransfer
}

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "dr"
	TransactionTypeCredit TransactionType = "cr"
)

type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusPartialPaid PaymentStatus = "partial_paid"
	PaymentStatusPaid        PaymentStatus = "paid"
)

type PaymentSchedule string

const (
	PaymentScheduleDaily   PaymentSchedule = "daily"
	PaymentScheduleMonthly PaymentSchedule = "monthly"
)

type MatchStatus string

const (
	MatchStatusUnmatched MatchStatus = "unmatched"
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusMismatch  MatchStatus = "mismatch"
)

type MatchType string

const (
	MatchTypeAuto   MatchType = "auto"
	MatchTypeManual MatchType = "manual"
)

type StatementState string

const (
	StatementStateDraft     StatementState = "draft"
	StatementStateOpen      StatementState = "open"
	StatementStatePosted    StatementState = "posted"
	StatementStateCancelled StatementState = "cancel"
)

type BulkPaymentState string

const (
	BulkPaymentStateDraft     BulkPaymentState = "draft"
	BulkPaymentStateConfirmed BulkPaymentState = "confirmed"
)

type PurchaseStatus string

const (
	PurchaseStatusDraft    PurchaseStatus = "draft"
	PurchaseStatusReceived PurchaseStatus = "received"
)

// Transaction sources group cash movements on the cash flow report.
type TransactionSource string

const (
	TransactionSourceCommissionPayment TransactionSource = "Commission Payment"
	TransactionSourceBulkPayment       TransactionSource = "Bulk Payment"
	TransactionSourcePurchase          TransactionSource = "Purchase"
	TransactionSourceManual            TransactionSource = "Manual/Other"
)
