package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Cash   MethodKind = "cash"
	Debit  MethodKind = "debit"
	Credit MethodKind = "credit"
)

const (
	Needs   Bucket = "needs"
	Savings Bucket = "savings"
	Wants   Bucket = "wants"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
)

type (
	MethodKind       string
	Bucket           string
	TransactionType  string
	NotificationType string

	// PaymentMethod is an account that money moves through. Credit balances
	// represent remaining credit capacity, not owned funds.
	PaymentMethod struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Subtitle string          `json:"subtitle"`
		Balance  decimal.Decimal `json:"balance"`
		Kind     MethodKind      `json:"kind"`
		Label    string          `json:"label"`
		ReadOnly bool            `json:"isReadOnly,omitempty"`
	}

	CategoryItem struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Icon string `json:"icon"`
	}

	// BudgetSection groups categories under one bucket. Percent is a label,
	// it is never enforced as a cap.
	BudgetSection struct {
		ID      Bucket         `json:"id"`
		Title   string         `json:"title"`
		Percent int            `json:"percent"`
		Items   []CategoryItem `json:"items"`
	}

	DebtItem struct {
		ID         string          `json:"id"`
		Name       string          `json:"name"`
		Subtitle   string          `json:"subtitle"`
		Initial    decimal.Decimal `json:"initial"`
		Current    decimal.Decimal `json:"current"`
		MinPay     decimal.Decimal `json:"minPay"`
		PaymentDay int             `json:"paymentDay,omitempty"` // 1-31, 0 disables reminders
	}

	// Transaction references other entities by id and keeps the display
	// names they had when the transaction was recorded.
	Transaction struct {
		ID              string          `json:"id"`
		Seq             int64           `json:"seq"`
		Type            TransactionType `json:"type"`
		Amount          decimal.Decimal `json:"amount"`
		Date            time.Time       `json:"date"`
		MethodID        string          `json:"methodId,omitempty"`
		MethodName      string          `json:"methodName"`
		CategoryID      string          `json:"categoryId,omitempty"`
		CategoryName    string          `json:"categoryName,omitempty"`
		Bucket          Bucket          `json:"bucket,omitempty"` // set only when the expense counted toward a bucket
		DebtID          string          `json:"debtId,omitempty"`
		DebtName        string          `json:"debtName,omitempty"`
		SavingsMethodID string          `json:"savingsMethodId,omitempty"`
		Description     string          `json:"description,omitempty"`
		IsDebtPayment   bool            `json:"isDebtPayment,omitempty"`
		IsWeekStart     bool            `json:"isWeekStart,omitempty"`
	}

	// InternalTransfer moves Amount between two methods; Commission is only
	// charged to the source and leaves the ledger.
	InternalTransfer struct {
		ID         string          `json:"id"`
		FromID     string          `json:"fromId"`
		ToID       string          `json:"toId"`
		FromName   string          `json:"fromName"`
		ToName     string          `json:"toName"`
		Amount     decimal.Decimal `json:"amount"`
		Commission decimal.Decimal `json:"commission"`
		Date       time.Time       `json:"date"`
	}

	Notification struct {
		ID      string           `json:"id"`
		Title   string           `json:"title"`
		Message string           `json:"message"`
		Date    time.Time        `json:"date"`
		Read    bool             `json:"read"`
		Type    NotificationType `json:"type"`
	}

	// Spent holds the spent total of each bucket.
	Spent struct {
		Needs   decimal.Decimal `json:"needs"`
		Savings decimal.Decimal `json:"savings"`
		Wants   decimal.Decimal `json:"wants"`
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidEntity        = errors.New("invalid entity")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransferNotFound     = errors.New("transfer not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrReadOnlyMethod       = errors.New("payment method is read-only")
	ErrSelfTransfer         = errors.New("source and destination are the same method")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrNothingToUndo        = errors.New("nothing to undo")
	ErrNoChange             = errors.New("no change")
)

// Buckets lists the buckets in their canonical order.
var Buckets = []Bucket{Needs, Savings, Wants}

// IsValid reports whether b is one of the three budget buckets.
func (b Bucket) IsValid() bool {
	switch b {
	case Needs, Savings, Wants:
		return true
	}
	return false
}

// TargetPercent returns the 50/30/20 target share of the bucket.
func (b Bucket) TargetPercent() int {
	switch b {
	case Needs:
		return 50
	case Savings:
		return 30
	case Wants:
		return 20
	}
	return 0
}

func (k MethodKind) IsValid() bool {
	switch k {
	case Cash, Debit, Credit:
		return true
	}
	return false
}

// IsLiquid reports whether balances of this kind are owned funds.
func (k MethodKind) IsLiquid() bool {
	return k == Cash || k == Debit
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Get returns the spent total of bucket b.
func (s Spent) Get(b Bucket) decimal.Decimal {
	switch b {
	case Needs:
		return s.Needs
	case Savings:
		return s.Savings
	case Wants:
		return s.Wants
	}
	return decimal.Zero
}

// With returns a copy of s with bucket b set to v.
func (s Spent) With(b Bucket, v decimal.Decimal) Spent {
	switch b {
	case Needs:
		s.Needs = v
	case Savings:
		s.Savings = v
	case Wants:
		s.Wants = v
	}
	return s
}

// Total sums all three buckets.
func (s Spent) Total() decimal.Decimal {
	return s.Needs.Add(s.Savings).Add(s.Wants)
}

// Equal compares bucket by bucket.
func (s Spent) Equal(o Spent) bool {
	return s.Needs.Equal(o.Needs) && s.Savings.Equal(o.Savings) && s.Wants.Equal(o.Wants)
}

// WeekStartLabel classifies week-start income in exports.
const WeekStartLabel = "Week start"

// Classification is what a transaction was filed under: its debt, its
// category, the week start marker, or "-".
func (tx Transaction) Classification() string {
	switch {
	case tx.DebtName != "":
		return tx.DebtName
	case tx.CategoryName != "":
		return tx.CategoryName
	case tx.IsWeekStart:
		return WeekStartLabel
	default:
		return "-"
	}
}

// Validate checks the fields a payment method must carry.
func (m PaymentMethod) Validate() error {
	if m.Name == "" {
		return errors.New("empty method name")
	}
	if !m.Kind.IsValid() {
		return errors.New("invalid method kind")
	}
	if !ValidAmount(m.Balance) {
		return errors.New("balance out of range")
	}
	return nil
}

// Validate checks the debt bounds.
func (d DebtItem) Validate() error {
	if d.Name == "" {
		return errors.New("empty debt name")
	}
	if !ValidAmount(d.Initial) || !ValidAmount(d.Current) || !ValidAmount(d.MinPay) {
		return errors.New("debt amount out of range")
	}
	if d.Initial.IsNegative() {
		return errors.New("negative initial debt")
	}
	if d.PaymentDay < 0 || d.PaymentDay > 31 {
		return errors.New("payment day must be between 1 and 31")
	}
	return nil
}
