// Package ledger implements the reconciliation engine: the entity store, the
// command reducer and the processors that keep balances, budget buckets,
// debts and history consistent with each other.
package ledger

import (
	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// Fallback display names for references that do not resolve.
const (
	UnknownMethodName  = "Unknown account"
	TransferSourceName = "Source"
	TransferDestName   = "Destination"
	SavingsSubtitle    = "Automatic savings account"
	SavingsLabel       = "SAVED"
	ReminderTitle      = "Payment reminder"
)

// AdjustmentKind classifies changes to aggregates that do not come from a
// transaction.
type AdjustmentKind string

const (
	WeeklySet   AdjustmentKind = "weekly_set"
	WeeklyAdd   AdjustmentKind = "weekly_add"
	MethodDelta AdjustmentKind = "method_delta"
)

// Adjustment records a non-transaction change in sequence order so the
// aggregates can be refolded from history.
type Adjustment struct {
	Seq      int64           `json:"seq"`
	Kind     AdjustmentKind  `json:"kind"`
	MethodID string          `json:"methodId,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// State is the entity store. The aggregate fields are a materialized view of
// Transactions and Adjustments, maintained incrementally by the reducer.
type State struct {
	Methods       []core.PaymentMethod    `json:"methods"`
	Sections      []core.BudgetSection    `json:"sections"`
	Debts         []core.DebtItem         `json:"debts"`
	Transactions  []core.Transaction      `json:"transactions"` // newest first
	Transfers     []core.InternalTransfer `json:"transfers"`    // newest first
	Notifications []core.Notification     `json:"notifications"`

	WeeklyBalance    decimal.Decimal `json:"weeklyBalance"`
	Spent            core.Spent      `json:"spent"`
	TransactionCount int             `json:"transactionCount"`

	Seq         int64        `json:"seq"`
	Adjustments []Adjustment `json:"adjustments,omitempty"`
}

// NewState returns an empty store seeded with the default budget sections.
func NewState() State {
	return State{Sections: DefaultSections()}
}

// DefaultSections returns the stock 50/30/20 layout.
func DefaultSections() []core.BudgetSection {
	return []core.BudgetSection{
		{ID: core.Needs, Title: "NECESIDADES", Percent: 50, Items: []core.CategoryItem{
			{ID: "needs-housing", Name: "Vivienda", Icon: "home"},
			{ID: "needs-food", Name: "Alimentación", Icon: "shopping_cart"},
		}},
		{ID: core.Savings, Title: "AHORRO", Percent: 30, Items: []core.CategoryItem{
			{ID: "savings-emergency", Name: "Fondo Emergencia", Icon: "savings"},
			{ID: "savings-investments", Name: "Inversiones", Icon: "trending_up"},
		}},
		{ID: core.Wants, Title: "GUSTOS", Percent: 20, Items: []core.CategoryItem{
			{ID: "wants-entertainment", Name: "Entretenimiento", Icon: "movie"},
			{ID: "wants-dining", Name: "Salidas y Restaurantes", Icon: "restaurant"},
		}},
	}
}

// Clone returns a deep copy; the reducer works on clones only.
func (s State) Clone() State {
	c := s
	c.Methods = append([]core.PaymentMethod(nil), s.Methods...)
	c.Debts = append([]core.DebtItem(nil), s.Debts...)
	c.Transactions = append([]core.Transaction(nil), s.Transactions...)
	c.Transfers = append([]core.InternalTransfer(nil), s.Transfers...)
	c.Notifications = append([]core.Notification(nil), s.Notifications...)
	c.Adjustments = append([]Adjustment(nil), s.Adjustments...)
	c.Sections = make([]core.BudgetSection, len(s.Sections))
	for i, sec := range s.Sections {
		sec.Items = append([]core.CategoryItem(nil), sec.Items...)
		c.Sections[i] = sec
	}
	if s.Sections == nil {
		c.Sections = nil
	}
	return c
}

func (s *State) nextSeq() int64 {
	s.Seq++
	return s.Seq
}

func (s *State) adjust(kind AdjustmentKind, methodID string, amount decimal.Decimal) {
	s.Adjustments = append(s.Adjustments, Adjustment{
		Seq: s.nextSeq(), Kind: kind, MethodID: methodID, Amount: amount,
	})
}

func (s *State) method(id string) *core.PaymentMethod {
	if id == "" {
		return nil
	}
	for i := range s.Methods {
		if s.Methods[i].ID == id {
			return &s.Methods[i]
		}
	}
	return nil
}

func (s *State) methodByName(name string) *core.PaymentMethod {
	for i := range s.Methods {
		if s.Methods[i].Name == name {
			return &s.Methods[i]
		}
	}
	return nil
}

func (s *State) debt(id string) *core.DebtItem {
	if id == "" {
		return nil
	}
	for i := range s.Debts {
		if s.Debts[i].ID == id {
			return &s.Debts[i]
		}
	}
	return nil
}

// category resolves a category id to the item and its owning bucket.
func (s *State) category(id string) (core.CategoryItem, core.Bucket, bool) {
	if id == "" {
		return core.CategoryItem{}, "", false
	}
	for _, sec := range s.Sections {
		for _, item := range sec.Items {
			if item.ID == id {
				return item, sec.ID, true
			}
		}
	}
	return core.CategoryItem{}, "", false
}

func (s *State) transactionIndex(id string) int {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) transferIndex(id string) int {
	for i := range s.Transfers {
		if s.Transfers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) hasNotification(id string) bool {
	for _, n := range s.Notifications {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Method returns a copy of the method with the given id.
func (s State) Method(id string) (core.PaymentMethod, bool) {
	if m := s.method(id); m != nil {
		return *m, true
	}
	return core.PaymentMethod{}, false
}

// Debt returns a copy of the debt with the given id.
func (s State) Debt(id string) (core.DebtItem, bool) {
	if d := s.debt(id); d != nil {
		return *d, true
	}
	return core.DebtItem{}, false
}

// Transaction returns a copy of the transaction with the given id.
func (s State) Transaction(id string) (core.Transaction, bool) {
	if i := s.transactionIndex(id); i >= 0 {
		return s.Transactions[i], true
	}
	return core.Transaction{}, false
}

// LiquidTotal sums cash and debit balances; credit capacity is excluded.
func (s State) LiquidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, m := range s.Methods {
		if m.Kind.IsLiquid() {
			total = total.Add(m.Balance)
		}
	}
	return total
}
