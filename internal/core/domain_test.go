package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSpentWithAndTotal(t *testing.T) {
	var s Spent
	s = s.With(Needs, decimal.NewFromInt(10))
	s = s.With(Wants, decimal.NewFromInt(5))
	s = s.With(Bucket("other"), decimal.NewFromInt(99))
	if !s.Get(Needs).Equal(decimal.NewFromInt(10)) {
		t.Fatalf("needs = %s", s.Get(Needs))
	}
	if !s.Total().Equal(decimal.NewFromInt(15)) {
		t.Fatalf("total = %s", s.Total())
	}
	if !s.Get(Bucket("other")).IsZero() {
		t.Fatalf("unknown bucket must read as zero")
	}
}

func TestBucketTargets(t *testing.T) {
	sum := 0
	for _, b := range Buckets {
		if !b.IsValid() {
			t.Fatalf("%s should be valid", b)
		}
		sum += b.TargetPercent()
	}
	if sum != 100 {
		t.Fatalf("targets must add up to 100, got %d", sum)
	}
}

func TestDebtValidate(t *testing.T) {
	d := DebtItem{Name: "Card", Initial: decimal.NewFromInt(100), PaymentDay: 15}
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.PaymentDay = 32
	if err := d.Validate(); err == nil {
		t.Fatalf("expected payment day error")
	}
	d.PaymentDay = 1
	d.Name = ""
	if err := d.Validate(); err == nil {
		t.Fatalf("expected name error")
	}
	d.Name = "Card"
	d.Current = decimal.New(1, 2000000000)
	if err := d.Validate(); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestMethodValidate(t *testing.T) {
	m := PaymentMethod{Name: "Wallet", Kind: Cash}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Kind = "crypto"
	if err := m.Validate(); err == nil {
		t.Fatalf("expected kind error")
	}
	m.Kind = Cash
	m.Balance = decimal.New(1, 2000000000)
	if err := m.Validate(); err == nil {
		t.Fatalf("expected balance range error")
	}
	if !Debit.IsLiquid() || Credit.IsLiquid() {
		t.Fatalf("liquidity classification wrong")
	}
}

func TestTransactionClassification(t *testing.T) {
	cases := []struct {
		name string
		tx   Transaction
		want string
	}{
		{"debt wins", Transaction{DebtName: "Card", CategoryName: "Food"}, "Card"},
		{"category", Transaction{CategoryName: "Food"}, "Food"},
		{"week start", Transaction{Type: Income, IsWeekStart: true}, WeekStartLabel},
		{"nothing", Transaction{}, "-"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tx.Classification(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
