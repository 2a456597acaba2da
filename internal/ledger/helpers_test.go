package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"financepro/internal/core"
)

var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func testEnv() Env {
	n := 0
	return Env{
		Now:   func() time.Time { return testNow },
		NewID: func() string { n++; return fmt.Sprintf("id-%d", n) },
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

// fixture runs commands through Reduce in order and keeps the latest state.
type fixture struct {
	t     *testing.T
	env   Env
	state State
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, env: testEnv(), state: NewState()}
}

func (f *fixture) do(cmd Command) Outcome {
	f.t.Helper()
	next, out := Reduce(f.state, cmd, f.env)
	f.state = next
	return out
}

func (f *fixture) mustChange(cmd Command) Outcome {
	f.t.Helper()
	out := f.do(cmd)
	require.True(f.t, out.Changed, "%s should change state (reason: %v)", cmd.Name(), out.Reason)
	return out
}

func (f *fixture) addMethod(name string, kind core.MethodKind, balance string) string {
	f.t.Helper()
	out := f.mustChange(SaveMethod{Method: core.PaymentMethod{Name: name, Kind: kind, Balance: dec(balance)}})
	return out.Method.ID
}

func (f *fixture) balance(id string) decimal.Decimal {
	f.t.Helper()
	m, ok := f.state.Method(id)
	require.True(f.t, ok, "method %s missing", id)
	return m.Balance
}
