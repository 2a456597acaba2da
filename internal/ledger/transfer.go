package ledger

import (
	"slices"

	"financepro/internal/core"
)

// recordTransfer debits the source by amount plus commission and credits the
// destination by amount. The commission leaves the ledger. Balances are not
// checked for sufficiency.
func recordTransfer(s *State, c Transfer, env Env) Outcome {
	if !core.ValidAmount(c.Amount) || !core.ValidAmount(c.Commission) {
		return skipped(core.ErrInvalidAmount)
	}
	if env.Strict {
		if c.FromID == c.ToID {
			return skipped(core.ErrSelfTransfer)
		}
		if !c.Amount.IsPositive() || c.Commission.IsNegative() {
			return skipped(core.ErrInvalidAmount)
		}
	}
	date := c.Date
	if date.IsZero() {
		date = env.now()
	}
	t := core.InternalTransfer{
		ID:         env.newID(),
		FromID:     c.FromID,
		ToID:       c.ToID,
		FromName:   TransferSourceName,
		ToName:     TransferDestName,
		Amount:     c.Amount,
		Commission: c.Commission,
		Date:       date,
	}
	if from := s.method(c.FromID); from != nil {
		t.FromName = from.Name
	}
	if to := s.method(c.ToID); to != nil {
		t.ToName = to.Name
	}
	moveFunds(s, t, false)
	s.Transfers = append([]core.InternalTransfer{t}, s.Transfers...)
	return Outcome{Changed: true, Kind: TransferRecorded, Transfer: &t}
}

func deleteTransfer(s *State, c DeleteTransfer) Outcome {
	i := s.transferIndex(c.ID)
	if i < 0 {
		return skipped(core.ErrTransferNotFound)
	}
	t := s.Transfers[i]
	moveFunds(s, t, true)
	s.Transfers = slices.Delete(s.Transfers, i, i+1)
	return Outcome{Changed: true, Kind: TransferDeleted, Transfer: &t}
}

// moveFunds applies both legs of t, or their inverse when reverse is set.
// A self-transfer only has its debit leg, so the method loses amount plus
// commission.
func moveFunds(s *State, t core.InternalTransfer, reverse bool) {
	debit, credit := t.Amount.Add(t.Commission).Neg(), t.Amount
	if reverse {
		debit, credit = debit.Neg(), credit.Neg()
	}
	adjustMethod(s, t.FromID, debit)
	if t.ToID != t.FromID {
		adjustMethod(s, t.ToID, credit)
	}
}
