package sheets

import (
	"strings"

	"financepro/internal/core"
)

const dateLayout = "2006-01-02"

// Header rows of the mirrored sheets. The id column always comes first.
var (
	TransactionHeader = []string{"ID", "Date", "Type", "Amount", "Classification", "Method", "Description"}
	TransferHeader    = []string{"ID", "Date", "From", "To", "Amount", "Commission"}
)

func TransactionRow(tx core.Transaction) []string {
	return []string{
		tx.ID,
		tx.Date.Format(dateLayout),
		strings.ToUpper(string(tx.Type)),
		tx.Amount.StringFixed(2),
		tx.Classification(),
		tx.MethodName,
		tx.Description,
	}
}

func TransferRow(t core.InternalTransfer) []string {
	return []string{
		t.ID,
		t.Date.Format(dateLayout),
		t.FromName,
		t.ToName,
		t.Amount.StringFixed(2),
		t.Commission.StringFixed(2),
	}
}
