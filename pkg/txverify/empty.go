package txverify

import "github.com/Klingon-tech/klingnet-chain/pkg/tx"

// EmptyVerifier rejects a transaction with no inputs or no outputs.
type EmptyVerifier struct {
	transaction *tx.Transaction
}

func NewEmptyVerifier(transaction *tx.Transaction) *EmptyVerifier {
	return &EmptyVerifier{transaction: transaction}
}

func (v *EmptyVerifier) Verify() error {
	if v.transaction.IsEmpty() {
		return ErrEmpty
	}
	return nil
}
