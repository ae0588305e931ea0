package txverify

import (
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// DuplicateDepsVerifier rejects a transaction that references the same dep
// outpoint more than once. A single pass inserting into a set sized for the
// dep list suffices; the outcome does not depend on encounter order.
type DuplicateDepsVerifier struct {
	transaction *tx.Transaction
}

func NewDuplicateDepsVerifier(transaction *tx.Transaction) *DuplicateDepsVerifier {
	return &DuplicateDepsVerifier{transaction: transaction}
}

func (v *DuplicateDepsVerifier) Verify() error {
	seen := make(map[types.Outpoint]struct{}, len(v.transaction.Deps))
	for _, dep := range v.transaction.Deps {
		if _, ok := seen[dep]; ok {
			return ErrDuplicateDeps
		}
		seen[dep] = struct{}{}
	}
	return nil
}
