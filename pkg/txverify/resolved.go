// Package txverify implements the transaction validation core: the fixed
// set of structural, economic, and temporal rules a transaction must satisfy
// before it may be relayed or included in a block.
package txverify

import (
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// TxVersion is the one protocol-accepted transaction version.
const TxVersion uint32 = 1

// CellMeta describes a committed cell: the output an input or dep resolves
// to, once its producing transaction is on chain.
type CellMeta struct {
	Capacity   types.Capacity
	IsCellbase bool

	// BlockInfo is nil iff the producing transaction is itself still in the
	// mempool (not yet committed).
	BlockInfo *types.BlockInfo
}

// ResolvedTransaction pairs a transaction with the cell metadata of every
// output it spends (ResolvedInputs) or depends on (ResolvedDeps). A nil
// entry means "still in the mempool, not yet committed" (unresolved).
type ResolvedTransaction struct {
	Transaction *tx.Transaction

	// ResolvedInputs has exactly len(Transaction.Inputs) entries, in order.
	ResolvedInputs []*CellMeta

	// ResolvedDeps has exactly len(Transaction.Deps) entries, in order.
	ResolvedDeps []*CellMeta
}

// IsCellbase reports whether the underlying transaction is the canonical
// coinbase form.
func (rtx *ResolvedTransaction) IsCellbase() bool {
	return rtx.Transaction.IsCellbase()
}
