package utxo

import (
	"github.com/Klingon-tech/klingnet-chain/pkg/txverify"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// ChainStore adapts Set to txverify.ChainStore and pkg/script's lookup
// needs: a read-only view onto committed cells, keyed by outpoint.
type ChainStore struct {
	store Set
}

// NewChainStore wraps a UTXO set as a txverify.ChainStore.
func NewChainStore(store Set) *ChainStore {
	return &ChainStore{store: store}
}

var _ txverify.ChainStore = (*ChainStore)(nil)

// GetCellOutput resolves an outpoint to the value and lock script of the
// cell it refers to. ok is false if the cell is unknown or already spent.
func (c *ChainStore) GetCellOutput(op types.Outpoint) (value uint64, script types.Script, ok bool) {
	u, err := c.store.Get(op)
	if err != nil {
		return 0, types.Script{}, false
	}
	return u.Value, u.Script, true
}

// ResolveCellMeta looks up the cell meta txverify needs for maturity,
// capacity, and since checks: capacity, cellbase flag, and the block it was
// produced in. A nil result means the outpoint is spent or
// unknown; callers resolving a mempool transaction's own inputs must treat
// that as "still unresolved" rather than an error.
func (c *ChainStore) ResolveCellMeta(op types.Outpoint, epochOf func(height uint64) uint64) *txverify.CellMeta {
	u, err := c.store.Get(op)
	if err != nil {
		return nil
	}
	meta := &txverify.CellMeta{
		Capacity:   types.Capacity(u.Value),
		IsCellbase: u.Coinbase,
	}
	if epochOf != nil {
		meta.BlockInfo = &types.BlockInfo{Number: u.Height, Epoch: epochOf(u.Height)}
	} else {
		meta.BlockInfo = &types.BlockInfo{Number: u.Height}
	}
	return meta
}
