package types

// BlockInfo records where a committed cell was produced: the block height
// and the epoch that block belongs to. A resolved cell that is still sitting
// in the mempool (its producing transaction not yet committed) has no
// BlockInfo.
type BlockInfo struct {
	Number uint64
	Epoch  uint64
}
