package chain

import (
	"sort"

	"github.com/Klingon-tech/klingnet-chain/config"
)

// EpochNumber derives the epoch a block height belongs to. Epochs are fixed-
// length windows of config.EpochLength blocks, counted from genesis.
func EpochNumber(height uint64) uint64 {
	return height / config.EpochLength
}

// medianTimeContext adapts BlockStore to txverify.MedianTimeContext: the
// median of the timestamps of the MedianTimeWindow blocks ending at number,
// the construction RFC-0017 timestamp-metric since locks rely on to resist a
// single miner skewing one block's timestamp.
type medianTimeContext struct {
	blocks *BlockStore
}

// NewMedianTimeContext builds the median-time oracle txverify.SinceVerifier
// consults for timestamp-metric since locks.
func NewMedianTimeContext(blocks *BlockStore) *medianTimeContext {
	return &medianTimeContext{blocks: blocks}
}

// BlockMedianTime implements txverify.MedianTimeContext.
func (m *medianTimeContext) BlockMedianTime(number uint64) (uint64, bool) {
	var timestamps []uint64
	for n, i := number, 0; i < config.MedianTimeWindow; i++ {
		blk, err := m.blocks.GetBlockByHeight(n)
		if err != nil {
			break
		}
		timestamps = append(timestamps, blk.Header.Timestamp)
		if n == 0 {
			break
		}
		n--
	}
	if len(timestamps) == 0 {
		return 0, false
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	// Since-lock timestamps are seconds; the verifier core works in
	// milliseconds to match the relative-timestamp metric's unit.
	return timestamps[len(timestamps)/2] * 1000, true
}
