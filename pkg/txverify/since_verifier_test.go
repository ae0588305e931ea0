package txverify

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

func transactionWithSinceInput(since uint64) *tx.Transaction {
	return &tx.Transaction{
		Version: TxVersion,
		Inputs:  []tx.Input{{PrevOut: types.Outpoint{TxID: types.Hash{0x01}, Index: 0}, Since: since}},
		Outputs: []tx.Output{{Value: outputCapacity, Script: p2pkhScript()}},
	}
}

func TestSinceVerifier_ZeroSinceIsNoop(t *testing.T) {
	transaction := transactionWithSinceInput(0)
	rtx := resolvedWith(transaction, &CellMeta{Capacity: types.Capacity(outputCapacity), BlockInfo: &types.BlockInfo{Number: 5}})
	v := NewSinceVerifier(rtx, newFakeMedianTimeContext(nil), 5, 0)
	if err := v.Verify(); err != nil {
		t.Errorf("zero since should never fail, got %v", err)
	}
}

func TestSinceVerifier_AbsoluteBlockNumber(t *testing.T) {
	since := NewSince(false, SinceMetricBlockNumber, 100)
	transaction := transactionWithSinceInput(uint64(since))
	rtx := resolvedWith(transaction, &CellMeta{Capacity: types.Capacity(outputCapacity), BlockInfo: &types.BlockInfo{Number: 5}})

	v := NewSinceVerifier(rtx, newFakeMedianTimeContext(nil), 50, 0)
	if err := v.Verify(); !errors.Is(err, ErrImmature) {
		t.Errorf("expected ErrImmature at tip 50 < absolute lock 100, got %v", err)
	}

	v2 := NewSinceVerifier(rtx, newFakeMedianTimeContext(nil), 150, 0)
	if err := v2.Verify(); err != nil {
		t.Errorf("expected since to mature at tip 150, got %v", err)
	}
}

func TestSinceVerifier_RelativeBlockNumber(t *testing.T) {
	since := NewSince(true, SinceMetricBlockNumber, 10)
	transaction := transactionWithSinceInput(uint64(since))
	cell := &CellMeta{Capacity: types.Capacity(outputCapacity), BlockInfo: &types.BlockInfo{Number: 100}}
	rtx := resolvedWith(transaction, cell)

	v := NewSinceVerifier(rtx, newFakeMedianTimeContext(nil), 105, 0)
	if err := v.Verify(); !errors.Is(err, ErrImmature) {
		t.Errorf("expected ErrImmature: tip 105 < cell height 100 + relative 10, got %v", err)
	}

	v2 := NewSinceVerifier(rtx, newFakeMedianTimeContext(nil), 110, 0)
	if err := v2.Verify(); err != nil {
		t.Errorf("expected since to mature exactly at tip 110, got %v", err)
	}
}

func TestSinceVerifier_RelativeLockUnresolvedCellIsImmature(t *testing.T) {
	since := NewSince(true, SinceMetricBlockNumber, 10)
	transaction := transactionWithSinceInput(uint64(since))
	cell := &CellMeta{Capacity: types.Capacity(outputCapacity), BlockInfo: nil} // still in mempool
	rtx := resolvedWith(transaction, cell)

	v := NewSinceVerifier(rtx, newFakeMedianTimeContext(nil), 1000, 0)
	if err := v.Verify(); !errors.Is(err, ErrImmature) {
		t.Errorf("expected ErrImmature for a cell with no BlockInfo, got %v", err)
	}
}

func TestSinceVerifier_RelativeTimestamp(t *testing.T) {
	since := NewSince(true, SinceMetricTimestamp, 600) // 600s = 10 min relative lock
	transaction := transactionWithSinceInput(uint64(since))
	cell := &CellMeta{Capacity: types.Capacity(outputCapacity), BlockInfo: &types.BlockInfo{Number: 10}}
	rtx := resolvedWith(transaction, cell)

	medianCtx := newFakeMedianTimeContext(map[uint64]uint64{
		9:  1_000_000, // cell's median time past (ms), keyed at height-1
		19: 1_000_000 + 599_000,
	})
	v := NewSinceVerifier(rtx, medianCtx, 20, 0)
	if err := v.Verify(); !errors.Is(err, ErrImmature) {
		t.Errorf("expected ErrImmature: only 599s elapsed of required 600s, got %v", err)
	}

	medianCtx2 := newFakeMedianTimeContext(map[uint64]uint64{
		9:  1_000_000,
		19: 1_000_000 + 600_000,
	})
	v2 := NewSinceVerifier(rtx, medianCtx2, 20, 0)
	if err := v2.Verify(); err != nil {
		t.Errorf("expected since to mature at exactly 600s elapsed, got %v", err)
	}
}

func TestSinceVerifier_InvalidFlagsRejected(t *testing.T) {
	since := NewSince(false, SinceMetricBlockNumber, 1)
	corrupted := uint64(since) | remainFlagsMask
	transaction := transactionWithSinceInput(corrupted)
	rtx := resolvedWith(transaction, &CellMeta{Capacity: types.Capacity(outputCapacity), BlockInfo: &types.BlockInfo{Number: 0}})

	v := NewSinceVerifier(rtx, newFakeMedianTimeContext(nil), 1000, 0)
	if err := v.Verify(); !errors.Is(err, ErrInvalidSince) {
		t.Errorf("expected ErrInvalidSince for reserved bits set, got %v", err)
	}
}
