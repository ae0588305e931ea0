package chain

import (
	"testing"

	"github.com/Klingon-tech/klingnet-chain/config"
	"github.com/Klingon-tech/klingnet-chain/internal/storage"
	"github.com/Klingon-tech/klingnet-chain/pkg/block"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

func TestEpochNumber(t *testing.T) {
	cases := []struct {
		height uint64
		want   uint64
	}{
		{0, 0},
		{config.EpochLength - 1, 0},
		{config.EpochLength, 1},
		{config.EpochLength*3 + 5, 3},
	}
	for _, c := range cases {
		if got := EpochNumber(c.height); got != c.want {
			t.Errorf("EpochNumber(%d) = %d, want %d", c.height, got, c.want)
		}
	}
}

func putTestBlock(t *testing.T, bs *BlockStore, height, timestamp uint64) {
	t.Helper()
	blk := &block.Block{
		Header: &block.Header{
			Height:    height,
			Timestamp: timestamp,
			PrevHash:  types.Hash{byte(height)},
		},
	}
	if err := bs.PutBlock(blk); err != nil {
		t.Fatalf("PutBlock(%d): %v", height, err)
	}
}

func TestMedianTimeContext_Median(t *testing.T) {
	bs := NewBlockStore(storage.NewMemory())
	for h := uint64(0); h < 5; h++ {
		putTestBlock(t, bs, h, 1000+h*10)
	}

	ctx := NewMedianTimeContext(bs)
	ms, ok := ctx.BlockMedianTime(4)
	if !ok {
		t.Fatal("expected an answer for a known height")
	}
	// Timestamps 1000,1010,1020,1030,1040 -> median 1020, reported in ms.
	if ms != 1020*1000 {
		t.Errorf("median = %d, want %d", ms, 1020*1000)
	}
}

func TestMedianTimeContext_UnknownHeight(t *testing.T) {
	bs := NewBlockStore(storage.NewMemory())
	ctx := NewMedianTimeContext(bs)
	if _, ok := ctx.BlockMedianTime(42); ok {
		t.Error("expected no answer for an unknown height")
	}
}
