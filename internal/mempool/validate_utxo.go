package mempool

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/config"
	"github.com/Klingon-tech/klingnet-chain/internal/utxo"
	"github.com/Klingon-tech/klingnet-chain/pkg/script"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/txverify"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// resolveTransaction builds the ResolvedTransaction txverify needs from the
// pool's UTXO set. An input or dep spending a cell the set doesn't know
// about resolves to nil; ValidateWithUTXOs is what actually rejects spends
// of unknown or already-spent outpoints, so txverify only needs to treat
// that case as "unresolved" rather than as an error here.
func (p *Pool) resolveTransaction(transaction *tx.Transaction) *txverify.ResolvedTransaction {
	resolveCell := func(op types.Outpoint) *txverify.CellMeta {
		if p.utxoSet == nil {
			return nil
		}
		u, err := p.utxoSet.Get(op)
		if err != nil {
			return nil
		}
		meta := &txverify.CellMeta{
			Capacity:   types.Capacity(u.Value),
			IsCellbase: u.Coinbase,
		}
		if p.epochFn != nil {
			meta.BlockInfo = &types.BlockInfo{Number: u.Height, Epoch: p.epochFn(u.Height)}
		} else {
			meta.BlockInfo = &types.BlockInfo{Number: u.Height}
		}
		return meta
	}

	resolveInputs := make([]*txverify.CellMeta, len(transaction.Inputs))
	for i, in := range transaction.Inputs {
		if in.PrevOut.IsZero() {
			continue
		}
		resolveInputs[i] = resolveCell(in.PrevOut)
	}

	resolveDeps := make([]*txverify.CellMeta, len(transaction.Deps))
	for i, dep := range transaction.Deps {
		resolveDeps[i] = resolveCell(dep)
	}

	return &txverify.ResolvedTransaction{Transaction: transaction, ResolvedInputs: resolveInputs, ResolvedDeps: resolveDeps}
}

// medianTimeContextOrNoop returns the pool's wired median-time oracle, or
// one that answers every query as unknown if none was set.
func (p *Pool) medianTimeContextOrNoop() txverify.MedianTimeContext {
	if p.medianCtx != nil {
		return p.medianCtx
	}
	return noopMedianTimeContext{}
}

// validateContextual re-checks maturity and since locks against the current
// tip before admitting a transaction: the two rules that are cheap enough to
// run on every mempool entry and that can flip from failing to passing as
// the chain advances without the transaction itself changing. Maturity
// checking is gated on a configured coinbaseMaturity; since-lock checking
// runs independently, because a transaction can carry a since lock on a
// non-cellbase input regardless of whether coinbase maturity is enforced.
func (p *Pool) validateContextual(transaction *tx.Transaction) error {
	if p.utxoSet == nil || p.heightFn == nil {
		return nil
	}
	tipNumber := p.heightFn()
	tipEpoch := uint64(0)
	if p.epochFn != nil {
		tipEpoch = p.epochFn(tipNumber)
	}
	rtx := p.resolveTransaction(transaction)

	if p.coinbaseMaturity > 0 {
		if err := txverify.NewMaturityVerifier(rtx, tipNumber, p.coinbaseMaturity).Verify(); err != nil {
			return fmt.Errorf("%w: %w", ErrCoinbaseNotMature, err)
		}
	}

	if err := txverify.NewSinceVerifier(rtx, p.medianTimeContextOrNoop(), tipNumber, tipEpoch).Verify(); err != nil {
		return fmt.Errorf("tx since lock: %w", err)
	}
	return nil
}

// validateFull re-runs the complete txverify checker chain — including the
// script engine — against the current tip. Used when assembling a block
// template: a transaction that was valid on admission can still be stale
// (e.g. a conflicting spend already landed on chain), and the script step
// never runs at admission time since signatures are already checked by
// ValidateWithUTXOs.
func (p *Pool) validateFull(transaction *tx.Transaction) error {
	if p.utxoSet == nil || p.heightFn == nil {
		return nil
	}
	tipNumber := p.heightFn()
	tipEpoch := uint64(0)
	if p.epochFn != nil {
		tipEpoch = p.epochFn(tipNumber)
	}
	rtx := p.resolveTransaction(transaction)
	store := utxo.NewChainStore(p.utxoSet)
	engine := script.NewEngine()

	_, err := txverify.FullVerify(rtx, store, p.medianTimeContextOrNoop(), tipNumber, tipEpoch, p.coinbaseMaturity, engine, nil, config.MaxScriptCycles)
	return err
}

// noopMedianTimeContext answers every query as unknown. Used when the pool
// hasn't been wired to a block store's median-time oracle; timestamp-metric
// since locks simply can't be evaluated yet, which SinceVerifier treats as
// immature rather than passing.
type noopMedianTimeContext struct{}

func (noopMedianTimeContext) BlockMedianTime(uint64) (uint64, bool) { return 0, false }
