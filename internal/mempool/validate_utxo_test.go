package mempool

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-chain/internal/utxo"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/txverify"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// fakeUTXOSet is a minimal utxo.Set backed by a map, for validateContextual tests.
type fakeUTXOSet map[types.Outpoint]*utxo.UTXO

func (f fakeUTXOSet) Get(op types.Outpoint) (*utxo.UTXO, error) {
	u, ok := f[op]
	if !ok {
		return nil, errors.New("utxo not found")
	}
	return u, nil
}

func (f fakeUTXOSet) Put(u *utxo.UTXO) error {
	f[u.Outpoint] = u
	return nil
}

func (f fakeUTXOSet) Delete(op types.Outpoint) error {
	delete(f, op)
	return nil
}

func (f fakeUTXOSet) Has(op types.Outpoint) (bool, error) {
	_, ok := f[op]
	return ok, nil
}

func testTransactionSpending(prevOut types.Outpoint) *tx.Transaction {
	return &tx.Transaction{
		Version: txverify.TxVersion,
		Inputs:  []tx.Input{{PrevOut: prevOut}},
		Outputs: []tx.Output{{Value: 1, Script: types.Script{Type: types.ScriptTypeP2PKH}}},
	}
}

func TestPool_ValidateContextual_ImmatureCoinbaseRejected(t *testing.T) {
	pool := New(nil, 0)
	set := fakeUTXOSet{}
	prevOut := types.Outpoint{TxID: types.Hash{0x01}, Index: 0}
	set[prevOut] = &utxo.UTXO{Outpoint: prevOut, Value: 1000, Coinbase: true, Height: 5}

	pool.coinbaseMaturity = 20
	pool.utxoSet = set
	pool.heightFn = func() uint64 { return 10 }

	transaction := testTransactionSpending(prevOut)

	if err := pool.validateContextual(transaction); !errors.Is(err, ErrCoinbaseNotMature) {
		t.Errorf("expected ErrCoinbaseNotMature, got %v", err)
	}
}

func TestPool_ValidateContextual_MatureCoinbaseAccepted(t *testing.T) {
	pool := New(nil, 0)
	set := fakeUTXOSet{}
	prevOut := types.Outpoint{TxID: types.Hash{0x02}, Index: 0}
	set[prevOut] = &utxo.UTXO{Outpoint: prevOut, Value: 1000, Coinbase: true, Height: 5}

	pool.coinbaseMaturity = 20
	pool.utxoSet = set
	pool.heightFn = func() uint64 { return 30 }

	transaction := testTransactionSpending(prevOut)

	if err := pool.validateContextual(transaction); err != nil {
		t.Errorf("expected mature coinbase to pass contextual check, got %v", err)
	}
}

func TestPool_ValidateContextual_DisabledWhenUnconfigured(t *testing.T) {
	pool := New(nil, 0)
	transaction := testTransactionSpending(types.Outpoint{TxID: types.Hash{0x03}, Index: 0})
	if err := pool.validateContextual(transaction); err != nil {
		t.Errorf("expected contextual check to no-op when unconfigured, got %v", err)
	}
}

func TestPool_ValidateContextual_RelativeSinceLockImmature(t *testing.T) {
	pool := New(nil, 0)
	set := fakeUTXOSet{}
	prevOut := types.Outpoint{TxID: types.Hash{0x04}, Index: 0}
	set[prevOut] = &utxo.UTXO{Outpoint: prevOut, Value: 1000, Height: 100}

	pool.coinbaseMaturity = 1 // Enable the maturity check too (trivially satisfied: the input is not a coinbase).
	pool.utxoSet = set
	pool.heightFn = func() uint64 { return 105 } // 5 blocks since input's height; lock needs 10.
	pool.SetSinceContext(func(h uint64) uint64 { return 0 }, nil)

	transaction := testTransactionSpending(prevOut)
	transaction.Inputs[0].Since = uint64(txverify.NewSince(true, txverify.SinceMetricBlockNumber, 10))

	if err := pool.validateContextual(transaction); err == nil {
		t.Error("expected immature relative since lock to be rejected")
	}
}

func TestPool_ValidateContextual_SinceLockEnforcedWithoutCoinbaseMaturity(t *testing.T) {
	pool := New(nil, 0)
	set := fakeUTXOSet{}
	prevOut := types.Outpoint{TxID: types.Hash{0x06}, Index: 0}
	set[prevOut] = &utxo.UTXO{Outpoint: prevOut, Value: 1000, Height: 100}

	// coinbaseMaturity left at zero (disabled): since-lock enforcement must
	// not depend on it being configured.
	pool.utxoSet = set
	pool.heightFn = func() uint64 { return 105 }
	pool.SetSinceContext(func(h uint64) uint64 { return 0 }, nil)

	transaction := testTransactionSpending(prevOut)
	transaction.Inputs[0].Since = uint64(txverify.NewSince(true, txverify.SinceMetricBlockNumber, 10))

	err := pool.validateContextual(transaction)
	if err == nil {
		t.Error("expected since-lock check to run even with coinbase maturity disabled")
	}
	if errors.Is(err, ErrCoinbaseNotMature) {
		t.Error("a since-lock failure should not be reported as ErrCoinbaseNotMature")
	}
}

func TestPool_ValidateFull_RejectsImmatureCellbaseDep(t *testing.T) {
	pool := New(nil, 0)
	set := fakeUTXOSet{}
	prevOut := types.Outpoint{TxID: types.Hash{0x07}, Index: 0}
	depOut := types.Outpoint{TxID: types.Hash{0x08}, Index: 0}
	set[prevOut] = &utxo.UTXO{Outpoint: prevOut, Value: 10 * types.ShannonsPerByte * 1000, Height: 100}
	set[depOut] = &utxo.UTXO{Outpoint: depOut, Value: 1000, Coinbase: true, Height: 100}

	pool.coinbaseMaturity = 20
	pool.utxoSet = set
	pool.heightFn = func() uint64 { return 105 } // Dep cellbase needs height 120 to mature.

	transaction := &tx.Transaction{
		Version: txverify.TxVersion,
		Inputs:  []tx.Input{{PrevOut: prevOut}},
		Outputs: []tx.Output{{Value: 10 * types.ShannonsPerByte * 1000, Script: types.Script{Type: types.ScriptTypeP2PKH, Data: make([]byte, types.AddressSize)}}},
		Deps:    []types.Outpoint{depOut},
	}

	if err := pool.validateFull(transaction); !errors.Is(err, txverify.ErrCellbaseImmaturity) {
		t.Errorf("expected ErrCellbaseImmaturity from an immature cellbase dep, got %v", err)
	}
}

func TestPool_SelectForBlock_ExcludesFailingFullVerify(t *testing.T) {
	pool := New(nil, 0)
	set := fakeUTXOSet{}
	prevOut := types.Outpoint{TxID: types.Hash{0x09}, Index: 0}
	set[prevOut] = &utxo.UTXO{Outpoint: prevOut, Value: 1000, Coinbase: true, Height: 100}

	pool.coinbaseMaturity = 20
	pool.utxoSet = set
	pool.heightFn = func() uint64 { return 105 } // Immature: needs height 120.

	transaction := testTransactionSpending(prevOut)
	pool.txs[transaction.Hash()] = &entry{tx: transaction, txHash: transaction.Hash(), fee: 1, feeRate: 1}

	if selected := pool.SelectForBlock(10); len(selected) != 0 {
		t.Errorf("expected immature spend to be excluded from block template, got %d", len(selected))
	}
}

func TestPool_ValidateContextual_RelativeSinceLockMatured(t *testing.T) {
	pool := New(nil, 0)
	set := fakeUTXOSet{}
	prevOut := types.Outpoint{TxID: types.Hash{0x05}, Index: 0}
	set[prevOut] = &utxo.UTXO{Outpoint: prevOut, Value: 1000, Height: 100}

	pool.coinbaseMaturity = 1
	pool.utxoSet = set
	pool.heightFn = func() uint64 { return 110 } // Exactly 10 blocks since input's height.
	pool.SetSinceContext(func(h uint64) uint64 { return 0 }, nil)

	transaction := testTransactionSpending(prevOut)
	transaction.Inputs[0].Since = uint64(txverify.NewSince(true, txverify.SinceMetricBlockNumber, 10))

	if err := pool.validateContextual(transaction); err != nil {
		t.Errorf("expected matured relative since lock to pass, got %v", err)
	}
}
