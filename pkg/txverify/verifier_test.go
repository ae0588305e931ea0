package txverify

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

func p2pkhScript() types.Script {
	return types.Script{Type: types.ScriptTypeP2PKH, Data: make([]byte, types.AddressSize)}
}

// outputCapacity is large enough to clear the occupied-capacity floor for a
// plain P2PKH output (33 serialized bytes), so tests can focus on the rule
// they're actually exercising.
const outputCapacity = 10 * types.ShannonsPerByte * 1000

func simpleTransaction() *tx.Transaction {
	return &tx.Transaction{
		Version: TxVersion,
		Inputs:  []tx.Input{{PrevOut: types.Outpoint{TxID: types.Hash{0x01}, Index: 0}}},
		Outputs: []tx.Output{{Value: outputCapacity, Script: p2pkhScript()}},
	}
}

func resolvedWith(transaction *tx.Transaction, inputs ...*CellMeta) *ResolvedTransaction {
	return &ResolvedTransaction{Transaction: transaction, ResolvedInputs: inputs}
}

func TestVersionVerifier(t *testing.T) {
	transaction := simpleTransaction()
	if err := NewVersionVerifier(transaction).Verify(); err != nil {
		t.Fatalf("expected valid version, got %v", err)
	}

	transaction.Version = TxVersion + 1
	if err := NewVersionVerifier(transaction).Verify(); !errors.Is(err, ErrVersion) {
		t.Errorf("expected ErrVersion, got %v", err)
	}
}

func TestEmptyVerifier(t *testing.T) {
	transaction := simpleTransaction()
	if err := NewEmptyVerifier(transaction).Verify(); err != nil {
		t.Fatalf("expected non-empty transaction to pass, got %v", err)
	}

	transaction.Inputs = nil
	if err := NewEmptyVerifier(transaction).Verify(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty for no inputs, got %v", err)
	}

	transaction2 := simpleTransaction()
	transaction2.Outputs = nil
	if err := NewEmptyVerifier(transaction2).Verify(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty for no outputs, got %v", err)
	}
}

func TestDuplicateDepsVerifier(t *testing.T) {
	transaction := simpleTransaction()
	dep := types.Outpoint{TxID: types.Hash{0x02}, Index: 0}
	transaction.Deps = []types.Outpoint{dep}
	if err := NewDuplicateDepsVerifier(transaction).Verify(); err != nil {
		t.Fatalf("expected unique deps to pass, got %v", err)
	}

	transaction.Deps = []types.Outpoint{dep, dep}
	if err := NewDuplicateDepsVerifier(transaction).Verify(); !errors.Is(err, ErrDuplicateDeps) {
		t.Errorf("expected ErrDuplicateDeps, got %v", err)
	}
}

func TestMaturityVerifier_ImmatureCellbase(t *testing.T) {
	transaction := simpleTransaction()
	cell := &CellMeta{Capacity: 2000, IsCellbase: true, BlockInfo: &types.BlockInfo{Number: 10}}
	rtx := resolvedWith(transaction, cell)

	if err := NewMaturityVerifier(rtx, 15, 20).Verify(); !errors.Is(err, ErrCellbaseImmaturity) {
		t.Errorf("expected ErrCellbaseImmaturity at tip 15 (cell at 10, maturity 20), got %v", err)
	}
	if err := NewMaturityVerifier(rtx, 30, 20).Verify(); err != nil {
		t.Errorf("expected maturity to pass at tip 30, got %v", err)
	}
}

func TestMaturityVerifier_IgnoresUnresolvedAndNonCellbase(t *testing.T) {
	transaction := simpleTransaction()
	rtx := resolvedWith(transaction, nil)
	if err := NewMaturityVerifier(rtx, 0, 20).Verify(); err != nil {
		t.Errorf("unresolved cell should not fail maturity, got %v", err)
	}

	normalCell := &CellMeta{Capacity: 2000, IsCellbase: false}
	rtx2 := resolvedWith(transaction, normalCell)
	if err := NewMaturityVerifier(rtx2, 0, 20).Verify(); err != nil {
		t.Errorf("non-cellbase cell should not fail maturity, got %v", err)
	}
}

func TestCapacityVerifier_ConservationHolds(t *testing.T) {
	transaction := simpleTransaction()
	rtx := resolvedWith(transaction, &CellMeta{Capacity: types.Capacity(outputCapacity)})
	if err := NewCapacityVerifier(rtx).Verify(); err != nil {
		t.Errorf("expected balanced capacity to pass, got %v", err)
	}
}

func TestCapacityVerifier_OutputsExceedInputs(t *testing.T) {
	transaction := simpleTransaction()
	rtx := resolvedWith(transaction, &CellMeta{Capacity: types.Capacity(outputCapacity / 2)})
	if err := NewCapacityVerifier(rtx).Verify(); !errors.Is(err, ErrOutputsSumOverflow) {
		t.Errorf("expected ErrOutputsSumOverflow when outputs exceed inputs, got %v", err)
	}
}

func TestCapacityVerifier_CellbaseExempt(t *testing.T) {
	transaction := &tx.Transaction{
		Version: TxVersion,
		Inputs:  []tx.Input{{PrevOut: types.Outpoint{}}}, // zero outpoint: cellbase
		Outputs: []tx.Output{{Value: outputCapacity, Script: p2pkhScript()}},
	}
	rtx := resolvedWith(transaction, nil)
	if err := NewCapacityVerifier(rtx).Verify(); err != nil {
		t.Errorf("expected cellbase to be exempt from conservation, got %v", err)
	}
}

func TestCapacityVerifier_OccupiedCapacityOverflow(t *testing.T) {
	transaction := simpleTransaction()
	// Declare far less capacity than the output's serialized form requires.
	transaction.Outputs[0].Value = 1
	rtx := resolvedWith(transaction, &CellMeta{Capacity: 1_000_000})
	if err := NewCapacityVerifier(rtx).Verify(); !errors.Is(err, ErrCapacityOverflow) {
		t.Errorf("expected ErrCapacityOverflow for undersized output, got %v", err)
	}
}

func TestFullVerifier_OrderIsVersionFirst(t *testing.T) {
	transaction := simpleTransaction()
	transaction.Version = TxVersion + 1
	transaction.Inputs = nil // also empty, but version must report first

	rtx := resolvedWith(transaction)
	full := NewFullVerifier(rtx, fakeChainStore{}, newFakeMedianTimeContext(nil), 0, 0, 0, fakeScriptEngine{}, nil)
	_, err := full.Verify(1000)
	if !errors.Is(err, ErrVersion) {
		t.Errorf("expected version check to fail first, got %v", err)
	}
}

type fakeChainStore struct{}

func (fakeChainStore) GetCellOutput(types.Outpoint) (uint64, types.Script, bool) {
	return 0, types.Script{}, false
}

type fakeScriptEngine struct{}

func (fakeScriptEngine) Verify(*ResolvedTransaction, ChainStore, *ScriptConfig, uint64) (uint64, error) {
	return 0, nil
}
