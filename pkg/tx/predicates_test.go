package tx

import (
	"testing"

	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

func TestTransaction_IsEmpty(t *testing.T) {
	transaction := &Transaction{
		Inputs:  []Input{{PrevOut: types.Outpoint{TxID: types.Hash{0x01}}}},
		Outputs: []Output{{Value: 1, Script: testP2PKHScript(types.Address{})}},
	}
	if transaction.IsEmpty() {
		t.Error("transaction with inputs and outputs should not be empty")
	}

	noInputs := &Transaction{Outputs: transaction.Outputs}
	if !noInputs.IsEmpty() {
		t.Error("transaction with no inputs should be empty")
	}

	noOutputs := &Transaction{Inputs: transaction.Inputs}
	if !noOutputs.IsEmpty() {
		t.Error("transaction with no outputs should be empty")
	}
}

func TestTransaction_IsCellbase(t *testing.T) {
	cellbase := &Transaction{
		Inputs:  []Input{{PrevOut: types.Outpoint{}}},
		Outputs: []Output{{Value: 1, Script: testP2PKHScript(types.Address{})}},
	}
	if !cellbase.IsCellbase() {
		t.Error("single zero-outpoint input should be a cellbase")
	}

	notCellbase := &Transaction{
		Inputs:  []Input{{PrevOut: types.Outpoint{TxID: types.Hash{0x01}}}},
		Outputs: cellbase.Outputs,
	}
	if notCellbase.IsCellbase() {
		t.Error("non-zero outpoint should not be a cellbase")
	}

	twoInputs := &Transaction{
		Inputs:  []Input{{PrevOut: types.Outpoint{}}, {PrevOut: types.Outpoint{TxID: types.Hash{0x02}}}},
		Outputs: cellbase.Outputs,
	}
	if twoInputs.IsCellbase() {
		t.Error("a second input disqualifies a cellbase")
	}
}

func TestTransaction_IsWithdrawingFromDao(t *testing.T) {
	withdraw := &Transaction{
		Outputs: []Output{{Value: 1, Script: types.Script{Type: types.ScriptTypeDAOWithdraw}}},
	}
	if !withdraw.IsWithdrawingFromDao() {
		t.Error("expected DAOWithdraw output to mark the transaction as withdrawing")
	}

	plain := &Transaction{
		Outputs: []Output{{Value: 1, Script: testP2PKHScript(types.Address{})}},
	}
	if plain.IsWithdrawingFromDao() {
		t.Error("plain P2PKH output should not be a DAO withdrawal")
	}
}

func TestOutput_OccupiedBytesAndOverflow(t *testing.T) {
	out := Output{Value: 1, Script: testP2PKHScript(types.Address{})}
	if !out.IsOccupiedCapacityOverflow() {
		t.Error("1 shannon cannot possibly cover a P2PKH output's own bytes")
	}

	large := Output{Value: 1_000_000 * types.ShannonsPerByte, Script: testP2PKHScript(types.Address{})}
	if large.IsOccupiedCapacityOverflow() {
		t.Error("large capacity should cover the output's own serialized size")
	}
}

func TestTransaction_SigningBytes_IncludesSinceAndDeps(t *testing.T) {
	base := &Transaction{
		Version: 1,
		Inputs:  []Input{{PrevOut: types.Outpoint{TxID: types.Hash{0x01}, Index: 0}}},
		Outputs: []Output{{Value: 1000, Script: testP2PKHScript(types.Address{})}},
	}
	withSince := &Transaction{
		Version: 1,
		Inputs:  []Input{{PrevOut: types.Outpoint{TxID: types.Hash{0x01}, Index: 0}, Since: 42}},
		Outputs: base.Outputs,
	}
	if base.Hash() == withSince.Hash() {
		t.Error("changing Since should change the signing hash")
	}

	withDeps := &Transaction{
		Version: 1,
		Inputs:  base.Inputs,
		Outputs: base.Outputs,
		Deps:    []types.Outpoint{{TxID: types.Hash{0x02}, Index: 0}},
	}
	if base.Hash() == withDeps.Hash() {
		t.Error("adding a dep should change the signing hash")
	}
}
