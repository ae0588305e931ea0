package script

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
	"github.com/Klingon-tech/klingnet-chain/pkg/tx"
	"github.com/Klingon-tech/klingnet-chain/pkg/txverify"
	"github.com/Klingon-tech/klingnet-chain/pkg/types"
)

// memoryChainStore is a trivial in-memory txverify.ChainStore for tests.
type memoryChainStore map[types.Outpoint]struct {
	value  uint64
	script types.Script
}

func (m memoryChainStore) GetCellOutput(op types.Outpoint) (uint64, types.Script, bool) {
	c, ok := m[op]
	return c.value, c.script, ok
}

func p2pkhLockScript(addr types.Address) types.Script {
	return types.Script{Type: types.ScriptTypeP2PKH, Data: addr[:]}
}

func addressFor(pubKey []byte) types.Address {
	hash := crypto.Hash(pubKey)
	var addr types.Address
	copy(addr[:], hash[:types.AddressSize])
	return addr
}

func signedTransaction(t *testing.T, key *crypto.PrivateKey, prevOut types.Outpoint) *tx.Transaction {
	t.Helper()
	transaction := &tx.Transaction{
		Version: txverify.TxVersion,
		Inputs:  []tx.Input{{PrevOut: prevOut}},
		Outputs: []tx.Output{{Value: 1000, Script: types.Script{Type: types.ScriptTypeP2PKH, Data: make([]byte, types.AddressSize)}}},
	}
	hash := transaction.Hash()
	sig, err := key.Sign(hash[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	transaction.Inputs[0].Signature = sig
	transaction.Inputs[0].PubKey = key.PublicKey()
	return transaction
}

func TestEngine_VerifyP2PKH_Success(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	prevOut := types.Outpoint{TxID: types.Hash{0x09}, Index: 0}
	transaction := signedTransaction(t, key, prevOut)

	store := memoryChainStore{
		prevOut: {value: 2000, script: p2pkhLockScript(addressFor(key.PublicKey()))},
	}

	engine := NewEngine()
	rtx := &txverify.ResolvedTransaction{Transaction: transaction}
	cycles, err := engine.Verify(rtx, store, nil, 1_000_000)
	if err != nil {
		t.Fatalf("expected verification to succeed, got %v", err)
	}
	if cycles != cyclesPerInput {
		t.Errorf("cycles = %d, want %d", cycles, cyclesPerInput)
	}
}

func TestEngine_VerifyP2PKH_WrongKeyFails(t *testing.T) {
	key, _ := crypto.GenerateKey()
	otherKey, _ := crypto.GenerateKey()
	prevOut := types.Outpoint{TxID: types.Hash{0x0a}, Index: 0}
	transaction := signedTransaction(t, otherKey, prevOut)

	store := memoryChainStore{
		// Lock script expects `key`'s address, but the input is signed by otherKey.
		prevOut: {value: 2000, script: p2pkhLockScript(addressFor(key.PublicKey()))},
	}

	engine := NewEngine()
	rtx := &txverify.ResolvedTransaction{Transaction: transaction}
	if _, err := engine.Verify(rtx, store, nil, 1_000_000); !errors.Is(err, ErrScriptMismatch) {
		t.Errorf("expected ErrScriptMismatch, got %v", err)
	}
}

func TestEngine_SkipsCoinbaseInput(t *testing.T) {
	transaction := &tx.Transaction{
		Version: txverify.TxVersion,
		Inputs:  []tx.Input{{PrevOut: types.Outpoint{}}}, // zero outpoint: coinbase
		Outputs: []tx.Output{{Value: 1000, Script: types.Script{Type: types.ScriptTypeP2PKH}}},
	}
	engine := NewEngine()
	rtx := &txverify.ResolvedTransaction{Transaction: transaction}
	cycles, err := engine.Verify(rtx, memoryChainStore{}, nil, 1000)
	if err != nil {
		t.Fatalf("expected coinbase input to be skipped, got %v", err)
	}
	if cycles != 0 {
		t.Errorf("expected zero cycles for coinbase-only transaction, got %d", cycles)
	}
}

func TestEngine_CellNotFound(t *testing.T) {
	key, _ := crypto.GenerateKey()
	prevOut := types.Outpoint{TxID: types.Hash{0x0b}, Index: 0}
	transaction := signedTransaction(t, key, prevOut)

	engine := NewEngine()
	rtx := &txverify.ResolvedTransaction{Transaction: transaction}
	if _, err := engine.Verify(rtx, memoryChainStore{}, nil, 1000); !errors.Is(err, ErrCellNotFound) {
		t.Errorf("expected ErrCellNotFound, got %v", err)
	}
}

func TestEngine_UnspendableOutputType(t *testing.T) {
	key, _ := crypto.GenerateKey()
	prevOut := types.Outpoint{TxID: types.Hash{0x0c}, Index: 0}
	transaction := signedTransaction(t, key, prevOut)

	store := memoryChainStore{
		prevOut: {value: 2000, script: types.Script{Type: types.ScriptTypeBurn}},
	}

	engine := NewEngine()
	rtx := &txverify.ResolvedTransaction{Transaction: transaction}
	if _, err := engine.Verify(rtx, store, nil, 1000); !errors.Is(err, ErrUnspendableOutput) {
		t.Errorf("expected ErrUnspendableOutput, got %v", err)
	}
}

func TestEngine_ExceedsMaxCycles(t *testing.T) {
	key, _ := crypto.GenerateKey()
	prevOut := types.Outpoint{TxID: types.Hash{0x0d}, Index: 0}
	transaction := signedTransaction(t, key, prevOut)

	store := memoryChainStore{
		prevOut: {value: 2000, script: p2pkhLockScript(addressFor(key.PublicKey()))},
	}

	engine := NewEngine()
	rtx := &txverify.ResolvedTransaction{Transaction: transaction}
	if _, err := engine.Verify(rtx, store, nil, cyclesPerInput-1); err == nil {
		t.Error("expected exceeding max cycles to fail")
	}
}
