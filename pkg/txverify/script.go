package txverify

import "github.com/Klingon-tech/klingnet-chain/pkg/types"

// ChainStore is the read-only capability the script engine needs to look up
// the output being spent (for its lock script and any attached token data).
// The validator itself never reads from it; it only passes it through.
type ChainStore interface {
	GetCellOutput(op types.Outpoint) (value uint64, script types.Script, ok bool)
}

// ScriptConfig configures the script engine. It is opaque to the validator
// core and passed through verbatim.
type ScriptConfig struct {
	// MaxScriptDataBytes bounds the lock-script data a cell may carry.
	MaxScriptDataBytes int
}

// ScriptEngine verifies that every input's unlocking data satisfies the
// lock script of the cell it spends. A successful verification returns the
// number of abstract cycles consumed, bounded by maxCycles.
type ScriptEngine interface {
	Verify(rtx *ResolvedTransaction, store ChainStore, config *ScriptConfig, maxCycles uint64) (cycles uint64, err error)
}

// ScriptVerifier wraps an external ScriptEngine, the most expensive check,
// always run last.
type ScriptVerifier struct {
	rtx    *ResolvedTransaction
	store  ChainStore
	engine ScriptEngine
	config *ScriptConfig
}

func NewScriptVerifier(rtx *ResolvedTransaction, store ChainStore, engine ScriptEngine, config *ScriptConfig) *ScriptVerifier {
	return &ScriptVerifier{rtx: rtx, store: store, engine: engine, config: config}
}

func (v *ScriptVerifier) Verify(maxCycles uint64) (uint64, error) {
	cycles, err := v.engine.Verify(v.rtx, v.store, v.config, maxCycles)
	if err != nil {
		return 0, NewScriptFailure(err)
	}
	return cycles, nil
}
