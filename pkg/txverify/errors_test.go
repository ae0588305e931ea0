package txverify

import (
	"errors"
	"testing"
)

func TestTransactionError_IsMatchesByKindOnly(t *testing.T) {
	a := NewScriptFailure(errors.New("signature mismatch"))
	b := NewScriptFailure(errors.New("different cause entirely"))

	if !errors.Is(a, b) {
		t.Error("expected two ScriptFailure errors to match regardless of Inner")
	}
	if errors.Is(a, ErrImmature) {
		t.Error("expected ScriptFailure not to match ErrImmature")
	}
}

func TestTransactionError_UnwrapExposesInner(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := NewScriptFailure(cause)
	if !errors.Is(wrapped, cause) {
		t.Error("expected Unwrap to expose the inner cause to errors.Is")
	}
}

func TestTransactionError_SentinelsDistinctKinds(t *testing.T) {
	sentinels := []*TransactionError{
		ErrVersion, ErrEmpty, ErrDuplicateDeps, ErrCellbaseImmaturity,
		ErrOutputsSumOverflow, ErrCapacityOverflow, ErrInvalidSince, ErrImmature,
	}
	seen := make(map[Kind]bool)
	for _, s := range sentinels {
		if seen[s.Kind] {
			t.Errorf("duplicate Kind %v among sentinels", s.Kind)
		}
		seen[s.Kind] = true
		if errors.Unwrap(error(s)) != nil {
			t.Errorf("expected plain sentinel %v to have no Inner", s.Kind)
		}
	}
}
