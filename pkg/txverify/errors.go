package txverify

import "fmt"

// Kind identifies the rule a TransactionError was raised for.
type Kind int

const (
	// KindVersion: transaction.version != TxVersion.
	KindVersion Kind = iota
	// KindEmpty: no inputs or no outputs.
	KindEmpty
	// KindDuplicateDeps: repeated dep reference.
	KindDuplicateDeps
	// KindCellbaseImmaturity: cellbase output spent before maturity window.
	KindCellbaseImmaturity
	// KindOutputsSumOverflow: outputs exceed inputs in capacity.
	KindOutputsSumOverflow
	// KindCapacityOverflow: additive overflow, or occupied-capacity overflow
	// on an output.
	KindCapacityOverflow
	// KindInvalidSince: reserved bits set, invalid metric code, or additive
	// overflow while evaluating a since lock.
	KindInvalidSince
	// KindImmature: a valid since lock has not yet matured.
	KindImmature
	// KindScriptFailure: the script engine rejected the transaction.
	KindScriptFailure
)

func (k Kind) String() string {
	switch k {
	case KindVersion:
		return "Version"
	case KindEmpty:
		return "Empty"
	case KindDuplicateDeps:
		return "DuplicateDeps"
	case KindCellbaseImmaturity:
		return "CellbaseImmaturity"
	case KindOutputsSumOverflow:
		return "OutputsSumOverflow"
	case KindCapacityOverflow:
		return "CapacityOverflow"
	case KindInvalidSince:
		return "InvalidSince"
	case KindImmature:
		return "Immature"
	case KindScriptFailure:
		return "ScriptFailure"
	default:
		return "Unknown"
	}
}

// TransactionError is the single error taxonomy every checker in this
// package raises. Two TransactionErrors compare equal under errors.Is when
// their Kind matches, regardless of Inner — so callers can test for a kind
// with errors.Is(err, txverify.ErrImmature) even though the concrete
// instance returned carries no extra data.
type TransactionError struct {
	Kind  Kind
	Inner error // only set for KindScriptFailure
}

func (e *TransactionError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Inner)
	}
	return e.Kind.String()
}

func (e *TransactionError) Unwrap() error {
	return e.Inner
}

// Is implements errors.Is by comparing Kind only, so sentinel values below
// match any TransactionError of the same Kind.
func (e *TransactionError) Is(target error) bool {
	t, ok := target.(*TransactionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrVersion            = &TransactionError{Kind: KindVersion}
	ErrEmpty              = &TransactionError{Kind: KindEmpty}
	ErrDuplicateDeps      = &TransactionError{Kind: KindDuplicateDeps}
	ErrCellbaseImmaturity = &TransactionError{Kind: KindCellbaseImmaturity}
	ErrOutputsSumOverflow = &TransactionError{Kind: KindOutputsSumOverflow}
	ErrCapacityOverflow   = &TransactionError{Kind: KindCapacityOverflow}
	ErrInvalidSince       = &TransactionError{Kind: KindInvalidSince}
	ErrImmature           = &TransactionError{Kind: KindImmature}
)

// NewScriptFailure wraps a script engine error verbatim.
func NewScriptFailure(inner error) *TransactionError {
	return &TransactionError{Kind: KindScriptFailure, Inner: inner}
}
