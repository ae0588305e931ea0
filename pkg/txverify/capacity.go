package txverify

import "github.com/Klingon-tech/klingnet-chain/pkg/types"

// CapacityVerifier enforces capacity conservation: committed inputs must
// cover outputs, unless the transaction is a cellbase (which creates
// capacity from block rewards) or a DAO withdrawal (which mints capacity
// from accrued compensation) — both exemptions are validated elsewhere.
// Regardless of the exemption, no output may declare less capacity than its
// own serialized form requires.
type CapacityVerifier struct {
	rtx *ResolvedTransaction
}

func NewCapacityVerifier(rtx *ResolvedTransaction) *CapacityVerifier {
	return &CapacityVerifier{rtx: rtx}
}

func (v *CapacityVerifier) Verify() error {
	if !(v.rtx.IsCellbase() || v.rtx.Transaction.IsWithdrawingFromDao()) {
		inputsTotal := types.ZeroCapacity()
		for _, cell := range v.rtx.ResolvedInputs {
			capacity := types.ZeroCapacity()
			if cell != nil {
				capacity = cell.Capacity
			}
			var err error
			inputsTotal, err = inputsTotal.SafeAdd(capacity)
			if err != nil {
				return ErrCapacityOverflow
			}
		}

		outputsTotal := types.ZeroCapacity()
		for _, out := range v.rtx.Transaction.Outputs {
			var err error
			outputsTotal, err = outputsTotal.SafeAdd(out.Capacity())
			if err != nil {
				return ErrCapacityOverflow
			}
		}

		if inputsTotal < outputsTotal {
			return ErrOutputsSumOverflow
		}
	}

	for _, out := range v.rtx.Transaction.Outputs {
		if out.IsOccupiedCapacityOverflow() {
			return ErrCapacityOverflow
		}
	}

	return nil
}
