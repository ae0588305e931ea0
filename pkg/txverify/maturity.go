package txverify

// MaturityVerifier rejects a transaction that spends, or depends on, a
// cellbase cell before its maturity window has elapsed.
type MaturityVerifier struct {
	rtx              *ResolvedTransaction
	tipNumber        uint64
	cellbaseMaturity uint64
}

func NewMaturityVerifier(rtx *ResolvedTransaction, tipNumber, cellbaseMaturity uint64) *MaturityVerifier {
	return &MaturityVerifier{rtx: rtx, tipNumber: tipNumber, cellbaseMaturity: cellbaseMaturity}
}

// cellbaseImmature reports whether a committed cellbase cell has not yet
// cleared its maturity window. A committed cell marked as cellbase must
// carry BlockInfo; if it doesn't, that's a programmer invariant violation,
// not a validation failure, so this panics rather than returning an error.
func cellbaseImmature(meta *CellMeta, tipNumber, cellbaseMaturity uint64) bool {
	if !meta.IsCellbase {
		return false
	}
	if meta.BlockInfo == nil {
		panic("cell meta should have block info when transaction verify")
	}
	return tipNumber < meta.BlockInfo.Number+cellbaseMaturity
}

func (v *MaturityVerifier) Verify() error {
	for _, cell := range v.rtx.ResolvedInputs {
		if cell == nil {
			continue
		}
		if cellbaseImmature(cell, v.tipNumber, v.cellbaseMaturity) {
			return ErrCellbaseImmaturity
		}
	}
	for _, cell := range v.rtx.ResolvedDeps {
		if cell == nil {
			continue
		}
		if cellbaseImmature(cell, v.tipNumber, v.cellbaseMaturity) {
			return ErrCellbaseImmaturity
		}
	}
	return nil
}
