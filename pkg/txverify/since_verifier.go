package txverify

// SinceVerifier checks each input's RFC-0017 since lock against the chain
// context: absolute locks against the tip, relative locks against the
// block/epoch/timestamp the spent cell was produced at.
//
// https://github.com/nervosnetwork/rfcs/blob/master/rfcs/0017-tx-valid-since/0017-tx-valid-since.md
type SinceVerifier struct {
	rtx            *ResolvedTransaction
	tipNumber      uint64
	tipEpochNumber uint64
	medianTimes    *medianTimeCache
}

func NewSinceVerifier(rtx *ResolvedTransaction, medianCtx MedianTimeContext, tipNumber, tipEpochNumber uint64) *SinceVerifier {
	return &SinceVerifier{
		rtx:            rtx,
		tipNumber:      tipNumber,
		tipEpochNumber: tipEpochNumber,
		medianTimes:    newMedianTimeCache(medianCtx, len(rtx.ResolvedInputs)),
	}
}

func (v *SinceVerifier) verifyAbsoluteLock(since Since) error {
	if !since.IsAbsolute() {
		return nil
	}
	metric, value, ok := since.Metric()
	if !ok {
		return ErrInvalidSince
	}
	switch metric {
	case SinceMetricBlockNumber:
		if v.tipNumber < value {
			return ErrImmature
		}
	case SinceMetricEpochNumber:
		if v.tipEpochNumber < value {
			return ErrImmature
		}
	case SinceMetricTimestamp:
		tipTimestamp := v.medianTimes.blockMedianTime(saturatingSub1(v.tipNumber))
		if tipTimestamp < value {
			return ErrImmature
		}
	}
	return nil
}

func (v *SinceVerifier) verifyRelativeLock(since Since, cell *CellMeta) error {
	if !since.IsRelative() {
		return nil
	}
	// The producing transaction is still in the mempool: a relative lock
	// cannot yet have matured.
	if cell.BlockInfo == nil {
		return ErrImmature
	}
	metric, value, ok := since.Metric()
	if !ok {
		return ErrInvalidSince
	}
	switch metric {
	case SinceMetricBlockNumber:
		if cell.BlockInfo.Number > ^uint64(0)-value {
			return ErrInvalidSince
		}
		if v.tipNumber < cell.BlockInfo.Number+value {
			return ErrImmature
		}
	case SinceMetricEpochNumber:
		if cell.BlockInfo.Epoch > ^uint64(0)-value {
			return ErrInvalidSince
		}
		if v.tipEpochNumber < cell.BlockInfo.Epoch+value {
			return ErrImmature
		}
	case SinceMetricTimestamp:
		tipTimestamp := v.medianTimes.blockMedianTime(saturatingSub1(v.tipNumber))
		cellTimestamp := v.medianTimes.blockMedianTime(saturatingSub1(cell.BlockInfo.Number))
		if cellTimestamp > ^uint64(0)-value {
			return ErrInvalidSince
		}
		if tipTimestamp < cellTimestamp+value {
			return ErrImmature
		}
	}
	return nil
}

func (v *SinceVerifier) Verify() error {
	inputs := v.rtx.Transaction.Inputs
	for i, cell := range v.rtx.ResolvedInputs {
		if cell == nil {
			continue
		}
		if inputs[i].Since == 0 {
			continue
		}
		since := Since(inputs[i].Since)
		if !since.FlagsValid() {
			return ErrInvalidSince
		}
		if err := v.verifyAbsoluteLock(since); err != nil {
			return err
		}
		if err := v.verifyRelativeLock(since, cell); err != nil {
			return err
		}
	}
	return nil
}
