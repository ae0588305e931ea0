package txverify

// Cycle is the abstract cost unit the script engine reports.
type Cycle = uint64

// ContextualVerifier re-runs the two checks that are cheap enough to repeat
// every time the tip advances: maturity, then since. Used to re-validate
// previously-accepted mempool transactions against a new tip.
type ContextualVerifier struct {
	maturity *MaturityVerifier
	since    *SinceVerifier
}

func NewContextualVerifier(
	rtx *ResolvedTransaction,
	medianCtx MedianTimeContext,
	tipNumber, tipEpochNumber, cellbaseMaturity uint64,
) *ContextualVerifier {
	return &ContextualVerifier{
		maturity: NewMaturityVerifier(rtx, tipNumber, cellbaseMaturity),
		since:    NewSinceVerifier(rtx, medianCtx, tipNumber, tipEpochNumber),
	}
}

func (c *ContextualVerifier) Verify() error {
	if err := c.maturity.Verify(); err != nil {
		return err
	}
	return c.since.Verify()
}

// ContextualVerify is the package-level entry point for contextual
// verification: maturity, since.
func ContextualVerify(
	rtx *ResolvedTransaction,
	medianCtx MedianTimeContext,
	tipNumber, tipEpochNumber, cellbaseMaturity uint64,
) error {
	return NewContextualVerifier(rtx, medianCtx, tipNumber, tipEpochNumber, cellbaseMaturity).Verify()
}

// FullVerifier runs every check, in the fixed order the spec requires:
// version, empty, maturity, capacity, duplicate-deps, since, script. The
// order is observable — when multiple rules would fail, the error reported
// is always the one from the earliest check.
type FullVerifier struct {
	version       *VersionVerifier
	empty         *EmptyVerifier
	maturity      *MaturityVerifier
	capacity      *CapacityVerifier
	duplicateDeps *DuplicateDepsVerifier
	since         *SinceVerifier
	script        *ScriptVerifier
}

func NewFullVerifier(
	rtx *ResolvedTransaction,
	store ChainStore,
	medianCtx MedianTimeContext,
	tipNumber, tipEpochNumber, cellbaseMaturity uint64,
	engine ScriptEngine,
	scriptConfig *ScriptConfig,
) *FullVerifier {
	return &FullVerifier{
		version:       NewVersionVerifier(rtx.Transaction),
		empty:         NewEmptyVerifier(rtx.Transaction),
		maturity:      NewMaturityVerifier(rtx, tipNumber, cellbaseMaturity),
		capacity:      NewCapacityVerifier(rtx),
		duplicateDeps: NewDuplicateDepsVerifier(rtx.Transaction),
		since:         NewSinceVerifier(rtx, medianCtx, tipNumber, tipEpochNumber),
		script:        NewScriptVerifier(rtx, store, engine, scriptConfig),
	}
}

func (f *FullVerifier) Verify(maxCycles uint64) (Cycle, error) {
	if err := f.version.Verify(); err != nil {
		return 0, err
	}
	if err := f.empty.Verify(); err != nil {
		return 0, err
	}
	if err := f.maturity.Verify(); err != nil {
		return 0, err
	}
	if err := f.capacity.Verify(); err != nil {
		return 0, err
	}
	if err := f.duplicateDeps.Verify(); err != nil {
		return 0, err
	}
	if err := f.since.Verify(); err != nil {
		return 0, err
	}
	return f.script.Verify(maxCycles)
}

// FullVerify is the package-level entry point for full verification:
// version, empty, maturity, capacity, duplicate-deps, since, script.
func FullVerify(
	rtx *ResolvedTransaction,
	store ChainStore,
	medianCtx MedianTimeContext,
	tipNumber, tipEpochNumber, cellbaseMaturity uint64,
	engine ScriptEngine,
	scriptConfig *ScriptConfig,
	maxCycles uint64,
) (Cycle, error) {
	return NewFullVerifier(rtx, store, medianCtx, tipNumber, tipEpochNumber, cellbaseMaturity, engine, scriptConfig).Verify(maxCycles)
}
