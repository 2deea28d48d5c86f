package pcs

// OBMCLevel is the overlapped-block-motion-compensation aggressiveness,
// 0 (off) through 3 (most aggressive).
type OBMCLevel int

// HBDModeDecision controls high-bit-depth mode decision, 0 (8-bit path)
// through 2 (full high-bit-depth path).
type HBDModeDecision int

// SpeedToolSwitches holds the resolved boolean/tri-valued speed-tool
// settings MDC derives from enc-mode and content class (§4.3).
type SpeedToolSwitches struct {
	FilterIntra         bool
	HighPrecisionMV     bool
	WarpedMotion        bool
	SwitchableMotionMode bool
	OBMC                OBMCLevel
	HBDModeDecision     HBDModeDecision
	BypassCostTableGen  bool
	Palette             bool
	IntraBCHashing      bool

	// PrimaryRefFrame is the chosen primary reference index, or -1 if
	// none (e.g. for a key frame).
	PrimaryRefFrame int
}
