package pcs

// FrameContext holds the CDF/entropy-probability context a picture starts
// coding from: either copied from the primary reference frame's context,
// or built from AV1-default coefficient probabilities at the picture's
// base q index (§4.3).
type FrameContext struct {
	// CoefProbs/ModeProbs are opaque probability tables; entropy coding
	// itself is out of scope, so these are carried as byte slices sized
	// to the default tables rather than modeled symbol-by-symbol.
	CoefProbs []byte
	ModeProbs []byte

	// CopiedFromPrimaryRef records whether this context was copied from
	// a primary reference frame (true) or built fresh from AV1 defaults
	// (false), per §4.3's frame-context-initialization rule.
	CopiedFromPrimaryRef bool

	// SGFrameEP holds the reference self-guided-filter seed for each of
	// the two SGF passes; -1 means "perform all iterations" (used for
	// I-slices), otherwise pulled from the reconstructed reference's
	// sg_frame_ep.
	SGFrameEP [2]int8
}

// RateTables holds the syntax-rate, MV-rate, and coefficient-rate tables
// derived from a FrameContext. MVRate is omitted (nil) for first-pass
// pictures per §4.3.
type RateTables struct {
	SyntaxRate []uint32
	MVRate     []uint32
	CoefRate   []uint32
}
