package pcs

// NumQMLevels is the number of quality-matrix levels; the last level is
// "off" (nil matrix pointers).
const NumQMLevels = 16

// NumTxSizesAll is the number of AV1 transform sizes tracked for quality
// matrices.
const NumTxSizesAll = 19

// QMatrix is a forward/inverse quantization-matrix pair. Both point into
// a shared, read-only table; sizes that share a matrix with a larger
// size (per av1_get_adjusted_tx_size) reuse the same pointer rather than
// duplicating data.
type QMatrix struct {
	GQM  []uint8 // Forward quantization matrix, nil if this level/size is off.
	GIQM []uint8 // Inverse quantization matrix, nil if off.
}

// QualityMatrixSet holds, for every (level, plane, tx size), the selected
// QMatrix.
type QualityMatrixSet struct {
	Levels [NumQMLevels][NumPlanes][NumTxSizesAll]QMatrix
}
