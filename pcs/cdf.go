package pcs

// CDFUpdateMode is one of the four CDF-update modes MDC derives from
// preset and slice type (§4.3).
type CDFUpdateMode int

const (
	// CDFUpdateNone performs no CDF updates.
	CDFUpdateNone CDFUpdateMode = iota
	// CDFUpdateMVSyntaxCoef updates MV, syntax-element, and coefficient
	// CDFs. Never selected for I-slices (§8 invariant: I-slices never
	// update MV).
	CDFUpdateMVSyntaxCoef
	// CDFUpdateSyntaxCoef updates syntax-element and coefficient CDFs.
	CDFUpdateSyntaxCoef
	// CDFUpdateSyntaxOnly updates syntax-element CDFs only.
	CDFUpdateSyntaxOnly
)

// UpdatesMV reports whether this mode updates the MV CDF.
func (m CDFUpdateMode) UpdatesMV() bool { return m == CDFUpdateMVSyntaxCoef }
