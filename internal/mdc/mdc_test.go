package mdc

import (
	"testing"

	"github.com/ausocean/av1enc-core/pcs"
)

func TestMeshPatternClampsOutOfRangeSpeed(t *testing.T) {
	if MeshPattern(-1) != MeshPattern(0) {
		t.Fatalf("negative speed should clamp to 0")
	}
	if MeshPattern(99) != MeshPattern(5) {
		t.Fatalf("over-range speed should clamp to 5")
	}
}

func TestIntraBCMeshPatternMatchesKnownReferenceValues(t *testing.T) {
	got := IntraBCMeshPattern(3)
	want := [4]MeshStage{{256, 1}, {256, 1}, {0, 0}, {0, 0}}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMaxExhaustivePercentMonotonicWithSpeed(t *testing.T) {
	prev := MaxExhaustivePercent(0)
	for s := 1; s <= 5; s++ {
		cur := MaxExhaustivePercent(s)
		if cur < prev {
			t.Fatalf("expected non-decreasing exhaustive budget, speed %d got %d after %d", s, cur, prev)
		}
		prev = cur
	}
}

func TestBuildQuantTablesReplicatesACAcrossLanes(t *testing.T) {
	tables := BuildQuantTables()
	for plane := 0; plane < pcs.NumPlanes; plane++ {
		pq := tables.Planes[plane][128]
		for lane := 2; lane < pcs.SIMDLanes; lane++ {
			if pq.Quant[lane] != pq.Quant[1] {
				t.Fatalf("plane %d lane %d quant %d != lane 1 quant %d", plane, lane, pq.Quant[lane], pq.Quant[1])
			}
			if pq.DequantQtx[lane] != pq.DequantQtx[1] {
				t.Fatalf("plane %d lane %d dequant %d != lane 1 dequant %d", plane, lane, pq.DequantQtx[lane], pq.DequantQtx[1])
			}
		}
	}
}

func TestBuildQuantTablesRoundMatchesQRoundingFactorFormula(t *testing.T) {
	tables := BuildQuantTables()

	for _, q := range []int{0, 1, 128} {
		pq := tables.Planes[0][q]
		dcQuant := quantFromDequant(dcQLookup8(q))
		wantRound := int16((qroundingFactor(q) * int32(dcQuant)) >> 7)
		if pq.Round[0] != wantRound {
			t.Fatalf("q index %d: round = %d, want (qrounding_factor*quant_qtx)>>7 = %d", q, pq.Round[0], wantRound)
		}
	}

	if qroundingFactor(0) != 64 {
		t.Fatalf("q index 0 must use qrounding_factor 64, got %d", qroundingFactor(0))
	}
	if qroundingFactor(1) != 48 {
		t.Fatalf("nonzero q index must use qrounding_factor 48, got %d", qroundingFactor(1))
	}
}

func TestBuildQuantTablesZbinMatchesQZbinFactorFormula(t *testing.T) {
	tables := BuildQuantTables()

	for _, q := range []int{0, 1, 200} {
		pq := tables.Planes[0][q]
		dc := dcQLookup8(q)
		dcQuant := quantFromDequant(dc)
		wantZbin := int16(roundPowerOfTwo(qzbinFactor(q, dc)*int32(dcQuant), 7))
		if pq.Zbin[0] != wantZbin {
			t.Fatalf("q index %d: zbin = %d, want ROUND_POWER_OF_TWO(qzbin_factor*quant_qtx,7) = %d", q, pq.Zbin[0], wantZbin)
		}
	}
}

func TestBuildQualityMatrixSetLastLevelIsOff(t *testing.T) {
	var source [pcs.NumPlanes][pcs.NumTxSizesAll]pcs.QMatrix
	source[0][2] = pcs.QMatrix{GQM: []uint8{1, 2, 3}, GIQM: []uint8{4, 5, 6}}
	set := BuildQualityMatrixSet(source)
	for plane := 0; plane < pcs.NumPlanes; plane++ {
		for tx := 0; tx < pcs.NumTxSizesAll; tx++ {
			if set.Levels[qmOffLevel][plane][tx].GQM != nil {
				t.Fatalf("level %d must be all-off", qmOffLevel)
			}
		}
	}
	if set.Levels[0][0][2].GQM == nil {
		t.Fatalf("expected level 0 to carry the populated source entry")
	}
}

func TestResolveLevelClamps(t *testing.T) {
	if ResolveLevel(-1) != 0 {
		t.Fatalf("negative strength should clamp to 0")
	}
	if ResolveLevel(999) != qmOffLevel {
		t.Fatalf("over-range strength should clamp to off level")
	}
}

func TestFinalizeGlobalMotionLeavesUntouchedSlotsIdentity(t *testing.T) {
	var raw [pcs.NumRefFrames]pcs.GlobalMotionParams
	raw[0] = pcs.GlobalMotionParams{Model: pcs.GMAffine, WMMat: [8]int32{10, 20, 1 << 16, 0, 0, 1 << 16, 0, 0}}
	out := FinalizeGlobalMotion(raw, 2)
	if out[0].Model != pcs.GMAffine {
		t.Fatalf("populated slot must keep its model")
	}
	for i := 1; i < pcs.NumRefFrames; i++ {
		if out[i].Model != pcs.GMIdentity {
			t.Fatalf("slot %d untouched by ME must resolve to identity, got %v", i, out[i].Model)
		}
		if out[i].WMMat[2] != 1<<16 || out[i].WMMat[5] != 1<<16 {
			t.Fatalf("slot %d identity model must have unit diagonal", i)
		}
	}
}

func TestMarkGlobalMotionReferencesOnlyFlagsRotZoomAndAffine(t *testing.T) {
	var refs [pcs.NumRefFrames]pcs.ReferenceListEntry
	var gm [pcs.NumRefFrames]pcs.GlobalMotionParams
	gm[0].Model = pcs.GMIdentity
	gm[1].Model = pcs.GMTranslation
	gm[2].Model = pcs.GMRotZoom
	gm[3].Model = pcs.GMAffine
	MarkGlobalMotionReferences(&refs, gm)
	if refs[0].IsGlobalMotion || refs[1].IsGlobalMotion {
		t.Fatalf("identity/translation must not be marked global-motion")
	}
	if !refs[2].IsGlobalMotion || !refs[3].IsGlobalMotion {
		t.Fatalf("rotzoom/affine must be marked global-motion")
	}
}

func TestResolveFrameContextBuildsFreshForKeyFrame(t *testing.T) {
	fc := ResolveFrameContext(nil, 128)
	if fc.CopiedFromPrimaryRef {
		t.Fatalf("key frame must not claim to be copied from a primary reference")
	}
	if fc.SGFrameEP[0] != -1 || fc.SGFrameEP[1] != -1 {
		t.Fatalf("key frame must run all self-guided-filter iterations, got %+v", fc.SGFrameEP)
	}
}

func TestResolveFrameContextCopiesFromPrimaryRef(t *testing.T) {
	primary := &pcs.FrameContext{CoefProbs: []byte{1, 2, 3}, SGFrameEP: [2]int8{5, 6}}
	fc := ResolveFrameContext(primary, 64)
	if !fc.CopiedFromPrimaryRef {
		t.Fatalf("expected CopiedFromPrimaryRef true")
	}
	if fc.SGFrameEP != primary.SGFrameEP {
		t.Fatalf("expected SGFrameEP copied from primary reference")
	}
}

func TestBuildRateTablesOmitsMVRateForFirstPass(t *testing.T) {
	fc := defaultFrameContext(96)
	rt := BuildRateTables(fc, true)
	if rt.MVRate != nil {
		t.Fatalf("first-pass rate tables must omit MV rate")
	}
	full := BuildRateTables(fc, false)
	if full.MVRate == nil {
		t.Fatalf("non-first-pass rate tables must include MV rate")
	}
}

func TestResolveCDFUpdateModeNeverUpdatesMVForIntraSlice(t *testing.T) {
	for speed := 0; speed <= 5; speed++ {
		mode := ResolveCDFUpdateMode(speed, pcs.SliceIntra)
		if mode.UpdatesMV() {
			t.Fatalf("speed %d: intra slice must never select an MV-updating CDF mode", speed)
		}
	}
}

func TestResolveCDFUpdateModeUpdatesMVForInterAtSlowPresets(t *testing.T) {
	mode := ResolveCDFUpdateMode(0, pcs.SliceInter)
	if !mode.UpdatesMV() {
		t.Fatalf("expected slowest preset (speed 0) on an inter slice to update MV CDF")
	}
}

func TestResolveCDFUpdateModeReachesNoneAtFastestInterPreset(t *testing.T) {
	mode := ResolveCDFUpdateMode(5, pcs.SliceInter)
	if mode != pcs.CDFUpdateNone {
		t.Fatalf("expected fastest preset (speed 5) on an inter slice to reach CDFUpdateNone, got %v", mode)
	}
}

func TestResolveSpeedToolsDisablesWarpedMotionForIntraSlice(t *testing.T) {
	s := ResolveSpeedTools(0, pcs.SliceIntra, ContentCamera, -1, 1920, 1080, 128, false, false)
	if s.WarpedMotion {
		t.Fatalf("intra slice must never enable warped motion")
	}
}

func TestResolveSpeedToolsForcesPaletteForScreenContent(t *testing.T) {
	s := ResolveSpeedTools(5, pcs.SliceInter, ContentScreen, 0, 1280, 720, 128, false, false)
	if !s.Palette {
		t.Fatalf("screen content must force palette mode regardless of preset")
	}
}

func TestResolveSpeedToolsHighPrecisionMVRequiresSub480pAndLowQIndex(t *testing.T) {
	s := ResolveSpeedTools(0, pcs.SliceInter, ContentCamera, 0, 640, 360, 64, false, false)
	if !s.HighPrecisionMV {
		t.Fatalf("expected high-precision MV enabled below 480p and below the q-idx threshold")
	}
	s = ResolveSpeedTools(0, pcs.SliceInter, ContentCamera, 0, 1920, 1080, 64, false, false)
	if s.HighPrecisionMV {
		t.Fatalf("expected high-precision MV disabled at/above 480p")
	}
	s = ResolveSpeedTools(0, pcs.SliceInter, ContentCamera, 0, 640, 360, 220, false, false)
	if s.HighPrecisionMV {
		t.Fatalf("expected high-precision MV disabled above the q-idx threshold")
	}
}

func TestResolveSpeedToolsDisablesWarpedMotionForErrorResilientAndSuperres(t *testing.T) {
	s := ResolveSpeedTools(0, pcs.SliceInter, ContentCamera, 0, 1920, 1080, 64, true, false)
	if s.WarpedMotion {
		t.Fatalf("error-resilient mode must disable warped motion")
	}
	s = ResolveSpeedTools(0, pcs.SliceInter, ContentCamera, 0, 1920, 1080, 64, false, true)
	if s.WarpedMotion {
		t.Fatalf("active super-resolution must disable warped motion")
	}
}

func TestGetRelativeDistHandlesWraparound(t *testing.T) {
	const bits = 7 // order hints modulo 128.
	d := GetRelativeDist(2, 125, bits)
	if d != 5 {
		t.Fatalf("got %d, want 5 (2 - 125 wraps to +5 mod 128 signed)", d)
	}
}

func TestProjectMotionFieldRejectsBeyondMaxFrameDistance(t *testing.T) {
	refMVs := []pcs.MEResult{{SBIndex: 0, Candidates: [][]pcs.CandidateMV{{{Vector: pcs.MV{Row: 8, Col: 8}}}}}}
	grid := ProjectMotionField(refMVs, 4, 4, 50, 1, 0)
	if grid[0].Valid {
		t.Fatalf("projection beyond maxFrameDistance must be rejected")
	}
}

func TestProjectMotionFieldScalesVector(t *testing.T) {
	refMVs := []pcs.MEResult{{SBIndex: 0, Candidates: [][]pcs.CandidateMV{{{Vector: pcs.MV{Row: 8, Col: 16}}}}}}
	grid := ProjectMotionField(refMVs, 4, 4, 2, 1, 3)
	if !grid[0].Valid {
		t.Fatalf("expected slot 0 to be populated")
	}
	if grid[0].MVRow != 16 || grid[0].MVCol != 32 {
		t.Fatalf("got row=%d col=%d, want scaled by 2: row=16 col=32", grid[0].MVRow, grid[0].MVCol)
	}
	if grid[0].RefFrameOffset != 3 {
		t.Fatalf("expected RefFrameOffset to be carried through, got %d", grid[0].RefFrameOffset)
	}
}

func TestBuildIBCHashTableFindsDuplicateBlocks(t *testing.T) {
	luma := pcs.Plane{Width: 16, Height: 16, Stride: 16, Data: make([]byte, 16*16)}
	for i := range luma.Data {
		luma.Data[i] = byte(i % 7)
	}
	table, err := BuildIBCHashTable(luma, 16, 16)
	if err != nil {
		t.Fatalf("BuildIBCHashTable() error = %v", err)
	}
	block := extractBlock(luma, 0, 0, 4)
	crcA := crc24(block, crc24PolyA)
	crcB := crc24(block, crc24PolyB)
	matches := table.Lookup(0, crcA, crcB)
	if len(matches) < 2 {
		t.Fatalf("expected the block at (0,0) to match at least one duplicate position besides itself, got %d matches", len(matches))
	}
}

func TestBuildIBCHashTableRejectsRegionLargerThanPlane(t *testing.T) {
	luma := pcs.Plane{Width: 8, Height: 8, Stride: 8, Data: make([]byte, 8*8)}
	if _, err := BuildIBCHashTable(luma, 16, 16); err == nil {
		t.Fatalf("BuildIBCHashTable() with an oversized decoded region = nil error, want one")
	}
}

func TestCrc24DiffersForDifferentPolynomials(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if crc24(data, crc24PolyA) == crc24(data, crc24PolyB) {
		t.Fatalf("the two CRC polynomials collided on a representative input, reducing hash discrimination")
	}
}
