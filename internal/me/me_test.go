package me

import (
	"testing"

	"github.com/ausocean/av1enc-core/pcs"
)

func flatPlane(w, h int, v byte) pcs.Plane {
	d := make([]byte, w*h)
	for i := range d {
		d[i] = v
	}
	return pcs.Plane{Data: d, Width: w, Height: h, Stride: w}
}

func shiftedPlane(base pcs.Plane, dx, dy int, fill byte) pcs.Plane {
	d := make([]byte, base.Width*base.Height)
	for i := range d {
		d[i] = fill
	}
	dst := pcs.Plane{Data: d, Width: base.Width, Height: base.Height, Stride: base.Width}
	for y := 0; y < base.Height; y++ {
		sy := y + dy
		if sy < 0 || sy >= base.Height {
			continue
		}
		for x := 0; x < base.Width; x++ {
			sx := x + dx
			if sx < 0 || sx >= base.Width {
				continue
			}
			dst.Data[sy*dst.Stride+sx] = base.Data[y*base.Stride+x]
		}
	}
	return dst
}

func checkerboard(w, h int) pcs.Plane {
	d := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				d[y*w+x] = 200
			} else {
				d[y*w+x] = 40
			}
		}
	}
	return pcs.Plane{Data: d, Width: w, Height: h, Stride: w}
}

func TestLambdaIncreasesWithQP(t *testing.T) {
	lo := Lambda(StructureRandomAccess, 0, 32)
	hi := Lambda(StructureRandomAccess, 0, 200)
	if hi <= lo {
		t.Fatalf("expected lambda to increase with QP, got lo=%v hi=%v", lo, hi)
	}
}

func TestLambdaLowDelayLayerZeroCheaperThanOther(t *testing.T) {
	base := Lambda(StructureLowDelay, 0, 100)
	other := Lambda(StructureLowDelay, 2, 100)
	if base >= other {
		t.Fatalf("expected low-delay base layer lambda below other layers, got base=%v other=%v", base, other)
	}
}

func TestDecimate4xReducesDimensions(t *testing.T) {
	src := checkerboard(64, 64)
	dst := Decimate4x(src, DecimationDropped)
	if dst.Width != 16 || dst.Height != 16 {
		t.Fatalf("got %dx%d, want 16x16", dst.Width, dst.Height)
	}
}

func TestDecimate16xReducesDimensions(t *testing.T) {
	src := checkerboard(64, 64)
	dst := Decimate16x(src, DecimationFiltered)
	if dst.Width != 4 || dst.Height != 4 {
		t.Fatalf("got %dx%d, want 4x4", dst.Width, dst.Height)
	}
}

func TestDecimateHandlesSubFactorDimensions(t *testing.T) {
	src := checkerboard(8, 8)
	dst := Decimate16x(src, DecimationDropped)
	if dst.Width != 1 || dst.Height != 1 {
		t.Fatalf("got %dx%d, want 1x1 floor", dst.Width, dst.Height)
	}
}

func TestPreHMESeedZeroWhenDisabled(t *testing.T) {
	ref := checkerboard(32, 32)
	cur := shiftedPlane(ref, 3, -2, 0)
	mv := PreHMESeed(ref, cur, 0, 8, 0)
	if mv != (pcs.MV{}) {
		t.Fatalf("expected zero MV when PreHMELevel is 0, got %+v", mv)
	}
}

func TestPreHMESeedFindsKnownShift(t *testing.T) {
	ref := checkerboard(64, 64)
	cur := shiftedPlane(ref, 4, -4, 0)
	mv := PreHMESeed(ref, cur, 0, 8, 1)
	if int(mv.Col) != 4 || int(mv.Row) != -4 {
		t.Fatalf("got %+v, want col=4 row=-4", mv)
	}
}

func TestBuildRegionsCoversWholeGridAndDividesSearchArea(t *testing.T) {
	p := DefaultHMEParams()
	regions := p.BuildRegions(128, 64)
	if len(regions) != p.RegionsWidth*p.RegionsHeight {
		t.Fatalf("got %d regions, want %d", len(regions), p.RegionsWidth*p.RegionsHeight)
	}
	for _, r := range regions {
		if r.Max.Width != p.Level0Max.Width/p.RegionsWidth {
			t.Fatalf("region max width %d not evenly divided", r.Max.Width)
		}
	}
	last := regions[len(regions)-1]
	if last.ColEnd != 128 || last.RowEnd != 64 {
		t.Fatalf("grid does not reach picture bounds: got colEnd=%d rowEnd=%d", last.ColEnd, last.RowEnd)
	}
}

func TestShrinkForStationaryDividesNominal(t *testing.T) {
	p := DefaultHMEParams()
	r := HMERegion{Nominal: SearchArea{Width: 64, Height: 64}}
	shrunk := p.ShrinkForStationary(r)
	if shrunk.Width != 8 || shrunk.Height != 8 {
		t.Fatalf("got %+v, want 8x8 with divisor 8", shrunk)
	}
}

func TestSearchFindsKnownIntegerShift(t *testing.T) {
	ref := checkerboard(48, 48)
	cur := shiftedPlane(ref, 2, 3, 0)
	params := DefaultFullMEParams()
	params.SubPelEnabled = false
	// The checkerboard repeats every 8 pixels, so the window is kept below
	// that period to leave the true shift as the only exact match.
	params.Window = SearchArea{Width: 3, Height: 3}
	mv, sad := Search(ref, cur, 16, 16, 16, 16, pcs.MV{}, params)
	// cur(x, y) = ref(x-2, y-3); MVs are in 1/8 pel and point from cur to ref.
	if int(mv.Col) != -16 || int(mv.Row) != -24 {
		t.Fatalf("got mv=%+v, want col=-16 row=-24", mv)
	}
	if sad != 0 {
		t.Fatalf("expected zero SAD at exact match, got %d", sad)
	}
}

func TestSearchZeroSADOnIdenticalFlatBlocks(t *testing.T) {
	ref := flatPlane(32, 32, 128)
	cur := flatPlane(32, 32, 128)
	params := DefaultFullMEParams()
	_, sad := Search(ref, cur, 8, 8, 8, 8, pcs.MV{}, params)
	if sad != 0 {
		t.Fatalf("expected zero SAD for identical flat blocks, got %d", sad)
	}
}

func TestPruneReferencesAlwaysKeepsBest(t *testing.T) {
	hmeSAD := []uint32{500, 100, 900}
	kept := PruneReferences(hmeSAD, RefPruneLevel6)
	found := false
	for _, i := range kept {
		if i == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("best reference (index 1) must survive pruning, got %v", kept)
	}
}

func TestPruneReferencesNoneKeepsAll(t *testing.T) {
	hmeSAD := []uint32{500, 100, 900, 50000}
	kept := PruneReferences(hmeSAD, RefPruneNone)
	if len(kept) != len(hmeSAD) {
		t.Fatalf("RefPruneNone should keep all references, got %d of %d", len(kept), len(hmeSAD))
	}
}

func TestPruneReferencesHigherLevelPrunesMoreAggressively(t *testing.T) {
	hmeSAD := []uint32{100, 140, 200, 400}
	kept1 := PruneReferences(hmeSAD, RefPruneLevel1)
	kept6 := PruneReferences(hmeSAD, RefPruneLevel6)
	if len(kept6) > len(kept1) {
		t.Fatalf("level 6 kept more references than level 1: %d vs %d", len(kept6), len(kept1))
	}
}

func TestPruneCandidatesTruncatesAndSortsBySAD(t *testing.T) {
	cands := []pcs.CandidateMV{
		{SAD: 50}, {SAD: 10}, {SAD: 900}, {SAD: 30}, {SAD: 5},
	}
	pruned := PruneCandidates(cands)
	if len(pruned) != pcs.MaxCandidatesPerRef {
		t.Fatalf("got %d candidates, want %d", len(pruned), pcs.MaxCandidatesPerRef)
	}
	for i := 1; i < len(pruned); i++ {
		if pruned[i].SAD < pruned[i-1].SAD {
			t.Fatalf("candidates not sorted ascending by SAD: %+v", pruned)
		}
	}
}

func TestAdjustWindowOffReturnsUnchanged(t *testing.T) {
	w := SearchArea{Width: 64, Height: 64}
	got := AdjustWindow(w, 10, 1000, false, SRAdjustOff)
	if got != w {
		t.Fatalf("SRAdjustOff must not change window, got %+v", got)
	}
}

func TestAdjustWindowLevel1Halves(t *testing.T) {
	w := SearchArea{Width: 64, Height: 32}
	got := AdjustWindow(w, 10, 1000, false, SRAdjustLevel1)
	if got.Width != 32 || got.Height != 16 {
		t.Fatalf("got %+v, want halved to 32x16", got)
	}
}

func TestAdjustWindowLevel3ShrinksFurtherForZeroMV(t *testing.T) {
	w := SearchArea{Width: 64, Height: 64}
	withMotion := AdjustWindow(w, 10, 1000, false, SRAdjustLevel3)
	stationary := AdjustWindow(w, 10, 1000, true, SRAdjustLevel3)
	if stationary.Width >= withMotion.Width {
		t.Fatalf("stationary zero-MV window should shrink further: stationary=%+v withMotion=%+v", stationary, withMotion)
	}
}

func TestAdjustWindowIgnoredAboveThreshold(t *testing.T) {
	w := SearchArea{Width: 64, Height: 64}
	got := AdjustWindow(w, 5000, 1000, false, SRAdjustLevel2)
	if got != w {
		t.Fatalf("window should be unchanged when HME SAD exceeds threshold, got %+v", got)
	}
}

func TestResolveTFParamsSplitsAtHDBoundary(t *testing.T) {
	low := ResolveTFParams(640, 480)
	high := ResolveTFParams(3840, 2160)
	if low.HMEWindow.Width >= high.HMEWindow.Width {
		t.Fatalf("expected larger HME window for higher resolution, low=%+v high=%+v", low, high)
	}
}

func TestDistanceWeightDecaysWithDistanceAndFloors(t *testing.T) {
	near := DistanceWeight(0)
	far := DistanceWeight(100)
	if far >= near {
		t.Fatalf("weight should decay with distance, near=%d far=%d", near, far)
	}
	if far != 2 {
		t.Fatalf("expected weight to floor at 2, got %d", far)
	}
}

func TestRunFirstPassZeroMotionForStaticScene(t *testing.T) {
	ref := checkerboard(32, 32)
	cur := checkerboard(32, 32)
	stats := RunFirstPass(ref, cur)
	if stats.SumZeroMotionSSD != 0 {
		t.Fatalf("expected zero SSD on identical frames, got %d", stats.SumZeroMotionSSD)
	}
	if stats.SumBestMotionSSD != stats.SumZeroMotionSSD {
		t.Fatalf("best-motion SSD should match zero-motion SSD when scene is static")
	}
}

func TestRunFirstPassDetectsShift(t *testing.T) {
	ref := checkerboard(32, 32)
	cur := shiftedPlane(ref, 1, 0, 40)
	stats := RunFirstPass(ref, cur)
	if stats.SumBestMotionSSD >= stats.SumZeroMotionSSD {
		t.Fatalf("best-motion search should find the shift and beat zero motion: best=%d zero=%d",
			stats.SumBestMotionSSD, stats.SumZeroMotionSSD)
	}
}

func TestRunFirstPassBlockCountMatchesGrid(t *testing.T) {
	cur := checkerboard(33, 17)
	ref := checkerboard(33, 17)
	stats := RunFirstPass(ref, cur)
	wantCols := (33 + firstPassBlockSize - 1) / firstPassBlockSize
	wantRows := (17 + firstPassBlockSize - 1) / firstPassBlockSize
	if len(stats.Blocks) != wantCols*wantRows {
		t.Fatalf("got %d blocks, want %d", len(stats.Blocks), wantCols*wantRows)
	}
}
