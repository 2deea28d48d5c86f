package analysis

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

func TestAnalyzePictureFlatPlaneHasZeroVarianceAndNoise(t *testing.T) {
	p := flatPlane(32, 32, 128)
	stats, ref := AnalyzePicture(p, 7)
	if stats.Variance != 0 {
		t.Fatalf("flat plane should have zero variance, got %v", stats.Variance)
	}
	if stats.Noise != 0 {
		t.Fatalf("flat plane should have zero high-frequency noise estimate, got %v", stats.Noise)
	}
	if stats.Mean != 128 {
		t.Fatalf("got mean %v, want 128", stats.Mean)
	}
	if ref.OrderHint != 7 {
		t.Fatalf("got order hint %d, want 7", ref.OrderHint)
	}
	if ref.Luma4.Width != 8 || ref.Luma16.Width != 2 {
		t.Fatalf("got luma4 width %d luma16 width %d, want 8 and 2", ref.Luma4.Width, ref.Luma16.Width)
	}
}

func TestAnalyzePictureHistogramSumsToPixelCount(t *testing.T) {
	p := flatPlane(16, 16, 50)
	stats, _ := AnalyzePicture(p, 0)
	var sum uint32
	for _, c := range stats.Histogram {
		sum += c
	}
	if sum != 16*16 {
		t.Fatalf("got histogram sum %d, want %d", sum, 16*16)
	}
	if stats.Histogram[50] != 16*16 {
		t.Fatalf("expected all pixels bucketed at value 50, got %d", stats.Histogram[50])
	}
}

func TestAnalyzePictureDetectsNoiseOnAlternatingPattern(t *testing.T) {
	d := make([]byte, 32*32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if x%2 == 0 {
				d[y*32+x] = 0
			} else {
				d[y*32+x] = 255
			}
		}
	}
	p := pcs.Plane{Data: d, Width: 32, Height: 32, Stride: 32}
	stats, _ := AnalyzePicture(p, 0)
	if stats.Noise == 0 {
		t.Fatalf("expected nonzero noise estimate on a high-frequency alternating pattern")
	}
}
