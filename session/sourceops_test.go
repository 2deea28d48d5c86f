/*
NAME
  sourceops_test.go

DESCRIPTION
  sourceops_test.go exercises deriveTPLImportance in isolation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"testing"

	"github.com/ausocean/av1enc-core/pcs"
)

func newTestSessionForSourceOps(enableTPL bool) *Session {
	return &Session{scs: &pcs.SequenceControlSet{EnableTPL: enableTPL}}
}

func TestDeriveTPLImportanceSkippedWhenTPLDisabled(t *testing.T) {
	s := newTestSessionForSourceOps(false)
	job := &pictureJob{ppcs: &pcs.ParentPictureControlSet{
		MEResults: []pcs.MEResult{{Variance: 100}},
	}}
	s.deriveTPLImportance(job)
	if job.ppcs.TPLData != nil {
		t.Fatalf("TPLData = %v, want nil when EnableTPL is false", job.ppcs.TPLData)
	}
}

func TestDeriveTPLImportanceSkippedForFirstPass(t *testing.T) {
	s := newTestSessionForSourceOps(true)
	job := &pictureJob{
		isFirstPass: true,
		ppcs: &pcs.ParentPictureControlSet{
			MEResults: []pcs.MEResult{{Variance: 100}},
		},
	}
	s.deriveTPLImportance(job)
	if job.ppcs.TPLData != nil {
		t.Fatalf("TPLData = %v, want nil for a first-pass job", job.ppcs.TPLData)
	}
}

func TestDeriveTPLImportancePopulatesFromVariance(t *testing.T) {
	s := newTestSessionForSourceOps(true)
	job := &pictureJob{ppcs: &pcs.ParentPictureControlSet{
		MEResults: []pcs.MEResult{{Variance: 10}, {Variance: 20}},
	}}
	s.deriveTPLImportance(job)
	want := []float64{10, 20}
	if len(job.ppcs.TPLData) != len(want) {
		t.Fatalf("TPLData = %v, want %v", job.ppcs.TPLData, want)
	}
	for i := range want {
		if job.ppcs.TPLData[i] != want[i] {
			t.Errorf("TPLData[%d] = %v, want %v", i, job.ppcs.TPLData[i], want[i])
		}
	}
}
