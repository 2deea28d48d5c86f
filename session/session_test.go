/*
NAME
  session_test.go

DESCRIPTION
  session_test.go exercises the full stage graph end to end, the same
  style as revid_test.go's integration coverage of revid.Revid, but
  driving the pipeline with synthetic luma planes instead of a real
  input device.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"testing"

	"github.com/ausocean/av1enc-core/config"
	"github.com/ausocean/av1enc-core/pcs"
)

type testLogger struct{}

func (l *testLogger) Log(lvl int8, msg string, args ...interface{})  {}
func (l *testLogger) SetLevel(lvl int8)                              {}
func (l *testLogger) Debug(msg string, args ...interface{})          {}
func (l *testLogger) Info(msg string, args ...interface{})           {}
func (l *testLogger) Warning(msg string, args ...interface{})        {}
func (l *testLogger) Error(msg string, args ...interface{})          {}
func (l *testLogger) Fatal(msg string, args ...interface{})          {}

func baseSessionConfig() config.Config {
	return config.Config{
		Logger:             &testLogger{},
		Width:              64,
		Height:             64,
		BitDepth:           8,
		FrameRate:          30,
		EncMode:            9,
		HierarchicalLevels: 1,
		QP:                 32,
		LogicalProcessors:  1,
	}
}

// solidPlane returns a Width x Height luma plane filled with a constant
// sample value, enough variation between calls (via fill) to exercise
// Picture Analysis' stats without needing a real decoded picture.
func solidPlane(width, height int, fill byte) pcs.Plane {
	data := make([]byte, width*height)
	for i := range data {
		data[i] = fill
	}
	return pcs.Plane{Width: width, Height: height, Stride: width, Data: data}
}

func TestSessionEndToEndProducesOneMiniGOPPlusEOS(t *testing.T) {
	cfg := baseSessionConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.EncInit(); err != nil {
		t.Fatalf("EncInit() error = %v", err)
	}
	defer s.EncDeinit()

	if _, err := s.StreamHeader(); err != nil {
		t.Fatalf("StreamHeader() error = %v", err)
	}

	const pictures = 2 // One full mini-GOP at HierarchicalLevels=1.
	for i := 0; i < pictures; i++ {
		in := InputBuffer{
			Format: PixelFormat8Bit,
			Y:      solidPlane(64, 64, byte(16+i*32)),
			PTS:    int64(i),
		}
		if err := s.SendPicture(in); err != nil {
			t.Fatalf("SendPicture(%d) error = %v", i, err)
		}
	}
	if err := s.SendPicture(InputBuffer{EOS: true}); err != nil {
		t.Fatalf("SendPicture(EOS) error = %v", err)
	}

	var got []Packet
	for {
		p, err := s.GetPacket(true)
		if err != nil {
			t.Fatalf("GetPacket() error = %v", err)
		}
		got = append(got, p)
		if p.Flags.IsEOS() {
			break
		}
		if p.Flags.IsFatal() {
			t.Fatalf("GetPacket() returned a fatal packet")
		}
	}

	if len(got) != pictures+1 {
		t.Fatalf("got %d packets (incl. EOS), want %d", len(got), pictures+1)
	}
	for _, p := range got[:pictures] {
		if p.PPCS == nil {
			t.Fatalf("packet missing PPCS")
		}
		if p.CPCS == nil {
			t.Fatalf("packet missing CPCS")
		}
		if p.CPCS.FrameContext == nil {
			t.Fatalf("packet CPCS missing FrameContext")
		}
		if p.CPCS.QuantTables == nil {
			t.Fatalf("packet CPCS missing QuantTables")
		}
		s.ReleaseOutBuffer(p)
	}
	if !got[pictures].Flags.IsEOS() {
		t.Fatalf("final packet is not flagged EOS")
	}
}

// TestSetParameterRejectedAfterEncInit does not tear the session down:
// EncDeinit's stage-by-stage Stop() only returns once every worker has
// drained its EOS job, and no picture was ever sent here for the stages
// to drain.
func TestSetParameterRejectedAfterEncInit(t *testing.T) {
	cfg := baseSessionConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.EncInit(); err != nil {
		t.Fatalf("EncInit() error = %v", err)
	}

	if err := s.SetParameter(cfg); err == nil {
		t.Fatalf("SetParameter() after EncInit = nil error, want an error")
	}
}

// TestGetPacketNonBlockingReturnsEmptyQueue likewise leaves the session
// running rather than tearing it down, for the same reason.
func TestGetPacketNonBlockingReturnsEmptyQueue(t *testing.T) {
	cfg := baseSessionConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.EncInit(); err != nil {
		t.Fatalf("EncInit() error = %v", err)
	}

	if _, err := s.GetPacket(false); err != ErrEmptyQueue {
		t.Fatalf("GetPacket(false) on an empty session error = %v, want ErrEmptyQueue", err)
	}
}
