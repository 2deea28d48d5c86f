/*
NAME
  buffer.go

DESCRIPTION
  buffer.go defines the input-picture-buffer layout (§6): 8-bit planar,
  10-bit "compressed" (8 MSBs plus a packed 2-bit extension plane), and
  10-bit "unpacked" (16-bit little-endian planes split into 8-bit top and
  2-bit bottom internally), plus the Packet type GetPacket hands back.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"fmt"

	"github.com/ausocean/av1enc-core/pcs"
)

// PixelFormat selects one of the three input-buffer storage modes (§6).
type PixelFormat int

const (
	// PixelFormat8Bit stores each plane as raw 8-bit samples.
	PixelFormat8Bit PixelFormat = iota
	// PixelFormat10BitCompressed stores 8 MSBs in the ordinary planes and
	// the 2 LSBs packed 4-per-byte in a parallel "ext" plane whose width
	// is plane_width/4.
	PixelFormat10BitCompressed
	// PixelFormat10BitUnpacked stores each plane as 16-bit little-endian
	// samples; the encoder splits these internally into an 8-bit top
	// plane and a 2-bit bottom plane.
	PixelFormat10BitUnpacked
)

// InputBuffer is one application-submitted picture. Y/Cb/Cr hold the
// primary (8-bit, or 10-bit-unpacked 16-bit-sample) planes; YExt/CbExt/
// CrExt hold the packed 2-bit extension planes used only in
// PixelFormat10BitCompressed mode.
type InputBuffer struct {
	Format       PixelFormat
	Y, Cb, Cr    pcs.Plane
	YExt, CbExt, CrExt pcs.Plane

	// PTS is the presentation timestamp the application associates with
	// this picture, echoed back on the resulting Packet.
	PTS int64

	// EOS marks this as the end-of-stream marker; a conformant caller
	// submits EOS with a zero-length picture once no further pictures
	// will be sent (§7).
	EOS bool
}

// splitUnpacked10Bit splits a 16-bit-little-endian plane into an 8-bit
// top plane and a 2-bit (stored one-sample-per-byte for simplicity)
// bottom plane, matching the "10-bit unpacked" internal-processing rule
// in §6: planes are 16-bit; the encoder internally splits into 8-bit top
// and 2-bit bottom, stride-matched to the source.
func splitUnpacked10Bit(src pcs.Plane) (top, bottom pcs.Plane) {
	top = pcs.Plane{Width: src.Width, Height: src.Height, Stride: src.Width, Data: make([]byte, src.Width*src.Height)}
	bottom = pcs.Plane{Width: src.Width, Height: src.Height, Stride: src.Width, Data: make([]byte, src.Width*src.Height)}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			off := y*src.Stride + x*2
			if off+1 >= len(src.Data) {
				continue
			}
			sample := uint16(src.Data[off]) | uint16(src.Data[off+1])<<8
			top.Data[y*top.Stride+x] = byte(sample >> 2)
			bottom.Data[y*bottom.Stride+x] = byte(sample & 0x3)
		}
	}
	return top, bottom
}

// unpackCompressed10Bit reconstructs the 2-bit LSBs from a packed
// extension plane (4 samples per byte, compressed width = plane_width/4)
// and combines them with the 8-bit MSB plane into a single 8-bit-top/
// 2-bit-bottom pair, matching the "10-bit compressed" rule in §6.
func unpackCompressed10Bit(msb, ext pcs.Plane) (top, bottom pcs.Plane) {
	top = msb
	bottom = pcs.Plane{Width: msb.Width, Height: msb.Height, Stride: msb.Width, Data: make([]byte, msb.Width*msb.Height)}
	for y := 0; y < msb.Height; y++ {
		for x := 0; x < msb.Width; x++ {
			byteIdx := x / 4
			lane := uint(x % 4)
			extOff := y*ext.Stride + byteIdx
			if extOff >= len(ext.Data) {
				continue
			}
			bits := (ext.Data[extOff] >> (lane * 2)) & 0x3
			bottom.Data[y*bottom.Stride+x] = bits
		}
	}
	return top, bottom
}

// luma8Bit resolves the 8-bit-equivalent luma plane Picture Analysis and
// ME operate on, regardless of the buffer's input pixel format: the
// 1/4 and 1/16 downsamples and every SAD-based search in this core work
// on the 8-bit top plane, with the 2-bit bottom plane carried alongside
// for the (out-of-scope) high-bit-depth reconstruction path.
func (b InputBuffer) luma8Bit() (pcs.Plane, error) {
	switch b.Format {
	case PixelFormat8Bit:
		return b.Y, nil
	case PixelFormat10BitUnpacked:
		top, _ := splitUnpacked10Bit(b.Y)
		return top, nil
	case PixelFormat10BitCompressed:
		top, _ := unpackCompressed10Bit(b.Y, b.YExt)
		return top, nil
	default:
		return pcs.Plane{}, fmt.Errorf("session: unknown pixel format %d", b.Format)
	}
}

// Packet is what GetPacket returns: the core's hand-off to the
// (out-of-scope) entropy coder/packetizer. Since bitstream packing is
// explicitly external (§1), Packet carries the finished per-picture
// control sets rather than coded bytes -- everything the packetizer
// needs to emit an AV1 OBU for this picture.
type Packet struct {
	Flags         PacketFlags
	PTS           int64
	PictureNumber int
	DecodeOrder   int
	PPCS          *pcs.ParentPictureControlSet
	CPCS          *pcs.ChildPictureControlSet
}

// StreamHeader is the coded-SPS-equivalent handed back once at EncInit:
// the sequence-wide parameters the external entropy coder needs before
// any picture packet, carried as the SCS itself since bit-packing the
// AV1 sequence_header_obu is out of scope (§1).
type StreamHeader struct {
	SCS *pcs.SequenceControlSet
}
