/*
NAME
  ibc.go

DESCRIPTION
  ibc.go builds the intra-BC hash table for an I-slice with IBC hashing
  enabled, hashing every block position at every tracked block size with
  two independent CRC-24 checksums, grounded on
  EbIntraBlockCopy.c's av1_hash_block's use of two distinct CRC-24
  polynomials (0x5D6DCB, 0x864CFB) to cut false-positive collisions
  before a pixel-exact match check.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import (
	"github.com/ausocean/av1enc-core/pcs"
	"github.com/pkg/errors"
)

const (
	crc24PolyA = 0x5D6DCB
	crc24PolyB = 0x864CFB
	crc24Init  = 0xB704CE
	crc24Mask  = 0xFFFFFF
)

func crc24(data []byte, poly uint32) uint32 {
	crc := uint32(crc24Init)
	for _, b := range data {
		crc ^= uint32(b) << 16
		for i := 0; i < 8; i++ {
			if crc&0x800000 != 0 {
				crc = (crc<<1)&crc24Mask ^ poly
			} else {
				crc = (crc << 1) & crc24Mask
			}
		}
	}
	return crc
}

// BuildIBCHashTable hashes every valid top-left position of every
// tracked block size within a luma plane's decoded region
// (width x height, already reconstructed up to the current block in
// raster order), inserting each into the returned table. It errors if
// the requested decoded region doesn't fit inside luma, since
// extractBlock would otherwise read past the plane's backing array.
func BuildIBCHashTable(luma pcs.Plane, decodedWidth, decodedHeight int) (*pcs.IBCHashTable, error) {
	if decodedWidth > luma.Width || decodedHeight > luma.Height {
		return nil, errors.Wrapf(errIBCRegionTooLarge, "decoded %dx%d exceeds plane %dx%d",
			decodedWidth, decodedHeight, luma.Width, luma.Height)
	}
	t := pcs.NewIBCHashTable()
	for sizeIdx, size := range pcs.IBCBlockSizes {
		if size > decodedWidth || size > decodedHeight {
			continue
		}
		for y := 0; y <= decodedHeight-size; y++ {
			for x := 0; x <= decodedWidth-size; x++ {
				block := extractBlock(luma, x, y, size)
				e := pcs.IBCHashEntry{
					X: x, Y: y,
					CRCA: crc24(block, crc24PolyA),
					CRCB: crc24(block, crc24PolyB),
				}
				t.Insert(sizeIdx, e)
			}
		}
	}
	return t, nil
}

var errIBCRegionTooLarge = errors.New("mdc: decoded region exceeds luma plane bounds")

func extractBlock(p pcs.Plane, x, y, size int) []byte {
	buf := make([]byte, 0, size*size)
	for row := 0; row < size; row++ {
		start := (y+row)*p.Stride + x
		buf = append(buf, p.Data[start:start+size]...)
	}
	return buf
}
