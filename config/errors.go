package config

import "fmt"

var errTileCount = fmt.Errorf("tile row/col counts exceed AV1 annex-A limit of 128")
var errSuperresTwoPass = fmt.Errorf("superres_mode is disallowed in two-pass mode 1")

func errInvalidDimension(name string, v uint) error {
	return fmt.Errorf("%s must be even and >= %d, got %d", name, minWidth, v)
}

func errOutOfRange(name string, v, lo, hi int) error {
	return fmt.Errorf("%s out of range [%d, %d]: %d", name, lo, hi, v)
}
