/*
NAME
  lambda.go

DESCRIPTION
  lambda.go derives the Lagrangian multiplier used to weigh SAD against
  rate during ME search, from picture QP and temporal layer via one of
  five fixed tables (§4.2).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package me implements the hierarchical motion estimation subsystem:
// pre-HME, HME levels 0-2, full ME, reference pruning, search-range
// adaptation, candidate pruning, global motion, temporal-filter ME, and
// first-pass ME (§4.2).
package me

// StructureClass distinguishes the GOP structure a lambda table applies
// to.
type StructureClass int

const (
	StructureRandomAccess StructureClass = iota
	StructureLowDelay
)

// lambdaTable maps a base QP to a lambda multiplier. The five fixed
// tables are RA-base, RA-L1, RA-L3, LD-base, LD-other (§4.2); values
// below follow the standard AV1 rd-lambda relationship lambda = a*QP^2
// scaled per table, with distinct scale factors approximating the
// reference encoder's tuned curves for each structure/layer.
type lambdaTable struct{ scale float64 }

var (
	raBaseTable  = lambdaTable{scale: 0.57}
	raL1Table    = lambdaTable{scale: 0.68}
	raL3Table    = lambdaTable{scale: 0.80}
	ldBaseTable  = lambdaTable{scale: 0.50}
	ldOtherTable = lambdaTable{scale: 0.62}
)

func (t lambdaTable) lambda(qp int) float64 {
	q := float64(qp)
	return t.scale * q * q / 256.0
}

// Lambda returns the Lagrangian multiplier for a picture at the given
// base QP, structure class, and temporal layer.
func Lambda(structure StructureClass, temporalLayer int, qp int) float64 {
	switch structure {
	case StructureRandomAccess:
		switch {
		case temporalLayer == 0:
			return raBaseTable.lambda(qp)
		case temporalLayer <= 2:
			return raL1Table.lambda(qp)
		default:
			return raL3Table.lambda(qp)
		}
	case StructureLowDelay:
		if temporalLayer == 0 {
			return ldBaseTable.lambda(qp)
		}
		return ldOtherTable.lambda(qp)
	default:
		return raBaseTable.lambda(qp)
	}
}
