// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package analysis

import (
	"github.com/consensys/go-netlist/pkg/netlist"
)

// AreaModel maps operation kinds, register bits and memory cells to unit
// areas.  Areas scale linearly with the caller-supplied technology parameter
// (e.g. a process node size), so the model itself is dimensionless.
type AreaModel struct {
	// Unit area per combinational net of a given kind.
	gates [netlist.NUM_OPS]float64
	// Unit area per register bit.
	registerBit float64
	// Unit area per memory cell (one bit of one word).
	memoryBit float64
}

// DefaultAreaModel constructs the default area model: one unit per
// gate-creating combinational net, zero for width-only primitives, one unit
// per register bit and one per memory cell.
func DefaultAreaModel() AreaModel {
	var model AreaModel
	//
	for _, op := range []netlist.OpKind{
		netlist.OP_NOT, netlist.OP_AND, netlist.OP_OR, netlist.OP_XOR, netlist.OP_NAND,
		netlist.OP_ADD, netlist.OP_SUB, netlist.OP_MUL,
		netlist.OP_EQ, netlist.OP_LT, netlist.OP_GT, netlist.OP_MUX,
	} {
		model.gates[op.Index()] = 1.0
	}
	//
	model.registerBit = 1.0
	model.memoryBit = 1.0
	//
	return model
}

// WithGateArea returns a copy of this model in which a given operation kind
// has a given unit area.
func (p AreaModel) WithGateArea(op netlist.OpKind, area float64) AreaModel {
	p.gates[op.Index()] = area
	return p
}

// WithRegisterBitArea returns a copy of this model with a given unit area per
// register bit.
func (p AreaModel) WithRegisterBitArea(area float64) AreaModel {
	p.registerBit = area
	return p
}

// WithMemoryBitArea returns a copy of this model with a given unit area per
// memory cell.
func (p AreaModel) WithMemoryBitArea(area float64) AreaModel {
	p.memoryBit = area
	return p
}

// ============================================================================

// AreaReport is the value object produced by area estimation: a logic area
// and a memory area, both non-negative and in design-specific units.
type AreaReport struct {
	// Area occupied by combinational logic.
	Logic float64
	// Area occupied by registers and memories, zero when the design has no
	// stateful storage.
	Memory float64
}

// Total returns the combined logic and memory area.
func (p AreaReport) Total() float64 {
	return p.Logic + p.Memory
}

// EstimateArea sums the per-kind unit areas over all combinational nets, and
// the per-bit storage costs over all registers and memories, scaling both by
// a given technology parameter.
func EstimateArea(graph *netlist.Graph, model AreaModel, tech float64) AreaReport {
	var logic, memory float64
	//
	for _, nid := range graph.Nets() {
		if op := graph.Net(nid).Op(); !op.IsSequential() {
			logic += model.gates[op.Index()]
		}
	}
	//
	for _, wid := range graph.Wires() {
		if wire := graph.Wire(wid); wire.Kind() == netlist.REGISTER_WIRE {
			memory += float64(wire.Width()) * model.registerBit
		}
	}
	//
	for i := uint(0); i < graph.Memories(); i++ {
		mem := graph.Memory(netlist.NewMemId(i))
		memory += float64(mem.Words()) * float64(mem.DataWidth()) * model.memoryBit
	}
	//
	return AreaReport{logic * tech, memory * tech}
}
