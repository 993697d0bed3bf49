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

// Package sim provides functional evaluation of netlist graphs: a cycle-level
// simulator, exhaustive input enumeration, and simulation-based equivalence
// checking between graphs.  The passes of the pipeline are required to
// preserve the function computed by a graph, and this package is how that
// requirement is stated as an executable check.
package sim

import (
	"fmt"
	"math/big"

	"github.com/consensys/go-netlist/pkg/netlist"
)

// Simulator evaluates a graph cycle by cycle.  Registers start at their reset
// values and memories start all-zero; combinational logic settles within each
// cycle (memory reads are combinationally visible), whilst register updates
// and memory writes commit at the cycle boundary.
type Simulator struct {
	graph *netlist.Graph
	// Combinational nets in evaluation order.
	order []netlist.NetId
	// Register state, indexed by wire slot.
	registers []*big.Int
	// Sparse memory state, indexed by memory then address.
	memories []map[uint64]*big.Int
}

// NewSimulator constructs a simulator over a given graph, which must be well
// formed.  The graph is treated as read-only for the simulator's lifetime.
func NewSimulator(graph *netlist.Graph) (*Simulator, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	//
	order, err := graph.TopologicalOrder()
	//
	if err != nil {
		return nil, err
	}
	//
	p := &Simulator{graph, order, make([]*big.Int, graph.WireBound()), nil}
	p.Reset()
	//
	return p, nil
}

// Reset returns all registers to their reset values and clears all memories.
func (p *Simulator) Reset() {
	for _, wid := range p.graph.Wires() {
		if wire := p.graph.Wire(wid); wire.Kind() == netlist.REGISTER_WIRE {
			p.registers[wid.Unwrap()] = netlist.Truncate(wire.Reset(), wire.Width())
		}
	}
	//
	p.memories = make([]map[uint64]*big.Int, p.graph.Memories())
	//
	for i := range p.memories {
		p.memories[i] = make(map[uint64]*big.Int)
	}
}

// Step evaluates one cycle for given input values (matching the graph's input
// wires in declaration order), returning the output values in declaration
// order.  Input values are truncated to their wire widths.
func (p *Simulator) Step(inputs []*big.Int) ([]*big.Int, error) {
	if len(inputs) != len(p.graph.Inputs()) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(p.graph.Inputs()), len(inputs))
	}
	// Seed every wire with zero, then overwrite the timing sources.
	values := make([]*big.Int, p.graph.WireBound())
	//
	for i := range values {
		values[i] = big.NewInt(0)
	}
	//
	for _, wid := range p.graph.Wires() {
		wire := p.graph.Wire(wid)
		//
		switch wire.Kind() {
		case netlist.CONST_WIRE:
			values[wid.Unwrap()] = wire.Value()
		case netlist.REGISTER_WIRE:
			values[wid.Unwrap()] = p.registers[wid.Unwrap()]
		}
	}
	//
	for i, wid := range p.graph.Inputs() {
		values[wid.Unwrap()] = netlist.Truncate(inputs[i], p.graph.Wire(wid).Width())
	}
	// Combinational settle, in topological order.
	for _, nid := range p.order {
		net := p.graph.Net(nid)
		//
		if net.Op() == netlist.OP_MEMRD {
			addr := values[net.Inputs()[0].Unwrap()].Uint64()
			values[net.Output().Unwrap()] = p.read(net.Memory(), addr)
			//
			continue
		}
		//
		var (
			widths = make([]uint, len(net.Inputs()))
			args   = make([]*big.Int, len(net.Inputs()))
		)
		//
		for i, in := range net.Inputs() {
			widths[i] = p.graph.Wire(in).Width()
			args[i] = values[in.Unwrap()]
		}
		//
		values[net.Output().Unwrap()] = netlist.EvalOp(net.Op(), indicesOf(net), widths, args)
	}
	// Commit register updates and memory writes at the cycle boundary, in
	// insertion order (later writes to the same address win).
	for _, nid := range p.graph.Nets() {
		net := p.graph.Net(nid)
		//
		switch net.Op() {
		case netlist.OP_REG:
			p.registers[net.Output().Unwrap()] = values[net.Inputs()[0].Unwrap()]
		case netlist.OP_MEMWR:
			if values[net.Inputs()[2].Unwrap()].Sign() != 0 {
				var (
					addr = values[net.Inputs()[0].Unwrap()].Uint64()
					data = values[net.Inputs()[1].Unwrap()]
				)
				//
				p.memories[net.Memory().Unwrap()][addr] = data
			}
		}
	}
	// Collect outputs.
	outputs := make([]*big.Int, len(p.graph.Outputs()))
	//
	for i, wid := range p.graph.Outputs() {
		outputs[i] = values[wid.Unwrap()]
	}
	//
	return outputs, nil
}

func (p *Simulator) read(mid netlist.MemId, addr uint64) *big.Int {
	if value, ok := p.memories[mid.Unwrap()][addr]; ok {
		return value
	}
	//
	return big.NewInt(0)
}

func indicesOf(net *netlist.Net) []uint {
	if net.Op() == netlist.OP_SELECT {
		return net.Indices()
	}
	//
	return nil
}
