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
package sim

import (
	"math/big"

	"github.com/consensys/go-netlist/pkg/netlist"
)

// InputEnumerator enumerates every assignment to the input wires of a graph,
// odometer style: the first input counts fastest.  This is intended for
// exhaustively checking small graphs, and assumes the total number of input
// bits fits a machine word.
type InputEnumerator struct {
	widths []uint
	// Next assignment to be returned.
	current []*big.Int
	// Number of assignments remaining.
	remaining uint64
}

// EnumerateInputs constructs an enumerator over all input assignments of a
// given graph.
func EnumerateInputs(graph *netlist.Graph) *InputEnumerator {
	var (
		inputs  = graph.Inputs()
		widths  = make([]uint, len(inputs))
		current = make([]*big.Int, len(inputs))
		count   = uint64(1)
	)
	//
	for i, wid := range inputs {
		widths[i] = graph.Wire(wid).Width()
		current[i] = big.NewInt(0)
		count <<= widths[i]
	}
	//
	return &InputEnumerator{widths, current, count}
}

// TotalInputBits sums the widths of a graph's input wires, which determines
// whether exhaustive enumeration is feasible.
func TotalInputBits(graph *netlist.Graph) uint {
	bits := uint(0)
	//
	for _, wid := range graph.Inputs() {
		bits += graph.Wire(wid).Width()
	}
	//
	return bits
}

// Count returns the number of assignments left in this enumeration.
func (p *InputEnumerator) Count() uint64 {
	return p.remaining
}

// HasNext checks whether the enumeration has more assignments.
func (p *InputEnumerator) HasNext() bool {
	return p.remaining > 0
}

// Next returns the next assignment and advances the enumerator.  The returned
// slice is fresh and may be retained by the caller.
func (p *InputEnumerator) Next() []*big.Int {
	assignment := make([]*big.Int, len(p.current))
	//
	for i, v := range p.current {
		assignment[i] = new(big.Int).Set(v)
	}
	// Advance the odometer.
	for i := range p.current {
		limit := new(big.Int).Lsh(big.NewInt(1), p.widths[i])
		p.current[i].Add(p.current[i], big.NewInt(1))
		//
		if p.current[i].Cmp(limit) < 0 {
			break
		}
		// Wrap this digit and carry into the next.
		p.current[i].SetInt64(0)
	}
	//
	p.remaining--
	//
	return assignment
}
