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
package opt

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-netlist/pkg/netlist"
)

// coalesceCopies removes buffers into internal wires, rewiring their
// consumers directly to the buffered source.  Buffers into output wires are
// retained, since output wires must keep a driver.
func coalesceCopies(graph *netlist.Graph) uint {
	count := uint(0)
	//
	for _, nid := range graph.Nets() {
		net := graph.Net(nid)
		//
		if net.Op() == netlist.OP_COPY && !graph.Wire(net.Output()).Kind().IsOutput() {
			graph.ReplaceUses(net.Output(), net.Inputs()[0])
			graph.RemoveNet(nid)
			count++
		}
	}
	//
	return count
}

// propagateConstants folds every net whose inputs are all constant into a
// fresh constant wire, and applies the one-constant algebraic identities
// (conjunction / disjunction with an identity or absorbing element,
// exclusive-or with zero, multiplexers with a constant selector).  Each
// rewrite either removes a net outright or replaces it by a buffer, which
// copy coalescing subsequently folds; the net count never increases.
func propagateConstants(graph *netlist.Graph) (uint, error) {
	count := uint(0)
	//
	for _, nid := range graph.Nets() {
		var (
			net = graph.Net(nid)
			op  = net.Op()
			err error
		)
		// Buffers driving outputs from constants are already terminal form,
		// and all other buffers belong to copy coalescing.
		if op.IsSequential() || op == netlist.OP_COPY {
			continue
		}
		//
		if values, ok := constantInputs(graph, net); ok {
			value := netlist.EvalOp(op, indicesOf(net), widthsOf(graph, net), values)
			err = replaceWithConst(graph, nid, value)
		} else if wire, value, ok := identity(graph, net); ok {
			if wire.IsUsed() {
				err = replaceWithWire(graph, nid, wire)
			} else {
				err = replaceWithConst(graph, nid, value)
			}
		} else {
			continue
		}
		//
		if err != nil {
			return count, err
		}
		//
		count++
	}
	//
	return count, nil
}

// identity determines whether a net collapses under a one-constant algebraic
// identity, yielding either the wire the net reduces to, or (when the wire is
// unused) the constant value it reduces to.
func identity(graph *netlist.Graph, net *netlist.Net) (netlist.WireId, *big.Int, bool) {
	var (
		none = netlist.NewUnusedWireId()
		op   = net.Op()
	)
	//
	switch op {
	case netlist.OP_AND, netlist.OP_OR, netlist.OP_XOR:
		index, value, ok := constOperand(graph, net)
		//
		if !ok {
			return none, nil, false
		}
		//
		var (
			other = net.Inputs()[1-index]
			width = graph.Wire(other).Width()
			zero  = value.Sign() == 0
			ones  = value.BitLen() > 0 && uint(value.BitLen()) <= width && allOnes(value, width)
		)
		//
		switch {
		case op == netlist.OP_AND && zero:
			return none, big.NewInt(0), true
		case op == netlist.OP_AND && ones:
			return other, nil, true
		case op == netlist.OP_OR && zero:
			return other, nil, true
		case op == netlist.OP_OR && ones:
			return none, new(big.Int).Set(value), true
		case op == netlist.OP_XOR && zero:
			return other, nil, true
		}
	case netlist.OP_MUX:
		sel := graph.Wire(net.Inputs()[0])
		//
		if sel.Kind() == netlist.CONST_WIRE {
			if sel.Value().Sign() != 0 {
				return net.Inputs()[1], nil, true
			}
			//
			return net.Inputs()[2], nil, true
		}
	}
	//
	return none, nil, false
}

// replaceWithWire substitutes a net by an existing wire carrying the same
// value.  Output wires must keep a driver, so a buffer is installed there
// instead of rewiring (output wires have no internal consumers to rewire).
func replaceWithWire(graph *netlist.Graph, nid netlist.NetId, src netlist.WireId) error {
	out := graph.Net(nid).Output()
	//
	if graph.Wire(out).Kind().IsOutput() {
		graph.RemoveNet(nid)
		//
		_, err := graph.AddNet(netlist.OP_COPY, []netlist.WireId{src}, out)
		//
		if err != nil {
			return netlist.NewInternalConsistencyError("constant propagation rewiring failed: %v", err)
		}
		//
		return nil
	}
	//
	graph.ReplaceUses(out, src)
	graph.RemoveNet(nid)
	//
	return nil
}

// replaceWithConst substitutes a net by a fresh constant wire carrying its
// (now known) value.
func replaceWithConst(graph *netlist.Graph, nid netlist.NetId, value *big.Int) error {
	var (
		out      = graph.Net(nid).Output()
		wire, err = graph.NewConstWire("", graph.Wire(out).Width(), value)
	)
	//
	if err != nil {
		return netlist.NewInternalConsistencyError("constant propagation failed: %v", err)
	}
	//
	return replaceWithWire(graph, nid, wire)
}

// mergeDuplicates merges combinational nets performing the same operation
// (with the same parameters) on the same ordered inputs, rewiring consumers
// of the later net to the earlier one.  Sequential nets are never merged:
// registers have identity, and memory reads are ordered against writes.
func mergeDuplicates(graph *netlist.Graph) uint {
	var (
		seen  = make(map[string]netlist.WireId)
		count = uint(0)
	)
	//
	for _, nid := range graph.Nets() {
		net := graph.Net(nid)
		// Restrict to nets producing internal wires, since output wires can
		// neither be rewired away nor consumed internally.
		if net.Op().IsSequential() || graph.Wire(net.Output()).Kind() != netlist.INTERNAL_WIRE {
			continue
		}
		//
		key := netKey(net)
		//
		if earlier, ok := seen[key]; ok {
			graph.ReplaceUses(net.Output(), earlier)
			graph.RemoveNet(nid)
			count++
		} else {
			seen[key] = net.Output()
		}
	}
	//
	return count
}

// eliminateDeadLogic removes every net which no output wire and no memory
// write transitively depends upon.  This is a backward liveness sweep from
// the observable sinks, and hence also collects dead register self-loops in
// one application.
func eliminateDeadLogic(graph *netlist.Graph) uint {
	var (
		marked   = bitset.New(64)
		worklist []netlist.NetId
		count    = uint(0)
	)
	//
	mark := func(nid netlist.NetId) {
		if !marked.Test(nid.Unwrap()) {
			marked.Set(nid.Unwrap())
			worklist = append(worklist, nid)
		}
	}
	// Roots: drivers of output wires, plus all memory writes.
	for _, wid := range graph.Outputs() {
		if producer := graph.Producer(wid); producer.IsUsed() {
			mark(producer)
		}
	}
	//
	for _, nid := range graph.Nets() {
		if graph.Net(nid).Op() == netlist.OP_MEMWR {
			mark(nid)
		}
	}
	// Propagate liveness upstream.
	for len(worklist) > 0 {
		nid := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		//
		for _, wid := range graph.Net(nid).Inputs() {
			if producer := graph.Producer(wid); producer.IsUsed() {
				mark(producer)
			}
		}
	}
	// Collect the dead.
	for _, nid := range graph.Nets() {
		if !marked.Test(nid.Unwrap()) {
			graph.RemoveNet(nid)
			count++
		}
	}
	//
	return count
}

// ============================================================================
// Helpers
// ============================================================================

// constantInputs returns the values of a net's inputs, provided they are all
// constant wires.
func constantInputs(graph *netlist.Graph, net *netlist.Net) ([]*big.Int, bool) {
	values := make([]*big.Int, len(net.Inputs()))
	//
	for i, wid := range net.Inputs() {
		wire := graph.Wire(wid)
		//
		if wire.Kind() != netlist.CONST_WIRE {
			return nil, false
		}
		//
		values[i] = wire.Value()
	}
	//
	return values, true
}

// constOperand locates the first constant operand of a net, if any.
func constOperand(graph *netlist.Graph, net *netlist.Net) (int, *big.Int, bool) {
	for i, wid := range net.Inputs() {
		if wire := graph.Wire(wid); wire.Kind() == netlist.CONST_WIRE {
			return i, wire.Value(), true
		}
	}
	//
	return 0, nil, false
}

func indicesOf(net *netlist.Net) []uint {
	if net.Op() == netlist.OP_SELECT {
		return net.Indices()
	}
	//
	return nil
}

func widthsOf(graph *netlist.Graph, net *netlist.Net) []uint {
	widths := make([]uint, len(net.Inputs()))
	//
	for i, wid := range net.Inputs() {
		widths[i] = graph.Wire(wid).Width()
	}
	//
	return widths
}

func allOnes(value *big.Int, width uint) bool {
	for i := uint(0); i < width; i++ {
		if value.Bit(int(i)) == 0 {
			return false
		}
	}
	//
	return true
}

// netKey builds the structural identity of a combinational net: its operation
// kind, parameters and ordered input wires.
func netKey(net *netlist.Net) string {
	var (
		inputs  = make([]uint, len(net.Inputs()))
		indices []uint
	)
	//
	for i, wid := range net.Inputs() {
		inputs[i] = wid.Unwrap()
	}
	//
	if net.Op() == netlist.OP_SELECT {
		indices = net.Indices()
	}
	//
	return fmt.Sprintf("%d:%v:%v", net.Op().Index(), inputs, indices)
}
