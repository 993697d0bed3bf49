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

// Package synth lowers composite, variable-bitwidth operations into the
// minimal single-bit gate set {and, or, xor, not}, plus the width-only
// primitives {concat, select} and buffers into output wires.  Registers and
// memories are preserved as atomic sequential primitives.  The pass is
// idempotent: running it on an already lowered graph is a no-op.
package synth

import (
	"fmt"

	"github.com/consensys/go-netlist/pkg/netlist"
	log "github.com/sirupsen/logrus"
)

// UnsupportedOperationError signals a synthesis request for an operation kind
// which has no known decomposition.
type UnsupportedOperationError struct {
	// Operation in question.
	Op netlist.OpKind
	// Name of the wire driven by the offending net.
	Wire string
}

// Error implements the error interface.
func (p *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("no decomposition for %s net driving \"%s\"", p.Op, p.Wire)
}

// Lowering encapsulates one application of the synthesis pass to a given
// graph.  Fresh gates are created through a builder, which latches the first
// construction error; since the pass only ever builds well-formed clusters,
// any such error indicates a defect in the pass itself.
type Lowering struct {
	graph *netlist.Graph
	build *netlist.Builder
	// Memoised single-bit constant zero, allocated on first use.
	zero netlist.WireId
	// Number of composite nets decomposed.
	lowered uint
}

// NewLowering constructs a lowering pass targeting a given graph.
func NewLowering(graph *netlist.Graph) *Lowering {
	return &Lowering{graph, netlist.NewBuilder(graph), netlist.NewUnusedWireId(), 0}
}

// Lower rewrites the graph in place so that every combinational net is drawn
// from the minimal gate set.  Nets are visited in insertion order, and each
// substitution is applied atomically: the replacement cluster is built first,
// then consumers are rewired, then the original net is removed.  On failure
// the graph remains well formed (any part-built cluster is dead logic which
// the optimiser removes).
func (p *Lowering) Lower() error {
	for _, nid := range p.graph.Nets() {
		if err := p.lowerNet(nid); err != nil {
			return err
		}
	}
	//
	log.Debugf("synthesis lowered %d composite nets", p.lowered)
	// Re-verify the equal-width invariant this pass is responsible for.
	return p.checkLowered()
}

// lowerNet dispatches a single net to its decomposition, leaving nets already
// in target form untouched.
func (p *Lowering) lowerNet(nid netlist.NetId) error {
	var (
		net = p.graph.Net(nid)
		op  = net.Op()
	)
	//
	switch op {
	case netlist.OP_REG, netlist.OP_MEMRD, netlist.OP_MEMWR:
		// Sequential primitives are never decomposed.
		return nil
	case netlist.OP_SELECT, netlist.OP_CONCAT:
		// Width-only primitives are part of the target form.
		return nil
	case netlist.OP_COPY:
		return p.lowerCopy(nid)
	case netlist.OP_NOT, netlist.OP_AND, netlist.OP_OR, netlist.OP_XOR:
		if p.graph.Wire(net.Output()).Width() == 1 {
			// Already in target form.
			return nil
		}
		//
		return p.substitute(nid, p.lowerBitwise(op, net.Inputs()))
	case netlist.OP_NAND:
		return p.substitute(nid, p.lowerBitwise(op, net.Inputs()))
	case netlist.OP_ADD:
		return p.substitute(nid, p.lowerAdd(net.Inputs()))
	case netlist.OP_SUB:
		return p.substitute(nid, p.lowerSub(net.Inputs()))
	case netlist.OP_MUL:
		return p.substitute(nid, p.lowerMul(net.Inputs()))
	case netlist.OP_EQ:
		return p.substitute(nid, p.lowerEq(net.Inputs()))
	case netlist.OP_LT:
		return p.substitute(nid, p.lowerLt(net.Inputs()[0], net.Inputs()[1]))
	case netlist.OP_GT:
		return p.substitute(nid, p.lowerLt(net.Inputs()[1], net.Inputs()[0]))
	case netlist.OP_MUX:
		return p.substitute(nid, p.lowerMux(net.Inputs()))
	default:
		return &UnsupportedOperationError{op, p.graph.Wire(net.Output()).Name()}
	}
}

// lowerCopy eliminates buffers into internal wires by rewiring their
// consumers directly to the source.  Buffers into output wires are the one
// form of copy retained by the target form.
func (p *Lowering) lowerCopy(nid netlist.NetId) error {
	var (
		net = p.graph.Net(nid)
		src = net.Inputs()[0]
		out = net.Output()
	)
	//
	if p.graph.Wire(out).Kind().IsOutput() {
		return nil
	}
	//
	p.graph.ReplaceUses(out, src)
	p.graph.RemoveNet(nid)
	//
	return nil
}

// substitute atomically replaces a net by a freshly built cluster whose
// result bits are given least significant first.
func (p *Lowering) substitute(nid netlist.NetId, bits []netlist.WireId) error {
	if p.build.Failed() {
		// The pass built an ill-formed cluster: a defect in the pass, not in
		// the input graph.
		return netlist.NewInternalConsistencyError("synthesis built invalid cluster: %v", p.build.Error())
	}
	//
	var (
		net = p.graph.Net(nid)
		out = net.Output()
		res = p.assemble(bits)
	)
	//
	if p.build.Failed() {
		return netlist.NewInternalConsistencyError("synthesis built invalid cluster: %v", p.build.Error())
	} else if p.graph.Wire(res).Width() != p.graph.Wire(out).Width() {
		return netlist.NewInternalConsistencyError(
			"synthesis of %s net driving \"%s\" changed width", net.Op(), p.graph.Wire(out).Name())
	}
	// Rewire consumers of the original output (a no-op for output wires, which
	// have no internal consumers).
	p.graph.ReplaceUses(out, res)
	// Remove the original net, freeing the driver slot.
	p.graph.RemoveNet(nid)
	// Output wires must keep a driver, so buffer the result in.
	if p.graph.Wire(out).Kind().IsOutput() {
		p.build.Connect(out, res)
	}
	//
	if p.build.Failed() {
		return netlist.NewInternalConsistencyError("synthesis rewiring failed: %v", p.build.Error())
	}
	//
	p.lowered++
	//
	return nil
}

// assemble reassembles per-bit results into a single wire via concatenation,
// recalling that concatenation lists the most significant operand first.
func (p *Lowering) assemble(bits []netlist.WireId) netlist.WireId {
	if len(bits) == 1 {
		return bits[0]
	}
	//
	msf := make([]netlist.WireId, len(bits))
	//
	for i, b := range bits {
		msf[len(bits)-1-i] = b
	}
	//
	return p.build.Concat(msf...)
}

// ============================================================================
// Decompositions
// ============================================================================

// lowerBitwise decomposes an n-bit bitwise operation into n single-bit gates,
// with nand expanding to not(and).
func (p *Lowering) lowerBitwise(op netlist.OpKind, args []netlist.WireId) []netlist.WireId {
	var (
		n    = p.width(args[0])
		bits = make([]netlist.WireId, n)
	)
	//
	for i := uint(0); i < n; i++ {
		a := p.bit(args[0], i)
		//
		switch op {
		case netlist.OP_NOT:
			bits[i] = p.build.Not(a)
		case netlist.OP_AND:
			bits[i] = p.build.And(a, p.bit(args[1], i))
		case netlist.OP_OR:
			bits[i] = p.build.Or(a, p.bit(args[1], i))
		case netlist.OP_XOR:
			bits[i] = p.build.Xor(a, p.bit(args[1], i))
		case netlist.OP_NAND:
			bits[i] = p.build.Not(p.build.And(a, p.bit(args[1], i)))
		default:
			panic("unreachable")
		}
	}
	//
	return bits
}

// lowerAdd decomposes an n-bit addition into a ripple-carry chain of full
// adders, with the final carry becoming the extra most significant bit.
func (p *Lowering) lowerAdd(args []netlist.WireId) []netlist.WireId {
	var (
		n     = p.width(args[0])
		bits  = make([]netlist.WireId, 0, n+1)
		carry = netlist.NewUnusedWireId()
	)
	//
	for i := uint(0); i < n; i++ {
		var sum netlist.WireId
		//
		sum, carry = p.fullAdder(p.bit(args[0], i), p.bit(args[1], i), carry)
		bits = append(bits, sum)
	}
	//
	return append(bits, carry)
}

// lowerSub decomposes an n-bit subtraction a-b into the (n+1)-bit two's
// complement addition a + ~b + 1.  The carry-in of one specialises the first
// full adder, and the top result bit reduces to the negated carry out of the
// chain (since the zero-extended operand bits there are zero and one
// respectively).
func (p *Lowering) lowerSub(args []netlist.WireId) []netlist.WireId {
	bits, carry := p.borrowChain(args[0], args[1])
	//
	return append(bits, p.build.Not(carry))
}

// lowerLt decomposes an unsigned comparison a<b into the sign bit of the
// two's complement subtraction a-b, i.e. the negated carry out of the borrow
// chain.  The sum bits are never built.
func (p *Lowering) lowerLt(a netlist.WireId, b netlist.WireId) []netlist.WireId {
	var (
		n     = p.width(a)
		carry netlist.WireId
	)
	//
	for i := uint(0); i < n; i++ {
		var (
			ai = p.bit(a, i)
			nb = p.build.Not(p.bit(b, i))
		)
		//
		if i == 0 {
			// Carry-in is one.
			carry = p.build.Or(ai, nb)
		} else {
			carry = p.build.Or(p.build.And(ai, nb), p.build.And(carry, p.build.Xor(ai, nb)))
		}
	}
	//
	return []netlist.WireId{p.build.Not(carry)}
}

// borrowChain builds the n sum bits and carry out of a + ~b + 1.
func (p *Lowering) borrowChain(a netlist.WireId, b netlist.WireId) ([]netlist.WireId, netlist.WireId) {
	var (
		n     = p.width(a)
		bits  = make([]netlist.WireId, n)
		carry netlist.WireId
	)
	//
	for i := uint(0); i < n; i++ {
		var (
			ai  = p.bit(a, i)
			nb  = p.build.Not(p.bit(b, i))
			axb = p.build.Xor(ai, nb)
		)
		//
		if i == 0 {
			bits[i] = p.build.Not(axb)
			carry = p.build.Or(ai, nb)
		} else {
			bits[i] = p.build.Xor(axb, carry)
			carry = p.build.Or(p.build.And(ai, nb), p.build.And(carry, axb))
		}
	}
	//
	return bits, carry
}

// lowerMul decomposes an n-bit multiplication into a shift-and-add array:
// partial product rows of and gates, accumulated with ripple-carry adders
// into a 2n-bit result.
func (p *Lowering) lowerMul(args []netlist.WireId) []netlist.WireId {
	var (
		n    = p.width(args[0])
		bits = make([]netlist.WireId, 0, 2*n)
		acc  = p.partialProduct(args[0], args[1], 0)
	)
	//
	for i := uint(1); i < n; i++ {
		// The lowest accumulator bit is final.
		bits = append(bits, acc[0])
		// Add the next row, shifted one position up.
		acc = p.rippleAdd(acc[1:], p.partialProduct(args[0], args[1], i))
	}
	//
	bits = append(bits, acc...)
	// Pad to the full result width (only required for n = 1).
	for uint(len(bits)) < 2*n {
		bits = append(bits, p.zeroBit())
	}
	//
	return bits
}

// partialProduct builds row i of the multiplier array: every bit of a, anded
// with bit i of b.
func (p *Lowering) partialProduct(a netlist.WireId, b netlist.WireId, i uint) []netlist.WireId {
	var (
		n    = p.width(a)
		bi   = p.bit(b, i)
		bits = make([]netlist.WireId, n)
	)
	//
	for j := uint(0); j < n; j++ {
		bits[j] = p.build.And(p.bit(a, j), bi)
	}
	//
	return bits
}

// rippleAdd sums two (possibly unequal length) bit vectors, producing
// max(len(as),len(bs))+1 bits including the final carry.
func (p *Lowering) rippleAdd(as []netlist.WireId, bs []netlist.WireId) []netlist.WireId {
	var (
		n     = max(len(as), len(bs))
		bits  = make([]netlist.WireId, 0, n+1)
		carry = netlist.NewUnusedWireId()
	)
	//
	at := func(xs []netlist.WireId, i int) netlist.WireId {
		if i < len(xs) {
			return xs[i]
		}
		//
		return netlist.NewUnusedWireId()
	}
	//
	for i := 0; i < n; i++ {
		var sum netlist.WireId
		//
		sum, carry = p.fullAdder(at(as, i), at(bs, i), carry)
		bits = append(bits, sum)
	}
	//
	if !carry.IsUsed() {
		carry = p.zeroBit()
	}
	//
	return append(bits, carry)
}

// fullAdder sums up to three single-bit operands, any of which may be unused
// (treated as zero), degenerating to a half adder or a plain wire as
// appropriate.  The returned carry is unused when it is identically zero.
func (p *Lowering) fullAdder(a netlist.WireId, b netlist.WireId, c netlist.WireId) (netlist.WireId, netlist.WireId) {
	var present []netlist.WireId
	//
	for _, w := range []netlist.WireId{a, b, c} {
		if w.IsUsed() {
			present = append(present, w)
		}
	}
	//
	switch len(present) {
	case 0:
		return p.zeroBit(), netlist.NewUnusedWireId()
	case 1:
		return present[0], netlist.NewUnusedWireId()
	case 2:
		x, y := present[0], present[1]
		return p.build.Xor(x, y), p.build.And(x, y)
	default:
		var (
			x, y, z = present[0], present[1], present[2]
			xy      = p.build.Xor(x, y)
			sum     = p.build.Xor(xy, z)
			carry   = p.build.Or(p.build.And(x, y), p.build.And(z, xy))
		)
		//
		return sum, carry
	}
}

// lowerEq decomposes an equality comparison into an and-reduction over
// per-bit xnor.
func (p *Lowering) lowerEq(args []netlist.WireId) []netlist.WireId {
	var (
		n   = p.width(args[0])
		acc netlist.WireId
	)
	//
	for i := uint(0); i < n; i++ {
		xnor := p.build.Not(p.build.Xor(p.bit(args[0], i), p.bit(args[1], i)))
		//
		if i == 0 {
			acc = xnor
		} else {
			acc = p.build.And(acc, xnor)
		}
	}
	//
	return []netlist.WireId{acc}
}

// lowerMux decomposes a multiplexer into per-bit select logic, sharing the
// negated selector across all bits.
func (p *Lowering) lowerMux(args []netlist.WireId) []netlist.WireId {
	var (
		sel  = args[0]
		nsel = p.build.Not(sel)
		n    = p.width(args[1])
		bits = make([]netlist.WireId, n)
	)
	//
	for i := uint(0); i < n; i++ {
		var (
			t = p.build.And(sel, p.bit(args[1], i))
			f = p.build.And(nsel, p.bit(args[2], i))
		)
		//
		bits[i] = p.build.Or(t, f)
	}
	//
	return bits
}

// ============================================================================
// Helpers
// ============================================================================

// bit extracts a single bit of a wire, with single-bit wires used directly.
func (p *Lowering) bit(w netlist.WireId, i uint) netlist.WireId {
	if p.width(w) == 1 {
		return w
	}
	//
	return p.build.Bit(w, i)
}

// zeroBit returns the memoised single-bit constant zero.
func (p *Lowering) zeroBit() netlist.WireId {
	if !p.zero.IsUsed() {
		p.zero = p.build.Const(1, 0)
	}
	//
	return p.zero
}

func (p *Lowering) width(w netlist.WireId) uint {
	return p.graph.Wire(w).Width()
}

// checkLowered verifies the invariant this pass is responsible for: every
// gate has single-bit operands and result, and no composite operation
// survives.  A violation here is a synthesis bug, not a user error.
func (p *Lowering) checkLowered() error {
	for _, nid := range p.graph.Nets() {
		var (
			net = p.graph.Net(nid)
			op  = net.Op()
		)
		//
		switch {
		case op.IsGate():
			for _, w := range net.Inputs() {
				if p.graph.Wire(w).Width() != 1 {
					return netlist.NewInternalConsistencyError(
						"%s net driving \"%s\" has wide operand after synthesis",
						op, p.graph.Wire(net.Output()).Name())
				}
			}
			//
			if p.graph.Wire(net.Output()).Width() != 1 {
				return netlist.NewInternalConsistencyError(
					"%s net driving \"%s\" has wide result after synthesis",
					op, p.graph.Wire(net.Output()).Name())
			}
		case op == netlist.OP_COPY:
			if !p.graph.Wire(net.Output()).Kind().IsOutput() {
				return netlist.NewInternalConsistencyError(
					"copy net driving internal wire \"%s\" survived synthesis",
					p.graph.Wire(net.Output()).Name())
			}
		case op.IsWidthOnly() || op.IsSequential():
			// Part of the target form.
		default:
			return netlist.NewInternalConsistencyError(
				"composite %s net driving \"%s\" survived synthesis",
				op, p.graph.Wire(net.Output()).Name())
		}
	}
	//
	return nil
}
