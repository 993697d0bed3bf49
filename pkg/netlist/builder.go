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
package netlist

import (
	"math/big"
)

// Builder provides a front-end convenience layer over the raw graph mutation
// API: operand widths are implicitly matched by zero extension, result wires
// are allocated (and named) automatically, and the first error encountered is
// latched rather than threaded through every call.  A builder holds no state
// of its own beyond the latched error; there is no ambient "current graph",
// and several builders may target the same graph in turn.
type Builder struct {
	graph *Graph
	err   error
}

// NewBuilder constructs a builder targeting a given graph.
func NewBuilder(graph *Graph) *Builder {
	return &Builder{graph, nil}
}

// Graph returns the graph this builder targets.
func (p *Builder) Graph() *Graph {
	return p.graph
}

// Error returns the first error encountered by this builder, if any.  Once an
// error is latched all subsequent builder calls become no-ops.
func (p *Builder) Error() error {
	return p.err
}

// Failed checks whether this builder has latched an error.
func (p *Builder) Failed() bool {
	return p.err != nil
}

// ============================================================================
// Wires
// ============================================================================

// Input declares an externally driven wire.
func (p *Builder) Input(name string, width uint) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	return p.wire(p.graph.NewInputWire(name, width))
}

// Output declares an externally consumed wire.
func (p *Builder) Output(name string, width uint) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	return p.wire(p.graph.NewOutputWire(name, width))
}

// Const declares an anonymous constant wire of a given width and value.
func (p *Builder) Const(width uint, value int64) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	return p.wire(p.graph.NewConstWire("", width, big.NewInt(value)))
}

// Register declares a register wire with a given reset value.
func (p *Builder) Register(name string, width uint, reset int64) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	return p.wire(p.graph.NewRegisterWire(name, width, big.NewInt(reset)))
}

// Memory declares a storage block.
func (p *Builder) Memory(name string, addrWidth uint, dataWidth uint) MemId {
	if p.err != nil {
		return MemId{}
	}
	//
	mid, err := p.graph.NewMemory(name, addrWidth, dataWidth)
	p.err = err
	//
	return mid
}

// ============================================================================
// Operations
// ============================================================================

// Not produces the bitwise negation of a wire.
func (p *Builder) Not(x WireId) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	out := p.internal(p.width(x))
	p.net(OP_NOT, []WireId{x}, out)
	//
	return out
}

// And produces the bitwise conjunction of two wires, zero extending the
// narrower operand.
func (p *Builder) And(x WireId, y WireId) WireId {
	return p.binary(OP_AND, x, y)
}

// Or produces the bitwise disjunction of two wires.
func (p *Builder) Or(x WireId, y WireId) WireId {
	return p.binary(OP_OR, x, y)
}

// Xor produces the bitwise exclusive-or of two wires.
func (p *Builder) Xor(x WireId, y WireId) WireId {
	return p.binary(OP_XOR, x, y)
}

// Nand produces the negated bitwise conjunction of two wires.
func (p *Builder) Nand(x WireId, y WireId) WireId {
	return p.binary(OP_NAND, x, y)
}

// Add produces the sum of two wires, including the carry bit.
func (p *Builder) Add(x WireId, y WireId) WireId {
	return p.binary(OP_ADD, x, y)
}

// Sub produces the difference of two wires modulo 2^(n+1), such that the top
// bit of the result acts as the sign.
func (p *Builder) Sub(x WireId, y WireId) WireId {
	return p.binary(OP_SUB, x, y)
}

// Mul produces the (double width) product of two wires.
func (p *Builder) Mul(x WireId, y WireId) WireId {
	return p.binary(OP_MUL, x, y)
}

// Eq produces a single bit indicating whether two wires are equal.
func (p *Builder) Eq(x WireId, y WireId) WireId {
	return p.binary(OP_EQ, x, y)
}

// Lt produces a single bit indicating an unsigned less-than comparison.
func (p *Builder) Lt(x WireId, y WireId) WireId {
	return p.binary(OP_LT, x, y)
}

// Gt produces a single bit indicating an unsigned greater-than comparison.
func (p *Builder) Gt(x WireId, y WireId) WireId {
	return p.binary(OP_GT, x, y)
}

// Mux produces one of two cases according to a one bit selector, zero
// extending the narrower case.
func (p *Builder) Mux(sel WireId, ifTrue WireId, ifFalse WireId) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	ifTrue, ifFalse = p.match(ifTrue, ifFalse)
	out := p.internal(p.width(ifTrue))
	p.net(OP_MUX, []WireId{sel, ifTrue, ifFalse}, out)
	//
	return out
}

// Select extracts the given bit indices from a wire, least significant first.
func (p *Builder) Select(x WireId, indices ...uint) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	out := p.internal(uint(len(indices)))
	//
	if _, err := p.graph.AddSelectNet(x, indices, out); err != nil {
		p.err = err
	}
	//
	return out
}

// Bit extracts a single bit from a wire.
func (p *Builder) Bit(x WireId, index uint) WireId {
	return p.Select(x, index)
}

// Concat concatenates one or more wires, with the first occupying the most
// significant bits.
func (p *Builder) Concat(xs ...WireId) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	width := uint(0)
	//
	for _, x := range xs {
		width += p.width(x)
	}
	//
	out := p.internal(width)
	p.net(OP_CONCAT, xs, out)
	//
	return out
}

// Connect drives a given wire (typically an output) from a source wire via a
// buffer, zero extending the source if necessary.
func (p *Builder) Connect(dst WireId, src WireId) {
	if p.err != nil {
		return
	}
	//
	src = p.extend(src, p.width(dst))
	p.net(OP_COPY, []WireId{src}, dst)
}

// Next drives a register wire from the wire holding its next value.
func (p *Builder) Next(register WireId, next WireId) {
	if p.err != nil {
		return
	}
	//
	next = p.extend(next, p.width(register))
	p.net(OP_REG, []WireId{next}, register)
}

// MemRead produces the word of a memory at a given address.
func (p *Builder) MemRead(mem MemId, addr WireId) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	out := p.internal(p.graph.Memory(mem).DataWidth())
	//
	if _, err := p.graph.AddMemReadNet(mem, addr, out); err != nil {
		p.err = err
	}
	//
	return out
}

// MemWrite schedules a write of a memory at a given address, gated on a one
// bit enable.
func (p *Builder) MemWrite(mem MemId, addr WireId, data WireId, enable WireId) {
	if p.err != nil {
		return
	}
	//
	if _, err := p.graph.AddMemWriteNet(mem, addr, data, enable); err != nil {
		p.err = err
	}
}

// ============================================================================
// Helpers
// ============================================================================

func (p *Builder) binary(op OpKind, x WireId, y WireId) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	x, y = p.match(x, y)
	//
	var width uint
	//
	switch op {
	case OP_ADD, OP_SUB:
		width = p.width(x) + 1
	case OP_MUL:
		width = 2 * p.width(x)
	case OP_EQ, OP_LT, OP_GT:
		width = 1
	default:
		width = p.width(x)
	}
	//
	out := p.internal(width)
	p.net(op, []WireId{x, y}, out)
	//
	return out
}

// match zero extends the narrower of two wires so both have equal width.
func (p *Builder) match(x WireId, y WireId) (WireId, WireId) {
	if p.err != nil {
		return x, y
	}
	//
	xw, yw := p.width(x), p.width(y)
	//
	if xw < yw {
		x = p.extend(x, yw)
	} else if yw < xw {
		y = p.extend(y, xw)
	}
	//
	return x, y
}

// extend zero extends a wire to a given width by concatenating constant zero
// bits above it.
func (p *Builder) extend(x WireId, width uint) WireId {
	if p.err != nil || p.width(x) >= width {
		return x
	}
	//
	zeros := p.Const(width-p.width(x), 0)
	//
	return p.Concat(zeros, x)
}

func (p *Builder) width(x WireId) uint {
	if p.err != nil || !x.IsUsed() {
		return 1
	}
	//
	return p.graph.Wire(x).Width()
}

func (p *Builder) internal(width uint) WireId {
	if p.err != nil {
		return NewUnusedWireId()
	}
	//
	return p.wire(p.graph.NewInternalWire("", width))
}

func (p *Builder) net(op OpKind, inputs []WireId, output WireId) {
	if p.err != nil {
		return
	}
	//
	if _, err := p.graph.AddNet(op, inputs, output); err != nil {
		p.err = err
	}
}

func (p *Builder) wire(wid WireId, err error) WireId {
	if err != nil {
		p.err = err
		return NewUnusedWireId()
	}
	//
	return wid
}
