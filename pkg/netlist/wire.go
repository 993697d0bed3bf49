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

// WireKind captures the kind of a given wire, such as whether it represents an
// external input, an external output, a register output, etc.
type WireKind struct {
	kind uint8
}

var (
	// INPUT_WIRE signals a wire driven externally, having no producing net
	// within the graph.
	INPUT_WIRE = WireKind{uint8(0)}
	// OUTPUT_WIRE signals a wire consumed externally.  Such wires have exactly
	// one producing net (by the time the graph is validated) and no internal
	// consumers.
	OUTPUT_WIRE = WireKind{uint8(1)}
	// REGISTER_WIRE signals the output of a register, whose value is available
	// at the start of each cycle.  Such wires are produced only by register
	// update nets.
	REGISTER_WIRE = WireKind{uint8(2)}
	// CONST_WIRE signals a wire carrying an immutable value fixed at creation.
	CONST_WIRE = WireKind{uint8(3)}
	// INTERNAL_WIRE signals a wire produced by exactly one net and consumed by
	// zero or more nets.
	INTERNAL_WIRE = WireKind{uint8(4)}
)

// IsInput determines whether or not this is an input wire.
func (p WireKind) IsInput() bool {
	return p == INPUT_WIRE
}

// IsOutput determines whether or not this is an output wire.
func (p WireKind) IsOutput() bool {
	return p == OUTPUT_WIRE
}

// IsSource determines whether or not wires of this kind act as timing sources.
// That is, their value is available at the start of each cycle without any
// combinational logic firing.
func (p WireKind) IsSource() bool {
	return p == INPUT_WIRE || p == REGISTER_WIRE || p == CONST_WIRE
}

// String returns a human-readable name for this wire kind.
func (p WireKind) String() string {
	switch p {
	case INPUT_WIRE:
		return "input"
	case OUTPUT_WIRE:
		return "output"
	case REGISTER_WIRE:
		return "register"
	case CONST_WIRE:
		return "const"
	case INTERNAL_WIRE:
		return "internal"
	default:
		panic("unreachable")
	}
}

// ============================================================================

// Wire represents a named, typed, fixed-bitwidth signal within a graph.
// Constant wires additionally carry their (immutable) value, whilst register
// wires carry a reset value.
type Wire struct {
	// Kind of this wire (input, output, etc).
	kind WireKind
	// Unique name of this wire within the enclosing graph.
	name string
	// Bitwidth of this wire (always at least one).
	width uint
	// Value of this wire (constant wires only).
	value *big.Int
	// Reset value of this wire (register wires only).
	reset *big.Int
}

// Kind returns the kind of this wire.
func (p *Wire) Kind() WireKind {
	return p.kind
}

// Name returns the name of this wire.
func (p *Wire) Name() string {
	return p.name
}

// Width returns the bitwidth of this wire.
func (p *Wire) Width() uint {
	return p.width
}

// Value returns the value carried by this wire, which must be a constant wire.
func (p *Wire) Value() *big.Int {
	if p.kind != CONST_WIRE {
		panic("attempt to read value of non-constant wire")
	}
	//
	return p.value
}

// Reset returns the reset value of this wire, which must be a register wire.
func (p *Wire) Reset() *big.Int {
	if p.kind != REGISTER_WIRE {
		panic("attempt to read reset value of non-register wire")
	}
	//
	return p.reset
}

// ============================================================================

// Memory represents a declared storage block within a graph.  Memories are
// atomic primitives which the pass pipeline never decomposes; they are
// accessed via memory read / write nets referring to them by index.
type Memory struct {
	// Name of this memory within the enclosing graph.
	name string
	// Number of address bits.
	addrWidth uint
	// Number of data bits per word.
	dataWidth uint
}

// Name returns the name of this memory.
func (p *Memory) Name() string {
	return p.name
}

// AddressWidth returns the number of address bits of this memory.
func (p *Memory) AddressWidth() uint {
	return p.addrWidth
}

// DataWidth returns the number of data bits per word of this memory.
func (p *Memory) DataWidth() uint {
	return p.dataWidth
}

// Words returns the number of addressable words in this memory.
func (p *Memory) Words() uint {
	return uint(1) << p.addrWidth
}
