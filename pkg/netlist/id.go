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
	"cmp"
	"math"
)

// WireId captures the notion of a wire index within a graph.  That is, every
// wire in a graph is allocated a given index starting from 0.  The purpose of
// the wrapper is to avoid confusion between uint values and things which are
// expected to identify wires.
type WireId struct {
	index uint
}

// NewWireId constructs a new wire ID from a given raw index.
func NewWireId(index uint) WireId {
	return WireId{index}
}

// NewUnusedWireId constructs something akin to a null reference.  This is used
// in situations where we may (or may not) want to refer to a specific wire
// (e.g. the output of a memory write, which has none).
func NewUnusedWireId() WireId {
	return WireId{math.MaxUint}
}

// Unwrap returns the underlying wire index.
func (p WireId) Unwrap() uint {
	if p.index == math.MaxUint {
		panic("attempt to unwrap unused wire id")
	}
	//
	return p.index
}

// IsUsed checks whether this corresponds to a valid wire index.
func (p WireId) IsUsed() bool {
	return p.index != math.MaxUint
}

// Cmp implementation for wire identifiers, allowing them to be sorted.
func (p WireId) Cmp(q WireId) int {
	return cmp.Compare(p.index, q.index)
}

// ============================================================================

// NetId captures the notion of a net index within a graph.  Nets are allocated
// indices in insertion order, and this order is used as the deterministic
// tie-break throughout the pass pipeline.
type NetId struct {
	index uint
}

// NewNetId constructs a new net ID from a given raw index.
func NewNetId(index uint) NetId {
	return NetId{index}
}

// NewUnusedNetId constructs something akin to a null reference.  This is used,
// for example, as the producer of wires which have no producing net (inputs,
// constants, etc).
func NewUnusedNetId() NetId {
	return NetId{math.MaxUint}
}

// Unwrap returns the underlying net index.
func (p NetId) Unwrap() uint {
	if p.index == math.MaxUint {
		panic("attempt to unwrap unused net id")
	}
	//
	return p.index
}

// IsUsed checks whether this corresponds to a valid net index.
func (p NetId) IsUsed() bool {
	return p.index != math.MaxUint
}

// Cmp implementation for net identifiers, allowing them to be sorted.
func (p NetId) Cmp(q NetId) int {
	return cmp.Compare(p.index, q.index)
}

// ============================================================================

// MemId captures the notion of a memory index within a graph.  Memories are
// declared on the graph, and read / write nets refer to them by index.
type MemId struct {
	index uint
}

// NewMemId constructs a new memory ID from a given raw index.
func NewMemId(index uint) MemId {
	return MemId{index}
}

// Unwrap returns the underlying memory index.
func (p MemId) Unwrap() uint {
	return p.index
}
