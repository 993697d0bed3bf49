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
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// Graph is the netlist intermediate representation: a mutable hyper-graph of
// operation nets connected by typed wires.  Wires and nets live in growable
// arenas addressed by stable indices, with producer / consumer links stored as
// indices rather than direct references.  Removal tombstones an arena slot
// rather than compacting, so identifiers remain stable across the pass
// pipeline.
//
// All mutation is in place and single-threaded; passes which mutate the graph
// (synthesis, optimisation) require exclusive access, whilst analyses only
// read it.
type Graph struct {
	// Wire arena, addressed by WireId.
	wires []Wire
	// Net arena, addressed by NetId.  Iteration follows insertion order, which
	// is the deterministic tie-break used throughout the pass pipeline.
	nets []Net
	// Declared memories, addressed by MemId.
	memories []Memory
	// Producer net of each wire (unused id when externally driven).
	producer []NetId
	// Consumer nets of each wire, in insertion order.
	consumers [][]NetId
	// Wires looked up by name.
	names map[string]WireId
	// Memories looked up by name (sharing the wire namespace).
	memNames map[string]MemId
	// External interface of the graph.
	inputs  []WireId
	outputs []WireId
	// Tombstones for removed nets / wires.
	removedNets  *bitset.BitSet
	removedWires *bitset.BitSet
	// Number of live nets.
	nlive uint
	// Counter for generated wire names.
	autoname uint
}

// NewGraph constructs a new, empty graph.
func NewGraph() *Graph {
	return &Graph{
		names:        make(map[string]WireId),
		memNames:     make(map[string]MemId),
		removedNets:  bitset.New(64),
		removedWires: bitset.New(64),
	}
}

// ============================================================================
// Wire construction
// ============================================================================

// NewInputWire adds an externally driven wire of a given width to this graph.
// An empty name requests a generated one.
func (p *Graph) NewInputWire(name string, width uint) (WireId, error) {
	wid, err := p.newWire(INPUT_WIRE, name, width, nil, nil)
	//
	if err == nil {
		p.inputs = append(p.inputs, wid)
	}
	//
	return wid, err
}

// NewOutputWire adds an externally consumed wire of a given width to this
// graph.  Output wires must have exactly one driving net by the time the
// graph is validated.
func (p *Graph) NewOutputWire(name string, width uint) (WireId, error) {
	wid, err := p.newWire(OUTPUT_WIRE, name, width, nil, nil)
	//
	if err == nil {
		p.outputs = append(p.outputs, wid)
	}
	//
	return wid, err
}

// NewRegisterWire adds a register output wire with a given reset value, which
// defaults to zero when nil.
func (p *Graph) NewRegisterWire(name string, width uint, reset *big.Int) (WireId, error) {
	if reset == nil {
		reset = big.NewInt(0)
	}
	//
	return p.newWire(REGISTER_WIRE, name, width, nil, reset)
}

// NewConstWire adds a wire carrying an immutable value, which is truncated to
// the given width.
func (p *Graph) NewConstWire(name string, width uint, value *big.Int) (WireId, error) {
	return p.newWire(CONST_WIRE, name, width, Truncate(value, width), nil)
}

// NewInternalWire adds a wire produced by exactly one net and consumed by zero
// or more nets.
func (p *Graph) NewInternalWire(name string, width uint) (WireId, error) {
	return p.newWire(INTERNAL_WIRE, name, width, nil, nil)
}

// NewMemory declares a storage block with a given address and data width.
// Memory names share the wire namespace.
func (p *Graph) NewMemory(name string, addrWidth uint, dataWidth uint) (MemId, error) {
	if p.nameTaken(name) {
		return MemId{}, errDuplicateName(name)
	}
	//
	mid := NewMemId(uint(len(p.memories)))
	p.memories = append(p.memories, Memory{name, addrWidth, dataWidth})
	p.memNames[name] = mid
	//
	return mid, nil
}

func (p *Graph) newWire(kind WireKind, name string, width uint, value *big.Int, reset *big.Int) (WireId, error) {
	if width == 0 {
		panic("zero width wire")
	}
	//
	if name == "" {
		name = p.freshName()
	} else if p.nameTaken(name) {
		return NewUnusedWireId(), errDuplicateName(name)
	}
	//
	wid := NewWireId(uint(len(p.wires)))
	p.wires = append(p.wires, Wire{kind, name, width, value, reset})
	p.producer = append(p.producer, NewUnusedNetId())
	p.consumers = append(p.consumers, nil)
	p.names[name] = wid
	//
	return wid, nil
}

func (p *Graph) nameTaken(name string) bool {
	_, w := p.names[name]
	_, m := p.memNames[name]
	//
	return w || m
}

// freshName generates a wire name guaranteed not to collide with any existing
// name.  Generated names use a "$" prefix, which the bench file format never
// produces.
func (p *Graph) freshName() string {
	for {
		name := fmt.Sprintf("$%d", p.autoname)
		p.autoname++
		//
		if !p.nameTaken(name) {
			return name
		}
	}
}

// ============================================================================
// Net construction
// ============================================================================

// AddNet adds an operation net connecting given input wires to a given output
// wire.  This fails if the output wire already has a producer, if operand
// widths violate the operation's contract, or if the net would introduce a
// combinational cycle.  On failure the graph is left unchanged.  Selection and
// memory access nets carry extra parameters and have dedicated constructors.
func (p *Graph) AddNet(op OpKind, inputs []WireId, output WireId) (NetId, error) {
	if op == OP_SELECT || op == OP_MEMRD || op == OP_MEMWR {
		panic(fmt.Sprintf("%s net requires dedicated constructor", op))
	}
	//
	return p.addNet(Net{op, inputs, output, nil, MemId{}})
}

// AddSelectNet adds a bit selection net extracting the given bit indices
// (least significant bit first in the output) from its operand.  Indices may
// repeat.
func (p *Graph) AddSelectNet(input WireId, indices []uint, output WireId) (NetId, error) {
	return p.addNet(Net{OP_SELECT, []WireId{input}, output, indices, MemId{}})
}

// AddMemReadNet adds a read port on a given memory.
func (p *Graph) AddMemReadNet(mem MemId, addr WireId, output WireId) (NetId, error) {
	return p.addNet(Net{OP_MEMRD, []WireId{addr}, output, nil, mem})
}

// AddMemWriteNet adds a write port on a given memory, gated on a one bit
// enable wire.  Write nets have no output wire.
func (p *Graph) AddMemWriteNet(mem MemId, addr WireId, data WireId, enable WireId) (NetId, error) {
	return p.addNet(Net{OP_MEMWR, []WireId{addr, data, enable}, NewUnusedWireId(), nil, mem})
}

func (p *Graph) addNet(net Net) (NetId, error) {
	// Check input wires are usable as operands.
	for _, w := range net.inputs {
		if p.Wire(w).Kind() == OUTPUT_WIRE {
			return NewUnusedNetId(), p.errWidthMismatch(&net,
				fmt.Sprintf("output wire \"%s\" cannot be read internally", p.Wire(w).Name()))
		}
	}
	// Check output wire is usable as a result.
	if net.output.IsUsed() {
		kind := p.Wire(net.output).Kind()
		//
		switch {
		case kind == INPUT_WIRE || kind == CONST_WIRE:
			return NewUnusedNetId(), p.errWidthMismatch(&net,
				fmt.Sprintf("%s wire \"%s\" cannot be driven", kind, p.Wire(net.output).Name()))
		case kind == REGISTER_WIRE && net.op != OP_REG:
			return NewUnusedNetId(), p.errWidthMismatch(&net, "register wire driven by non-register net")
		case kind != REGISTER_WIRE && net.op == OP_REG:
			return NewUnusedNetId(), p.errWidthMismatch(&net, "register net must drive a register wire")
		case p.producer[net.output.Unwrap()].IsUsed():
			return NewUnusedNetId(), p.errMultipleDrivers(net.output)
		}
	}
	// Check operand widths.
	if err := p.checkWidths(&net); err != nil {
		return NewUnusedNetId(), err
	}
	// Check for combinational cycles.
	if err := p.checkAcyclic(&net); err != nil {
		return NewUnusedNetId(), err
	}
	// Commit.
	nid := NewNetId(uint(len(p.nets)))
	p.nets = append(p.nets, net)
	p.nlive++
	//
	if net.output.IsUsed() {
		p.producer[net.output.Unwrap()] = nid
	}
	//
	for _, w := range net.inputs {
		p.consumers[w.Unwrap()] = append(p.consumers[w.Unwrap()], nid)
	}
	//
	return nid, nil
}

// checkAcyclic determines whether a (not yet committed) net would close a
// combinational cycle.  This walks downstream from the net's output wire
// through combinationally visible consumers, looking for any of the net's
// input wires.  Only register updates and memory writes break the walk, since
// memory read values are combinationally visible (as in TopologicalOrder).
// The cost is proportional to the existing fan-out cone of the output, which
// is empty during normal front-to-back construction.
func (p *Graph) checkAcyclic(net *Net) error {
	if net.op == OP_REG || !net.output.IsUsed() {
		return nil
	}
	//
	var (
		visited = bitset.New(uint(len(p.wires)))
		stack   = []WireId{net.output}
	)
	//
	for len(stack) > 0 {
		wire := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		//
		if visited.Test(wire.Unwrap()) {
			continue
		}
		//
		visited.Set(wire.Unwrap())
		// Check whether we have closed the loop.
		for _, in := range net.inputs {
			if in == wire {
				return p.errCyclicLogic(wire)
			}
		}
		// Advance through combinationally visible consumers.
		for _, nid := range p.consumers[wire.Unwrap()] {
			consumer := p.Net(nid)
			//
			if consumer.op != OP_REG && consumer.output.IsUsed() {
				stack = append(stack, consumer.output)
			}
		}
	}
	// No cycle found.
	return nil
}

// ============================================================================
// Mutation
// ============================================================================

// RemoveNet drops a given net from this graph, detaching it from the producer
// and consumer tables.  Wires of the net which are thereby left with neither
// producer nor consumers are removed as well, unless they form part of the
// external interface.
func (p *Graph) RemoveNet(nid NetId) {
	if p.removedNets.Test(nid.Unwrap()) {
		panic("net already removed")
	}
	//
	net := &p.nets[nid.Unwrap()]
	p.removedNets.Set(nid.Unwrap())
	p.nlive--
	// Detach output.
	if net.output.IsUsed() {
		p.producer[net.output.Unwrap()] = NewUnusedNetId()
		p.reapWire(net.output)
	}
	// Detach inputs.
	for _, w := range net.inputs {
		p.consumers[w.Unwrap()] = remove(p.consumers[w.Unwrap()], nid)
		p.reapWire(w)
	}
}

// ReplaceUses rewires every consumer of one wire to another wire of the same
// width.  The original wire keeps its producer (if any) but is left without
// consumers.
func (p *Graph) ReplaceUses(from WireId, to WireId) {
	if from == to {
		return
	} else if p.Wire(from).Width() != p.Wire(to).Width() {
		panic("rewiring across mismatched widths")
	}
	//
	for _, nid := range p.consumers[from.Unwrap()] {
		net := &p.nets[nid.Unwrap()]
		//
		for i, w := range net.inputs {
			if w == from {
				net.inputs[i] = to
			}
		}
		//
		p.consumers[to.Unwrap()] = append(p.consumers[to.Unwrap()], nid)
	}
	//
	p.consumers[from.Unwrap()] = nil
}

// reapWire tombstones a wire which no longer has any producer or consumers,
// provided it does not form part of the external interface.
func (p *Graph) reapWire(wid WireId) {
	var (
		index = wid.Unwrap()
		wire  = &p.wires[index]
	)
	//
	if wire.kind == INPUT_WIRE || wire.kind == OUTPUT_WIRE {
		return
	} else if p.producer[index].IsUsed() || len(p.consumers[index]) > 0 {
		return
	} else if !p.removedWires.Test(index) {
		p.removedWires.Set(index)
		delete(p.names, wire.name)
	}
}

func remove(ids []NetId, id NetId) []NetId {
	for i, n := range ids {
		if n == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	//
	return ids
}

// ============================================================================
// Queries
// ============================================================================

// Wire returns the wire stored at a given index.
func (p *Graph) Wire(wid WireId) *Wire {
	return &p.wires[wid.Unwrap()]
}

// Net returns the net stored at a given index.
func (p *Graph) Net(nid NetId) *Net {
	return &p.nets[nid.Unwrap()]
}

// Memory returns the memory stored at a given index.
func (p *Graph) Memory(mid MemId) *Memory {
	return &p.memories[mid.Unwrap()]
}

// Producer returns the net producing a given wire, which is unused for
// externally driven wires (inputs, constants) and undriven registers.
func (p *Graph) Producer(wid WireId) NetId {
	return p.producer[wid.Unwrap()]
}

// Consumers returns the nets consuming a given wire, in insertion order.  The
// returned slice must not be mutated.
func (p *Graph) Consumers(wid WireId) []NetId {
	return p.consumers[wid.Unwrap()]
}

// FindWire looks a wire up by name.
func (p *Graph) FindWire(name string) (WireId, bool) {
	wid, ok := p.names[name]
	return wid, ok
}

// FindMemory looks a memory up by name.
func (p *Graph) FindMemory(name string) (MemId, bool) {
	mid, ok := p.memNames[name]
	return mid, ok
}

// Nets returns the identifiers of all live nets, in insertion order.
func (p *Graph) Nets() []NetId {
	nids := make([]NetId, 0, p.nlive)
	//
	for i := range p.nets {
		if !p.removedNets.Test(uint(i)) {
			nids = append(nids, NewNetId(uint(i)))
		}
	}
	//
	return nids
}

// Wires returns the identifiers of all live wires, in insertion order.
func (p *Graph) Wires() []WireId {
	wids := make([]WireId, 0, len(p.wires))
	//
	for i := range p.wires {
		if !p.removedWires.Test(uint(i)) {
			wids = append(wids, NewWireId(uint(i)))
		}
	}
	//
	return wids
}

// NetCount returns the number of live nets in this graph.
func (p *Graph) NetCount() uint {
	return p.nlive
}

// WireBound returns one past the largest wire index ever allocated, which is
// useful for sizing per-wire tables (including tombstoned slots).
func (p *Graph) WireBound() uint {
	return uint(len(p.wires))
}

// IsRemoved checks whether a given wire slot has been tombstoned.
func (p *Graph) IsRemoved(wid WireId) bool {
	return p.removedWires.Test(wid.Unwrap())
}

// Inputs returns the externally driven wires of this graph, in declaration
// order.
func (p *Graph) Inputs() []WireId {
	return p.inputs
}

// Outputs returns the externally consumed wires of this graph, in declaration
// order.
func (p *Graph) Outputs() []WireId {
	return p.outputs
}

// Memories returns the number of declared memories.
func (p *Graph) Memories() uint {
	return uint(len(p.memories))
}

// ============================================================================
// Validation
// ============================================================================

// Validate performs a full well-formedness check of this graph: every output
// wire must have exactly one driver, every net must meet its width contract,
// and the combinational subgraph must be acyclic.  Mutating operations
// maintain these invariants individually; this re-establishes them wholesale
// (e.g. after parsing an untrusted file).
func (p *Graph) Validate() error {
	for _, wid := range p.outputs {
		if !p.producer[wid.Unwrap()].IsUsed() {
			return &StructuralError{NO_DRIVER,
				fmt.Sprintf("output wire \"%s\" has no driver", p.Wire(wid).Name())}
		}
	}
	//
	for _, nid := range p.Nets() {
		if err := p.checkWidths(p.Net(nid)); err != nil {
			return err
		}
	}
	//
	return p.checkTopological()
}

// checkTopological checks the combinational subgraph is acyclic by attempting
// a Kahn-style topological sweep over it.
func (p *Graph) checkTopological() error {
	_, err := p.TopologicalOrder()
	return err
}

// TopologicalOrder returns all live combinational nets (including memory
// reads, whose value is combinationally visible) in a valid evaluation order,
// using insertion order as the tie-break.  Sequential nets are excluded.  This
// fails if the combinational subgraph contains a cycle.
func (p *Graph) TopologicalOrder() ([]NetId, error) {
	var (
		// Number of unresolved operand wires per net.
		pending = make(map[NetId]uint)
		// Nets ready for processing.
		ready []NetId
		order []NetId
		total uint
	)
	// A wire is initially resolved if it has no combinational producer.
	resolved := func(wid WireId) bool {
		producer := p.producer[wid.Unwrap()]
		return !producer.IsUsed() || p.Net(producer).op == OP_REG
	}
	//
	for _, nid := range p.Nets() {
		net := p.Net(nid)
		//
		if net.op == OP_REG || net.op == OP_MEMWR {
			continue
		}
		//
		count := uint(0)
		//
		for _, w := range net.inputs {
			if !resolved(w) {
				count++
			}
		}
		//
		total++
		//
		if count == 0 {
			ready = append(ready, nid)
		} else {
			pending[nid] = count
		}
	}
	//
	for len(ready) > 0 {
		nid := ready[0]
		ready = ready[1:]
		order = append(order, nid)
		// Resolve this net's output.
		out := p.Net(nid).output
		//
		for _, cid := range p.consumers[out.Unwrap()] {
			if count, ok := pending[cid]; ok {
				if count == 1 {
					delete(pending, cid)
					ready = append(ready, cid)
				} else {
					pending[cid] = count - 1
				}
			}
		}
	}
	// Any unresolved net implies a cycle.
	if uint(len(order)) != total {
		for _, nid := range p.Nets() {
			if _, ok := pending[nid]; ok {
				return nil, p.errCyclicLogic(p.Net(nid).output)
			}
		}
		//
		panic("unreachable")
	}
	//
	return order, nil
}
