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

// Net represents an operation node within a graph, connecting an ordered list
// of input wires to a single output wire.  Memory write nets are the one
// exception, having no output wire at all.  Bit selection nets additionally
// carry the selected bit indices, whilst memory access nets carry the index of
// the memory they access.
type Net struct {
	// Operation performed by this net.
	op OpKind
	// Ordered input wires of this net.
	inputs []WireId
	// Output wire of this net (unused for memory writes).
	output WireId
	// Selected bit indices (selection nets only), where index zero identifies
	// the least significant bit.
	indices []uint
	// Accessed memory (memory read / write nets only).
	memory MemId
}

// Op returns the operation performed by this net.
func (p *Net) Op() OpKind {
	return p.op
}

// Inputs returns the ordered input wires of this net.  The returned slice must
// not be mutated.
func (p *Net) Inputs() []WireId {
	return p.inputs
}

// Output returns the output wire of this net, which is unused for memory
// write nets.
func (p *Net) Output() WireId {
	return p.output
}

// Indices returns the selected bit indices of this net, which must be a bit
// selection net.
func (p *Net) Indices() []uint {
	if p.op != OP_SELECT {
		panic("attempt to read indices of non-selection net")
	}
	//
	return p.indices
}

// Memory returns the memory accessed by this net, which must be a memory read
// or write net.
func (p *Net) Memory() MemId {
	if p.op != OP_MEMRD && p.op != OP_MEMWR {
		panic("attempt to read memory of non-memory net")
	}
	//
	return p.memory
}

// checkWidths determines whether the operands and output of a given net meet
// the arity / width contract of its operation.  Observe that operands must
// already be width matched; implicit zero extension is the builder's
// responsibility, not the graph's.
func (p *Graph) checkWidths(net *Net) error {
	var (
		widths = make([]uint, len(net.inputs))
		out    uint
	)
	//
	for i, w := range net.inputs {
		widths[i] = p.Wire(w).Width()
	}
	//
	if net.output.IsUsed() {
		out = p.Wire(net.output).Width()
	}
	//
	switch net.op {
	case OP_COPY, OP_NOT:
		return p.checkArity(net, widths, 1, widths[0], out)
	case OP_AND, OP_OR, OP_XOR, OP_NAND:
		return p.checkBinary(net, widths, widths[0], out)
	case OP_ADD, OP_SUB:
		return p.checkBinary(net, widths, widths[0]+1, out)
	case OP_MUL:
		return p.checkBinary(net, widths, 2*widths[0], out)
	case OP_EQ, OP_LT, OP_GT:
		return p.checkBinary(net, widths, 1, out)
	case OP_MUX:
		if len(widths) != 3 {
			return p.errWidthMismatch(net, "multiplexer requires three operands")
		} else if widths[0] != 1 {
			return p.errWidthMismatch(net, "multiplexer selector must be one bit")
		} else if widths[1] != widths[2] {
			return p.errWidthMismatch(net, "multiplexer cases have mismatched widths")
		} else if out != widths[1] {
			return p.errWidthMismatch(net, "output width does not match operands")
		}
	case OP_SELECT:
		if len(widths) != 1 {
			return p.errWidthMismatch(net, "selection requires exactly one operand")
		} else if out != uint(len(net.indices)) {
			return p.errWidthMismatch(net, "output width does not match index count")
		}
		//
		for _, index := range net.indices {
			if index >= widths[0] {
				return p.errWidthMismatch(net, "selected bit index out of range")
			}
		}
	case OP_CONCAT:
		sum := uint(0)
		//
		for _, w := range widths {
			sum += w
		}
		//
		if len(widths) == 0 {
			return p.errWidthMismatch(net, "concatenation requires at least one operand")
		} else if out != sum {
			return p.errWidthMismatch(net, "output width does not match operand widths")
		}
	case OP_REG:
		if len(widths) != 1 || out != widths[0] {
			return p.errWidthMismatch(net, "register update width does not match register")
		}
	case OP_MEMRD:
		mem := p.Memory(net.memory)
		//
		if len(widths) != 1 || widths[0] != mem.AddressWidth() {
			return p.errWidthMismatch(net, "address width does not match memory")
		} else if out != mem.DataWidth() {
			return p.errWidthMismatch(net, "output width does not match memory word")
		}
	case OP_MEMWR:
		mem := p.Memory(net.memory)
		//
		if len(widths) != 3 {
			return p.errWidthMismatch(net, "memory write requires address, data and enable")
		} else if widths[0] != mem.AddressWidth() {
			return p.errWidthMismatch(net, "address width does not match memory")
		} else if widths[1] != mem.DataWidth() {
			return p.errWidthMismatch(net, "data width does not match memory word")
		} else if widths[2] != 1 {
			return p.errWidthMismatch(net, "write enable must be one bit")
		}
	default:
		panic("unreachable")
	}
	// Success
	return nil
}

// checkBinary checks a net has exactly two equal-width operands, and that its
// output has a given expected width.
func (p *Graph) checkBinary(net *Net, widths []uint, expected uint, out uint) error {
	if len(widths) != 2 {
		return p.errWidthMismatch(net, "operation requires exactly two operands")
	} else if widths[0] != widths[1] {
		return p.errWidthMismatch(net, "operands have mismatched widths")
	}
	//
	return p.checkArity(net, widths, 2, expected, out)
}

// checkArity checks a net has a given number of operands and output width.
func (p *Graph) checkArity(net *Net, widths []uint, arity int, expected uint, out uint) error {
	if len(widths) != arity {
		return p.errWidthMismatch(net, "incorrect number of operands")
	} else if out != expected {
		return p.errWidthMismatch(net, "output width does not match operands")
	}
	// Success
	return nil
}
