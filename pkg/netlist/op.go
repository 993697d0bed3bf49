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

// OpKind captures the operation performed by a given net.  This is a closed
// set, enabling exhaustive matching in the synthesiser's lowering table and
// the optimiser's rewrite-applicability checks.
type OpKind struct {
	kind uint8
}

var (
	// OP_COPY signals a width-preserving buffer.
	OP_COPY = OpKind{uint8(0)}
	// OP_NOT signals bitwise negation.
	OP_NOT = OpKind{uint8(1)}
	// OP_AND signals bitwise conjunction.
	OP_AND = OpKind{uint8(2)}
	// OP_OR signals bitwise disjunction.
	OP_OR = OpKind{uint8(3)}
	// OP_XOR signals bitwise exclusive-or.
	OP_XOR = OpKind{uint8(4)}
	// OP_NAND signals negated bitwise conjunction.
	OP_NAND = OpKind{uint8(5)}
	// OP_ADD signals unsigned addition, producing one extra carry bit.
	OP_ADD = OpKind{uint8(6)}
	// OP_SUB signals subtraction modulo 2^(n+1) (i.e. two's complement over
	// one extra bit, such that the top bit acts as the sign).
	OP_SUB = OpKind{uint8(7)}
	// OP_MUL signals unsigned multiplication, producing a double-width result.
	OP_MUL = OpKind{uint8(8)}
	// OP_EQ signals an equality comparison, producing a single bit.
	OP_EQ = OpKind{uint8(9)}
	// OP_LT signals an unsigned less-than comparison, producing a single bit.
	OP_LT = OpKind{uint8(10)}
	// OP_GT signals an unsigned greater-than comparison, producing a single
	// bit.
	OP_GT = OpKind{uint8(11)}
	// OP_MUX signals a two-way multiplexer with a one bit selector.
	OP_MUX = OpKind{uint8(12)}
	// OP_SELECT signals bit selection, extracting a given sequence of bit
	// indices from its operand (indices may repeat, e.g. for sign extension).
	OP_SELECT = OpKind{uint8(13)}
	// OP_CONCAT signals concatenation of one or more operands, with the first
	// operand occupying the most significant bits.
	OP_CONCAT = OpKind{uint8(14)}
	// OP_REG signals a register update, latching its operand into a register
	// wire at the end of each cycle.
	OP_REG = OpKind{uint8(15)}
	// OP_MEMRD signals a memory read at a given address.
	OP_MEMRD = OpKind{uint8(16)}
	// OP_MEMWR signals a memory write, gated on a one bit enable.  Such nets
	// have no output wire.
	OP_MEMWR = OpKind{uint8(17)}
)

// NUM_OPS identifies the number of distinct operation kinds, which is useful
// for sizing per-kind lookup tables (e.g. delay or area models).
const NUM_OPS = 18

// Index returns the underlying index of this operation kind, enabling dense
// per-kind tables.
func (p OpKind) Index() uint {
	return uint(p.kind)
}

// IsSequential determines whether or not nets of this kind are sequential
// primitives.  Such nets are never decomposed by synthesis, never merged by
// the optimiser, and act as timing boundaries.
func (p OpKind) IsSequential() bool {
	return p == OP_REG || p == OP_MEMRD || p == OP_MEMWR
}

// IsGate determines whether or not this kind is one of the minimal gate set
// retained by synthesis.
func (p OpKind) IsGate() bool {
	return p == OP_AND || p == OP_OR || p == OP_XOR || p == OP_NOT
}

// IsWidthOnly determines whether or not this kind merely reassembles bits
// without creating any gates (and hence contributes neither delay nor area
// under the default models).
func (p OpKind) IsWidthOnly() bool {
	return p == OP_SELECT || p == OP_CONCAT || p == OP_COPY
}

// String returns a human-readable name for this operation kind.
func (p OpKind) String() string {
	switch p {
	case OP_COPY:
		return "copy"
	case OP_NOT:
		return "not"
	case OP_AND:
		return "and"
	case OP_OR:
		return "or"
	case OP_XOR:
		return "xor"
	case OP_NAND:
		return "nand"
	case OP_ADD:
		return "add"
	case OP_SUB:
		return "sub"
	case OP_MUL:
		return "mul"
	case OP_EQ:
		return "eq"
	case OP_LT:
		return "lt"
	case OP_GT:
		return "gt"
	case OP_MUX:
		return "mux"
	case OP_SELECT:
		return "select"
	case OP_CONCAT:
		return "concat"
	case OP_REG:
		return "reg"
	case OP_MEMRD:
		return "memrd"
	case OP_MEMWR:
		return "memwr"
	default:
		panic("unreachable")
	}
}
