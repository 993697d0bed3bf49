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

// EvalOp computes the value produced by a combinational operation for given
// operand values.  Operand values must be non-negative and fit their declared
// widths.  This is the single definition of operation semantics, shared by
// the simulator and by constant propagation so the two can never disagree.
// Sequential operations (register updates, memory accesses) have no value
// function here and must be handled by the caller.
func EvalOp(op OpKind, indices []uint, widths []uint, args []*big.Int) *big.Int {
	result := big.NewInt(0)
	//
	switch op {
	case OP_COPY:
		result.Set(args[0])
	case OP_NOT:
		result.Xor(args[0], onesMask(widths[0]))
	case OP_AND:
		result.And(args[0], args[1])
	case OP_OR:
		result.Or(args[0], args[1])
	case OP_XOR:
		result.Xor(args[0], args[1])
	case OP_NAND:
		result.And(args[0], args[1])
		result.Xor(result, onesMask(widths[0]))
	case OP_ADD:
		result.Add(args[0], args[1])
	case OP_SUB:
		// Two's complement over one extra bit.
		result.Sub(args[0], args[1])
		result = Truncate(result, widths[0]+1)
	case OP_MUL:
		result.Mul(args[0], args[1])
	case OP_EQ:
		result = bit(args[0].Cmp(args[1]) == 0)
	case OP_LT:
		result = bit(args[0].Cmp(args[1]) < 0)
	case OP_GT:
		result = bit(args[0].Cmp(args[1]) > 0)
	case OP_MUX:
		if args[0].Sign() != 0 {
			result.Set(args[1])
		} else {
			result.Set(args[2])
		}
	case OP_SELECT:
		for i, index := range indices {
			if args[0].Bit(int(index)) == 1 {
				result.SetBit(result, i, 1)
			}
		}
	case OP_CONCAT:
		// First operand occupies the most significant bits.
		for i, arg := range args {
			result.Lsh(result, widths[i])
			result.Or(result, arg)
		}
	default:
		panic("unreachable")
	}
	//
	return result
}

// Truncate reduces a value modulo 2^width, mapping nil to zero.  The result
// is always a fresh, non-negative value.
func Truncate(value *big.Int, width uint) *big.Int {
	result := big.NewInt(0)
	//
	if value != nil {
		modulus := new(big.Int).Lsh(big.NewInt(1), width)
		result.Mod(value, modulus)
	}
	//
	return result
}

// onesMask returns the all-ones value of a given width.
func onesMask(width uint) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	//
	return mask.Sub(mask, big.NewInt(1))
}

func bit(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	//
	return big.NewInt(0)
}
