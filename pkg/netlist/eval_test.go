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
	"testing"
)

func Test_Eval_01(t *testing.T) {
	checkEval(t, OP_NOT, nil, []uint{4}, 5, 10)
}

func Test_Eval_02(t *testing.T) {
	checkEval(t, OP_AND, nil, []uint{4, 4}, 12, 10, 8)
}

func Test_Eval_03(t *testing.T) {
	checkEval(t, OP_OR, nil, []uint{4, 4}, 12, 10, 14)
}

func Test_Eval_04(t *testing.T) {
	checkEval(t, OP_XOR, nil, []uint{4, 4}, 12, 10, 6)
}

func Test_Eval_05(t *testing.T) {
	checkEval(t, OP_NAND, nil, []uint{4, 4}, 12, 10, 7)
}

func Test_Eval_06(t *testing.T) {
	// Carry bit is part of the sum.
	checkEval(t, OP_ADD, nil, []uint{4, 4}, 15, 1, 16)
}

func Test_Eval_07(t *testing.T) {
	checkEval(t, OP_SUB, nil, []uint{4, 4}, 7, 3, 4)
}

func Test_Eval_08(t *testing.T) {
	// 3 - 7 == -4 == 28 modulo 2^5, so the top bit acts as the sign.
	checkEval(t, OP_SUB, nil, []uint{4, 4}, 3, 7, 28)
}

func Test_Eval_09(t *testing.T) {
	checkEval(t, OP_MUL, nil, []uint{4, 4}, 15, 15, 225)
}

func Test_Eval_10(t *testing.T) {
	checkEval(t, OP_EQ, nil, []uint{4, 4}, 7, 7, 1)
	checkEval(t, OP_EQ, nil, []uint{4, 4}, 7, 8, 0)
}

func Test_Eval_11(t *testing.T) {
	checkEval(t, OP_LT, nil, []uint{4, 4}, 3, 7, 1)
	checkEval(t, OP_LT, nil, []uint{4, 4}, 7, 3, 0)
	checkEval(t, OP_LT, nil, []uint{4, 4}, 7, 7, 0)
}

func Test_Eval_12(t *testing.T) {
	checkEval(t, OP_GT, nil, []uint{4, 4}, 7, 3, 1)
	checkEval(t, OP_GT, nil, []uint{4, 4}, 3, 7, 0)
}

func Test_Eval_13(t *testing.T) {
	checkEval(t, OP_MUX, nil, []uint{1, 4, 4}, 1, 10, 5, 10)
	checkEval(t, OP_MUX, nil, []uint{1, 4, 4}, 0, 10, 5, 5)
}

func Test_Eval_14(t *testing.T) {
	// 0b1010: extract bits {1,3} => 0b11, and repetition is allowed.
	checkEval(t, OP_SELECT, []uint{1, 3}, []uint{4}, 10, 3)
	checkEval(t, OP_SELECT, []uint{3, 3, 3}, []uint{4}, 10, 7)
}

func Test_Eval_15(t *testing.T) {
	// First operand occupies the most significant bits.
	checkEval(t, OP_CONCAT, nil, []uint{4, 2}, 10, 1, 41)
}

func Test_Eval_16(t *testing.T) {
	if Truncate(big.NewInt(255), 4).Cmp(big.NewInt(15)) != 0 {
		t.Errorf("truncation failed")
	}
	//
	if Truncate(nil, 4).Sign() != 0 {
		t.Errorf("nil must truncate to zero")
	}
}

// ============================================================================

func checkEval(t *testing.T, op OpKind, indices []uint, widths []uint, values ...int64) {
	t.Helper()
	//
	var (
		n        = len(values) - 1
		args     = make([]*big.Int, n)
		expected = big.NewInt(values[n])
	)
	//
	for i := 0; i < n; i++ {
		args[i] = big.NewInt(values[i])
	}
	//
	actual := EvalOp(op, indices, widths, args)
	//
	if actual.Cmp(expected) != 0 {
		t.Errorf("%s%v = %s, expected %s", op, values[:n], actual, expected)
	}
}
