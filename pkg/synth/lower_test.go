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
package synth

import (
	"testing"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/sim"
)

func Test_Lower_01(t *testing.T) {
	// Wide bitwise operations decompose bit by bit.
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 4)
		y := b.Input("y", 4)
		out := b.Output("out", 4)
		b.Connect(out, b.And(x, y))
	})
}

func Test_Lower_02(t *testing.T) {
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 3)
		y := b.Input("y", 3)
		out := b.Output("out", 3)
		b.Connect(out, b.Xor(b.Not(x), y))
	})
}

func Test_Lower_03(t *testing.T) {
	// Single-bit NAND still decomposes (the target set has no nand).
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 1)
		y := b.Input("y", 1)
		out := b.Output("out", 1)
		b.Connect(out, b.Nand(x, y))
	})
}

func Test_Lower_04(t *testing.T) {
	// Ripple-carry adder, including the carry bit.
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 4)
		k := b.Const(4, 6)
		sum := b.Output("sum", 5)
		b.Connect(sum, b.Add(x, k))
	})
}

func Test_Lower_05(t *testing.T) {
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 4)
		y := b.Input("y", 4)
		diff := b.Output("diff", 5)
		b.Connect(diff, b.Sub(x, y))
	})
}

func Test_Lower_06(t *testing.T) {
	// Shift-and-add multiplier.
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 3)
		y := b.Input("y", 3)
		prod := b.Output("prod", 6)
		b.Connect(prod, b.Mul(x, y))
	})
}

func Test_Lower_07(t *testing.T) {
	// Single-bit multiplication is just conjunction.
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 1)
		y := b.Input("y", 1)
		prod := b.Output("prod", 2)
		b.Connect(prod, b.Mul(x, y))
	})
}

func Test_Lower_08(t *testing.T) {
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 4)
		y := b.Input("y", 4)
		eq := b.Output("eq", 1)
		b.Connect(eq, b.Eq(x, y))
	})
}

func Test_Lower_09(t *testing.T) {
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 4)
		y := b.Input("y", 4)
		lt := b.Output("lt", 1)
		gt := b.Output("gt", 1)
		b.Connect(lt, b.Lt(x, y))
		b.Connect(gt, b.Gt(x, y))
	})
}

func Test_Lower_10(t *testing.T) {
	checkLowering(t, func(b *netlist.Builder) {
		s := b.Input("s", 1)
		x := b.Input("x", 3)
		y := b.Input("y", 3)
		out := b.Output("out", 3)
		b.Connect(out, b.Mux(s, x, y))
	})
}

func Test_Lower_11(t *testing.T) {
	// Width-only primitives survive untouched.
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 4)
		out := b.Output("out", 6)
		b.Connect(out, b.Concat(b.Select(x, 0, 2), x))
	})
}

func Test_Lower_12(t *testing.T) {
	// A counter: lowering must leave register semantics intact.
	checkLowering(t, func(b *netlist.Builder) {
		count := b.Register("count", 4, 0)
		next := b.Select(b.Add(count, b.Const(4, 1)), 0, 1, 2, 3)
		b.Next(count, next)
		out := b.Output("out", 4)
		b.Connect(out, count)
	})
}

func Test_Lower_13(t *testing.T) {
	// Everything at once: compare a sum against a threshold.
	checkLowering(t, func(b *netlist.Builder) {
		x := b.Input("x", 3)
		y := b.Input("y", 3)
		limit := b.Const(4, 9)
		over := b.Output("over", 1)
		b.Connect(over, b.Gt(b.Add(x, y), limit))
	})
}

// ============================================================================

// checkLowering builds the same design twice, lowers one copy, and checks the
// lowered copy (a) is in target form, (b) computes the same function as the
// original, and (c) is a fixed point of further lowering.
func checkLowering(t *testing.T, build func(*netlist.Builder)) {
	t.Helper()
	//
	var (
		before = netlist.NewGraph()
		after  = netlist.NewGraph()
	)
	//
	build(netlist.NewBuilder(before))
	build(netlist.NewBuilder(after))
	//
	if err := NewLowering(after).Lower(); err != nil {
		t.Fatalf("lowering failed: %s", err)
	}
	//
	checkTargetForm(t, after)
	//
	if err := sim.Equivalent(before, after, sim.DEFAULT_EQUIVALENCE); err != nil {
		t.Errorf("lowering changed behaviour: %s", err)
	}
	// Idempotence
	count := after.NetCount()
	//
	if err := NewLowering(after).Lower(); err != nil {
		t.Fatalf("relowering failed: %s", err)
	} else if after.NetCount() != count {
		t.Errorf("relowering changed net count (%d vs %d)", count, after.NetCount())
	}
}

// checkTargetForm checks every net of a graph is drawn from the target form:
// single-bit gates, width-only primitives, buffers into output wires, and
// sequential primitives.
func checkTargetForm(t *testing.T, graph *netlist.Graph) {
	t.Helper()
	//
	for _, nid := range graph.Nets() {
		var (
			net = graph.Net(nid)
			op  = net.Op()
		)
		//
		switch op {
		case netlist.OP_REG, netlist.OP_MEMRD, netlist.OP_MEMWR:
		case netlist.OP_SELECT, netlist.OP_CONCAT:
		case netlist.OP_COPY:
			if !graph.Wire(net.Output()).Kind().IsOutput() {
				t.Errorf("buffer into non-output wire survived lowering")
			}
		case netlist.OP_NOT, netlist.OP_AND, netlist.OP_OR, netlist.OP_XOR:
			if graph.Wire(net.Output()).Width() != 1 {
				t.Errorf("wide %s gate survived lowering", op)
			}
		default:
			t.Errorf("composite %s net survived lowering", op)
		}
	}
}
