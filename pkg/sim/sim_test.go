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
package sim

import (
	"math/big"
	"testing"

	"github.com/consensys/go-netlist/pkg/netlist"
)

// Combinational

func Test_Sim_01(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	//
	x := b.Input("x", 4)
	k := b.Const(4, 6)
	out := b.Output("sum", 5)
	b.Connect(out, b.Add(x, k))
	// Exhaustively check all sixteen input values.
	sim := checkSimulator(t, g)
	//
	for v := int64(0); v < 16; v++ {
		outputs, err := sim.Step([]*big.Int{big.NewInt(v)})
		checkNoError(t, err)
		//
		if outputs[0].Int64() != v+6 {
			t.Errorf("%d + 6 = %s", v, outputs[0])
		}
	}
}

func Test_Sim_02(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// Inputs wider than their wire are truncated.
	x := b.Input("x", 2)
	out := b.Output("out", 2)
	b.Connect(out, x)
	//
	sim := checkSimulator(t, g)
	//
	outputs, err := sim.Step([]*big.Int{big.NewInt(7)})
	checkNoError(t, err)
	//
	if outputs[0].Int64() != 3 {
		t.Errorf("expected truncation to 3, got %s", outputs[0])
	}
}

// Sequential

func Test_Sim_03(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// A counter with reset value 3.
	count := b.Register("count", 4, 3)
	b.Next(count, b.Select(b.Add(count, b.Const(4, 1)), 0, 1, 2, 3))
	out := b.Output("out", 4)
	b.Connect(out, count)
	//
	sim := checkSimulator(t, g)
	// The register value is visible before its update commits.
	for _, expected := range []int64{3, 4, 5, 6} {
		outputs, err := sim.Step(nil)
		checkNoError(t, err)
		//
		if outputs[0].Int64() != expected {
			t.Errorf("expected %d, got %s", expected, outputs[0])
		}
	}
	// Reset returns the register to its reset value.
	sim.Reset()
	//
	outputs, _ := sim.Step(nil)
	//
	if outputs[0].Int64() != 3 {
		t.Errorf("expected 3 after reset, got %s", outputs[0])
	}
}

func Test_Sim_04(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// Memory writes commit at the cycle boundary, whilst reads see the state
	// from the start of the cycle.
	mem := b.Memory("ram", 2, 4)
	addr := b.Input("addr", 2)
	data := b.Input("data", 4)
	en := b.Input("en", 1)
	b.MemWrite(mem, addr, data, en)
	out := b.Output("out", 4)
	b.Connect(out, b.MemRead(mem, addr))
	//
	sim := checkSimulator(t, g)
	//
	step := func(a, d, e int64) int64 {
		outputs, err := sim.Step([]*big.Int{big.NewInt(a), big.NewInt(d), big.NewInt(e)})
		checkNoError(t, err)
		//
		return outputs[0].Int64()
	}
	// Memories start all zero; the write is not yet visible.
	if v := step(1, 9, 1); v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
	// Now it is.
	if v := step(1, 5, 0); v != 9 {
		t.Errorf("expected 9, got %d", v)
	}
	// The disabled write must not have committed.
	if v := step(1, 0, 0); v != 9 {
		t.Errorf("expected 9, got %d", v)
	}
}

// Enumeration

func Test_Enum_01(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	//
	b.Input("x", 2)
	b.Input("y", 1)
	//
	enum := EnumerateInputs(g)
	//
	if enum.Count() != 8 {
		t.Fatalf("expected 8 assignments, got %d", enum.Count())
	}
	// First input counts fastest.
	first := enum.Next()
	second := enum.Next()
	//
	if first[0].Int64() != 0 || first[1].Int64() != 0 {
		t.Errorf("expected all-zero first assignment")
	}
	//
	if second[0].Int64() != 1 || second[1].Int64() != 0 {
		t.Errorf("expected first input to advance first")
	}
	// Drain the remainder.
	count := 2
	for enum.HasNext() {
		enum.Next()
		count++
	}
	//
	if count != 8 {
		t.Errorf("expected 8 assignments, got %d", count)
	}
}

// Equivalence

func Test_Equiv_01(t *testing.T) {
	build := func(b *netlist.Builder) {
		x := b.Input("x", 3)
		y := b.Input("y", 3)
		out := b.Output("out", 3)
		b.Connect(out, b.Xor(x, y))
	}
	//
	a, c := netlist.NewGraph(), netlist.NewGraph()
	build(netlist.NewBuilder(a))
	build(netlist.NewBuilder(c))
	//
	checkNoError(t, Equivalent(a, c, DEFAULT_EQUIVALENCE))
}

func Test_Equiv_02(t *testing.T) {
	// Same interface, different behaviour: must be caught.
	a, c := netlist.NewGraph(), netlist.NewGraph()
	//
	ba := netlist.NewBuilder(a)
	x := ba.Input("x", 3)
	y := ba.Input("y", 3)
	out := ba.Output("out", 3)
	ba.Connect(out, ba.Xor(x, y))
	//
	bc := netlist.NewBuilder(c)
	x = bc.Input("x", 3)
	y = bc.Input("y", 3)
	out = bc.Output("out", 3)
	bc.Connect(out, bc.And(x, y))
	//
	if Equivalent(a, c, DEFAULT_EQUIVALENCE) == nil {
		t.Errorf("expected counterexample")
	}
}

func Test_Equiv_03(t *testing.T) {
	// Mismatched interfaces are rejected before any simulation.
	a, c := netlist.NewGraph(), netlist.NewGraph()
	//
	ba := netlist.NewBuilder(a)
	out := ba.Output("out", 1)
	ba.Connect(out, ba.Input("x", 1))
	//
	bc := netlist.NewBuilder(c)
	out = bc.Output("out", 1)
	bc.Connect(out, bc.Input("x", 2))
	//
	if Equivalent(a, c, DEFAULT_EQUIVALENCE) == nil {
		t.Errorf("expected interface mismatch")
	}
}

// ============================================================================

func checkSimulator(t *testing.T, g *netlist.Graph) *Simulator {
	t.Helper()
	//
	sim, err := NewSimulator(g)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	return sim
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}
