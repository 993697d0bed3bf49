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
package analysis

import (
	"testing"

	"github.com/consensys/go-netlist/pkg/netlist"
)

// Timing

func Test_Timing_01(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// A chain of three inverters has delay three.
	x := b.Input("x", 1)
	out := b.Output("out", 1)
	b.Connect(out, b.Not(b.Not(b.Not(x))))
	//
	report := checkTiming(t, g)
	//
	if report.MaxDelay() != 3.0 {
		t.Errorf("expected delay 3, got %f", report.MaxDelay())
	}
}

func Test_Timing_02(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// The longer branch dominates.
	x := b.Input("x", 1)
	y := b.Input("y", 1)
	slow := b.Not(b.Not(x))
	out := b.Output("out", 1)
	b.Connect(out, b.And(slow, y))
	//
	report := checkTiming(t, g)
	//
	if report.MaxDelay() != 3.0 {
		t.Errorf("expected delay 3, got %f", report.MaxDelay())
	}
	// Path runs source to sink, through the slow branch.
	path := report.CriticalPath()
	//
	if len(path) == 0 || path[0] != x || path[len(path)-1] != out {
		t.Errorf("invalid critical path endpoints")
	}
	//
	if report.Arrival(out) != 3.0 || report.Arrival(slow) != 2.0 {
		t.Errorf("invalid arrival times")
	}
}

func Test_Timing_03(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// Width-only primitives contribute no delay.
	x := b.Input("x", 4)
	out := b.Output("out", 8)
	b.Connect(out, b.Concat(b.Select(x, 0, 1, 2, 3), x))
	//
	report := checkTiming(t, g)
	//
	if report.MaxDelay() != 0.0 {
		t.Errorf("expected delay 0, got %f", report.MaxDelay())
	}
}

func Test_Timing_04(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// Registers cut timing paths: the sink is the register input.
	count := b.Register("count", 1, 0)
	b.Next(count, b.Not(count))
	out := b.Output("out", 1)
	b.Connect(out, count)
	//
	report := checkTiming(t, g)
	//
	if report.MaxDelay() != 1.0 {
		t.Errorf("expected delay 1, got %f", report.MaxDelay())
	}
}

func Test_Timing_05(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// Memory read outputs are timing sources; the address is a sink.
	mem := b.Memory("ram", 2, 4)
	addr := b.Input("addr", 2)
	word := b.MemRead(mem, b.Select(b.Not(addr), 0, 1))
	out := b.Output("out", 4)
	b.Connect(out, word)
	//
	report := checkTiming(t, g)
	// One inverter in front of the address.
	if report.MaxDelay() != 1.0 {
		t.Errorf("expected delay 1, got %f", report.MaxDelay())
	}
	//
	if report.Arrival(word) != 0.0 {
		t.Errorf("memory read output must be a timing source")
	}
}

func Test_Timing_06(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// A non-unit delay model weights operations individually.
	x := b.Input("x", 4)
	y := b.Input("y", 4)
	out := b.Output("out", 5)
	b.Connect(out, b.Add(x, y))
	//
	model := UnitDelayModel().WithDelay(netlist.OP_ADD, 2.5)
	//
	report, err := AnalyseTiming(g, model)
	if err != nil {
		t.Fatalf("timing analysis failed: %s", err)
	}
	//
	if report.MaxDelay() != 2.5 {
		t.Errorf("expected delay 2.5, got %f", report.MaxDelay())
	}
}

// Area

func Test_Area_01(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	//
	x := b.Input("x", 1)
	y := b.Input("y", 1)
	out := b.Output("out", 1)
	b.Connect(out, b.And(x, y))
	// Area scales linearly in the technology parameter.
	one := EstimateArea(g, DefaultAreaModel(), 1.0)
	two := EstimateArea(g, DefaultAreaModel(), 2.0)
	//
	if one.Logic <= 0 {
		t.Errorf("expected positive logic area")
	}
	//
	if two.Total() != 2*one.Total() {
		t.Errorf("area must scale linearly")
	}
	// Purely combinational designs occupy no memory area.
	if one.Memory != 0 {
		t.Errorf("expected zero memory area")
	}
}

func Test_Area_02(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	//
	count := b.Register("count", 4, 0)
	b.Next(count, b.Not(count))
	out := b.Output("out", 4)
	b.Connect(out, count)
	//
	report := EstimateArea(g, DefaultAreaModel(), 1.0)
	//
	if report.Memory <= 0 {
		t.Errorf("registers must occupy memory area")
	}
}

func Test_Area_03(t *testing.T) {
	var (
		g = netlist.NewGraph()
		b = netlist.NewBuilder(g)
	)
	// A 4 word by 8 bit memory dominates a single register bit.
	mem := b.Memory("ram", 2, 8)
	addr := b.Input("addr", 2)
	out := b.Output("out", 8)
	b.Connect(out, b.MemRead(mem, addr))
	//
	small := EstimateArea(g, DefaultAreaModel(), 1.0)
	// Doubling the per-bit cost doubles the memory area.
	model := DefaultAreaModel().WithMemoryBitArea(2 * defaultMemoryBit(t))
	large := EstimateArea(g, model, 1.0)
	//
	if small.Memory <= 0 || large.Memory != 2*small.Memory {
		t.Errorf("memory area must scale with the per-bit cost")
	}
}

// ============================================================================

func checkTiming(t *testing.T, g *netlist.Graph) *TimingReport {
	t.Helper()
	//
	report, err := AnalyseTiming(g, UnitDelayModel())
	//
	if err != nil {
		t.Fatalf("timing analysis failed: %s", err)
	}
	//
	return report
}

func defaultMemoryBit(t *testing.T) float64 {
	t.Helper()
	// Recover the default per-bit memory cost from a minimal design.
	g := netlist.NewGraph()
	b := netlist.NewBuilder(g)
	//
	mem := b.Memory("m", 1, 1)
	addr := b.Input("a", 1)
	out := b.Output("o", 1)
	b.Connect(out, b.MemRead(mem, addr))
	// Two words of one bit each.
	return EstimateArea(g, DefaultAreaModel(), 1.0).Memory / 2
}
