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
package benchfile

import (
	"math/big"
	"testing"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/sim"
	"github.com/consensys/go-netlist/pkg/util/source"
)

// Parsing

func Test_Bench_01(t *testing.T) {
	graph := checkParse(t, `
	# a classic single-bit design
	INPUT(a)
	INPUT(b)
	OUTPUT(o)
	o = NAND(a, b)
	`)
	//
	if len(graph.Inputs()) != 2 || len(graph.Outputs()) != 1 {
		t.Errorf("invalid interface")
	}
	//
	if graph.NetCount() != 1 {
		t.Errorf("expected a single net")
	}
}

func Test_Bench_02(t *testing.T) {
	graph := checkParse(t, `
	INPUT(a[4])
	OUTPUT(sum[5])
	k[4] = CONST(6)
	sum[5] = ADD(a, k)
	`)
	//
	wid := checkWire(t, graph, "k")
	//
	if graph.Wire(wid).Kind() != netlist.CONST_WIRE {
		t.Errorf("expected constant wire")
	} else if graph.Wire(wid).Value().Int64() != 6 {
		t.Errorf("invalid constant value")
	}
	//
	if graph.Wire(checkWire(t, graph, "sum")).Width() != 5 {
		t.Errorf("invalid output width")
	}
}

func Test_Bench_03(t *testing.T) {
	graph := checkParse(t, `
	INPUT(d[4])
	OUTPUT(o[4])
	q[4] = DFF(d, reset=3)
	o[4] = BUFF(q)
	`)
	//
	wire := graph.Wire(checkWire(t, graph, "q"))
	//
	if wire.Kind() != netlist.REGISTER_WIRE {
		t.Errorf("expected register wire")
	} else if wire.Reset().Int64() != 3 {
		t.Errorf("invalid reset value")
	}
}

func Test_Bench_04(t *testing.T) {
	// Signals may be referenced before the line defining them.
	checkParse(t, `
	INPUT(a)
	OUTPUT(o)
	o = NOT(x)
	x = NOT(a)
	`)
}

func Test_Bench_05(t *testing.T) {
	// Multi-operand gates fold into two-operand chains, with NAND negating
	// only the final conjunction.
	graph := checkParse(t, `
	INPUT(a)
	INPUT(b)
	INPUT(c)
	OUTPUT(o)
	o = NAND(a, b, c)
	`)
	//
	if graph.NetCount() != 2 {
		t.Errorf("expected 2 nets, got %d", graph.NetCount())
	}
	//
	net := graph.Net(graph.Producer(checkWire(t, graph, "o")))
	//
	if net.Op() != netlist.OP_NAND {
		t.Errorf("final net must be the nand")
	}
}

func Test_Bench_06(t *testing.T) {
	// Selection indices are written most significant first.
	graph := checkParse(t, `
	INPUT(x[4])
	OUTPUT(y[2])
	y[2] = SELECT(x, 3, 1)
	`)
	//
	net := graph.Net(graph.Producer(checkWire(t, graph, "y")))
	indices := net.Indices()
	//
	if len(indices) != 2 || indices[0] != 1 || indices[1] != 3 {
		t.Errorf("invalid selection indices: %v", indices)
	}
}

func Test_Bench_07(t *testing.T) {
	// The c17 benchmark.
	graph := checkParse(t, `
	INPUT(G1)
	INPUT(G2)
	INPUT(G3)
	INPUT(G6)
	INPUT(G7)
	OUTPUT(G22)
	OUTPUT(G23)
	G10 = NAND(G1, G3)
	G11 = NAND(G3, G6)
	G16 = NAND(G2, G11)
	G19 = NAND(G11, G7)
	G22 = NAND(G10, G16)
	G23 = NAND(G16, G19)
	`)
	//
	if graph.NetCount() != 6 {
		t.Errorf("expected 6 nets, got %d", graph.NetCount())
	}
}

// Errors

func Test_Bench_10(t *testing.T) {
	checkSyntaxError(t, "INPUT(a)\no = NOT(a)\no = AND(a, a)\n", 3)
}

func Test_Bench_11(t *testing.T) {
	checkSyntaxError(t, "INPUT(a)\nOUTPUT(o)\no = NOT(b)\n", 3)
}

func Test_Bench_12(t *testing.T) {
	checkSyntaxError(t, "INPUT(a)\nOUTPUT(o)\no = FROB(a)\n", 3)
}

func Test_Bench_13(t *testing.T) {
	// Undriven output, reported at its declaration.
	checkSyntaxError(t, "INPUT(a)\nOUTPUT(o)\n", 2)
}

func Test_Bench_14(t *testing.T) {
	// Width violation: a 4 bit sum requires 5 bits.
	checkSyntaxError(t, "INPUT(a[4])\nINPUT(b[4])\nOUTPUT(o[4])\no[4] = ADD(a, b)\n", 4)
}

func Test_Bench_15(t *testing.T) {
	// Combinational cycle.
	checkSyntaxError(t, "INPUT(a)\nOUTPUT(o)\nx = NOT(y)\ny = NOT(x)\no = BUFF(x)\n", 4)
}

func Test_Bench_16(t *testing.T) {
	// Reset bindings only make sense on registers.
	checkSyntaxError(t, "INPUT(a)\nOUTPUT(o)\no = NOT(a, reset=1)\n", 3)
}

func Test_Bench_17(t *testing.T) {
	// Stray character.
	checkSyntaxError(t, "INPUT(a)\nOUTPUT(o)\no = NOT(a) ?\n", 3)
}

// Round trips

func Test_Bench_20(t *testing.T) {
	checkRoundTrip(t, `
	INPUT(a[4])
	INPUT(b[4])
	OUTPUT(sum[5])
	OUTPUT(flag)
	k[4] = CONST(9)
	sum[5] = ADD(a, b)
	flag = LT(a, k)
	`)
}

func Test_Bench_21(t *testing.T) {
	checkRoundTrip(t, `
	INPUT(d[4])
	INPUT(s)
	OUTPUT(o[4])
	q[4] = DFF(d, reset=5)
	o[4] = MUX(s, q, d)
	`)
}

func Test_Bench_22(t *testing.T) {
	checkRoundTrip(t, `
	INPUT(x[4])
	OUTPUT(y[3])
	OUTPUT(z[8])
	y[3] = SELECT(x, 3, 1, 0)
	z[8] = CONCAT(x, x)
	`)
}

// Files

func Test_Bench_30(t *testing.T) {
	graph := checkReadFile(t, "testdata/adder.bench")
	//
	if len(graph.Inputs()) != 2 || len(graph.Outputs()) != 2 {
		t.Errorf("invalid interface")
	}
}

func Test_Bench_31(t *testing.T) {
	graph := checkReadFile(t, "testdata/c17.bench")
	//
	if graph.NetCount() != 6 {
		t.Errorf("expected 6 nets, got %d", graph.NetCount())
	}
}

func Test_Bench_32(t *testing.T) {
	graph := checkReadFile(t, "testdata/counter.bench")
	// The counter ticks whenever enabled.
	simulator, err := sim.NewSimulator(graph)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	cycles := []struct{ enable, expected int64 }{
		{1, 0}, {1, 1}, {0, 2}, {1, 2}, {1, 3},
	}
	//
	for _, cycle := range cycles {
		outputs, serr := simulator.Step([]*big.Int{big.NewInt(cycle.enable)})
		if serr != nil {
			t.Fatalf("unexpected error: %s", serr)
		}
		//
		if outputs[0].Int64() != cycle.expected {
			t.Errorf("expected %d, got %s", cycle.expected, outputs[0])
		}
	}
}

// ============================================================================

func checkParse(t *testing.T, text string) *netlist.Graph {
	t.Helper()
	//
	graph, err := Parse(source.NewSourceFile("test.bench", []byte(text)))
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	if verr := graph.Validate(); verr != nil {
		t.Fatalf("parsed graph is not well formed: %s", verr)
	}
	//
	return graph
}

func checkReadFile(t *testing.T, filename string) *netlist.Graph {
	t.Helper()
	//
	graph, _, err := ReadGraph(filename)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	if verr := graph.Validate(); verr != nil {
		t.Fatalf("parsed graph is not well formed: %s", verr)
	}
	//
	return graph
}

func checkWire(t *testing.T, graph *netlist.Graph, name string) netlist.WireId {
	t.Helper()
	//
	wid, ok := graph.FindWire(name)
	//
	if !ok {
		t.Fatalf("wire \"%s\" not found", name)
	}
	//
	return wid
}

func checkSyntaxError(t *testing.T, text string, line int) {
	t.Helper()
	//
	_, err := Parse(source.NewSourceFile("test.bench", []byte(text)))
	//
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	//
	enclosing := err.FirstEnclosingLine()
	//
	if actual := enclosing.Number(); actual != line {
		t.Errorf("expected error on line %d, was reported on line %d (%s)", line, actual, err.Message())
	}
}

// checkRoundTrip parses a file, formats the resulting graph, and checks the
// reparsed result formats identically (i.e. formatting has a fixed point and
// loses nothing).
func checkRoundTrip(t *testing.T, text string) {
	t.Helper()
	//
	first := checkParse(t, text)
	//
	formatted, err := Format(first)
	if err != nil {
		t.Fatalf("formatting failed: %s", err)
	}
	//
	second, serr := Parse(source.NewSourceFile("test.bench", []byte(formatted)))
	if serr != nil {
		t.Fatalf("reparsing failed: %s", serr)
	}
	//
	reformatted, err := Format(second)
	if err != nil {
		t.Fatalf("reformatting failed: %s", err)
	}
	//
	if formatted != reformatted {
		t.Errorf("round trip differs:\n%s\nvs:\n%s", formatted, reformatted)
	}
}
