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
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/pkg/errors"
)

// opNames maps operation kinds back onto their textual names.
var opNames = [netlist.NUM_OPS]string{
	"BUFF", "NOT", "AND", "OR", "XOR", "NAND",
	"ADD", "SUB", "MUL", "EQ", "LT", "GT",
	"MUX", "SELECT", "CONCAT", "DFF", "", "",
}

// WriteGraph formats a netlist graph and writes it to a given file.
func WriteGraph(filename string, graph *netlist.Graph) error {
	text, err := Format(graph)
	//
	if err != nil {
		return err
	}
	//
	if err := os.WriteFile(filename, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", filename)
	}
	// Done
	return nil
}

// Format renders a netlist graph in the textual format, such that parsing the
// result reproduces the graph (up to wire / net identifiers).  Declarations
// come first (inputs, outputs, constants), followed by one line per net in
// insertion order.  Graphs employing memories cannot be represented.
func Format(graph *netlist.Graph) (string, error) {
	var builder strings.Builder
	//
	if graph.Memories() != 0 {
		return "", errors.New("memories are not representable in the textual format")
	}
	//
	for _, wid := range graph.Inputs() {
		fmt.Fprintf(&builder, "INPUT(%s)\n", signature(graph, wid))
	}
	//
	for _, wid := range graph.Outputs() {
		fmt.Fprintf(&builder, "OUTPUT(%s)\n", signature(graph, wid))
	}
	// Declare constants
	for _, wid := range graph.Wires() {
		wire := graph.Wire(wid)
		//
		switch {
		case wire.Kind() == netlist.CONST_WIRE:
			fmt.Fprintf(&builder, "%s = CONST(%s)\n", signature(graph, wid), wire.Value())
		case wire.Kind() == netlist.INPUT_WIRE:
			// Always a legitimate source.
		case !graph.Producer(wid).IsUsed():
			return "", errors.Errorf("undriven wire \"%s\" is not representable", wire.Name())
		}
	}
	// One line per net
	for _, nid := range graph.Nets() {
		formatNet(&builder, graph, graph.Net(nid))
	}
	//
	return builder.String(), nil
}

// formatNet renders a single net as an assignment line.
func formatNet(builder *strings.Builder, graph *netlist.Graph, net *netlist.Net) {
	op := net.Op()
	//
	if op == netlist.OP_MEMRD || op == netlist.OP_MEMWR {
		panic("unreachable")
	}
	//
	fmt.Fprintf(builder, "%s = %s(", signature(graph, net.Output()), opNames[op.Index()])
	//
	for i, wid := range net.Inputs() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(graph.Wire(wid).Name())
	}
	// Selection indices are written most significant first.
	if op == netlist.OP_SELECT {
		indices := net.Indices()
		//
		for i := len(indices); i > 0; i-- {
			fmt.Fprintf(builder, ", %d", indices[i-1])
		}
	}
	// Registers carry their reset value, when non-zero.
	if op == netlist.OP_REG {
		if reset := graph.Wire(net.Output()).Reset(); reset.Sign() != 0 {
			fmt.Fprintf(builder, ", reset=%s", reset)
		}
	}
	//
	builder.WriteString(")\n")
}

// signature renders a wire name with its width annotation, which is omitted
// for single-bit wires.
func signature(graph *netlist.Graph, wid netlist.WireId) string {
	wire := graph.Wire(wid)
	//
	if wire.Width() == 1 {
		return wire.Name()
	}
	//
	return fmt.Sprintf("%s[%d]", wire.Name(), wire.Width())
}
