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
	"strconv"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util/source"
	"github.com/consensys/go-netlist/pkg/util/source/lex"
)

// unaryOps maps operation names onto their kinds, for operations accepting
// exactly one operand.
var unaryOps = map[string]netlist.OpKind{
	"BUFF": netlist.OP_COPY,
	"NOT":  netlist.OP_NOT,
}

// binaryOps maps operation names onto their kinds, for operations accepting
// exactly two operands.
var binaryOps = map[string]netlist.OpKind{
	"ADD": netlist.OP_ADD,
	"SUB": netlist.OP_SUB,
	"MUL": netlist.OP_MUL,
	"EQ":  netlist.OP_EQ,
	"LT":  netlist.OP_LT,
	"GT":  netlist.OP_GT,
}

// gateOps maps operation names onto their kinds, for gates which (following
// the classic format) accept two or more operands.  Gates given more than two
// operands are folded into a chain of two-operand nets.
var gateOps = map[string]netlist.OpKind{
	"AND":  netlist.OP_AND,
	"OR":   netlist.OP_OR,
	"XOR":  netlist.OP_XOR,
	"NAND": netlist.OP_NAND,
}

// graphBuilder translates parsed statements into a netlist graph, mapping any
// structural errors arising back onto the offending statement.
type graphBuilder struct {
	file  *source.File
	graph *netlist.Graph
	// Maps every declared signal name to the span of its declaration.
	spans map[string]source.Span
}

// declareAll declares a wire for every signal in the file: interface wires
// from INPUT / OUTPUT statements, then constant / register / internal wires
// from the left-hand sides of assignments.
func (b *graphBuilder) declareAll(decls []declaration, assigns []assignment) *source.SyntaxError {
	for _, decl := range decls {
		var (
			name = b.text(decl.name)
			err  error
		)
		//
		if decl.input {
			_, err = b.graph.NewInputWire(name, decl.width)
		} else {
			_, err = b.graph.NewOutputWire(name, decl.width)
		}
		//
		if err != nil {
			return b.file.SyntaxError(decl.span, err.Error())
		}
		//
		b.spans[name] = decl.span
	}
	//
	for i := range assigns {
		if err := b.declareLhs(&assigns[i]); err != nil {
			return err
		}
	}
	// Done
	return nil
}

// declareLhs declares the left-hand side of a single assignment, unless it
// refers to a wire already declared by an OUTPUT statement.
func (b *graphBuilder) declareLhs(stmt *assignment) *source.SyntaxError {
	var (
		name = b.text(stmt.lhs)
		err  error
	)
	//
	switch b.text(stmt.op) {
	case "CONST":
		if len(stmt.args) != 1 || stmt.args[0].Kind != NUMBER {
			return b.file.SyntaxError(stmt.span, "expected constant value")
		}
		//
		value := b.number(stmt.args[0])
		width := stmt.width
		// Default to the smallest width holding the value.
		if !stmt.hasWidth {
			width = max(1, uint(value.BitLen()))
		} else if uint(value.BitLen()) > width {
			return b.file.SyntaxError(stmt.span, "constant does not fit given width")
		}
		//
		_, err = b.graph.NewConstWire(name, width, value)
	case "DFF":
		reset := stmt.reset
		//
		if reset == nil {
			reset = big.NewInt(0)
		} else if uint(reset.BitLen()) > stmt.width {
			return b.file.SyntaxError(stmt.span, "reset value does not fit given width")
		}
		//
		_, err = b.graph.NewRegisterWire(name, stmt.width, reset)
	default:
		// An assignment to a declared output drives that wire directly.
		if wid, ok := b.graph.FindWire(name); ok {
			if stmt.hasWidth && b.graph.Wire(wid).Width() != stmt.width {
				return b.file.SyntaxError(stmt.span, "width does not match declaration")
			}
			//
			return nil
		}
		//
		_, err = b.graph.NewInternalWire(name, stmt.width)
	}
	//
	if err != nil {
		return b.file.SyntaxError(stmt.span, err.Error())
	}
	//
	b.spans[name] = stmt.span
	//
	return nil
}

// addNets constructs the net (or nets) realising a single assignment.
func (b *graphBuilder) addNets(stmt assignment) *source.SyntaxError {
	var (
		opname  = b.text(stmt.op)
		out, _  = b.graph.FindWire(b.text(stmt.lhs))
		numeric = opname == "SELECT" || opname == "CONST"
	)
	// Reset bindings only make sense on registers.
	if stmt.reset != nil && opname != "DFF" {
		return b.file.SyntaxError(stmt.span, "reset only applies to DFF")
	}
	// Numbers only make sense as selection indices or constant values.
	if !numeric {
		for _, arg := range stmt.args {
			if arg.Kind != IDENT {
				return b.file.SyntaxError(arg.Span, "expected signal name")
			}
		}
	}
	//
	switch {
	case opname == "CONST":
		// Value already attached to the wire itself.
		return nil
	case opname == "DFF":
		return b.addSimpleNet(netlist.OP_REG, 1, stmt, out)
	case opname == "MUX":
		return b.addSimpleNet(netlist.OP_MUX, 3, stmt, out)
	case opname == "CONCAT":
		return b.addSimpleNet(netlist.OP_CONCAT, len(stmt.args), stmt, out)
	case opname == "SELECT":
		return b.addSelectNet(stmt, out)
	default:
		if op, ok := unaryOps[opname]; ok {
			return b.addSimpleNet(op, 1, stmt, out)
		} else if op, ok := binaryOps[opname]; ok {
			return b.addSimpleNet(op, 2, stmt, out)
		} else if op, ok := gateOps[opname]; ok {
			return b.addGateNets(op, stmt, out)
		}
		// fail
		return b.file.SyntaxError(stmt.op.Span, "unknown operation")
	}
}

// addSimpleNet constructs a single net with a fixed number of operands.
func (b *graphBuilder) addSimpleNet(op netlist.OpKind, arity int, stmt assignment,
	out netlist.WireId) *source.SyntaxError {
	//
	if len(stmt.args) != arity || arity == 0 {
		return b.file.SyntaxError(stmt.span, "incorrect number of operands")
	}
	//
	inputs, err := b.signals(stmt.args)
	if err != nil {
		return err
	}
	//
	if _, gerr := b.graph.AddNet(op, inputs, out); gerr != nil {
		return b.file.SyntaxError(stmt.span, gerr.Error())
	}
	// Done
	return nil
}

// addSelectNet constructs a bit selection net.  Indices are written most
// significant first, mirroring how CONCAT orders its operands, whereas the
// graph stores them least significant first.
func (b *graphBuilder) addSelectNet(stmt assignment, out netlist.WireId) *source.SyntaxError {
	if len(stmt.args) < 2 {
		return b.file.SyntaxError(stmt.span, "incorrect number of operands")
	}
	//
	input, err := b.signal(stmt.args[0])
	if err != nil {
		return err
	}
	//
	indices := make([]uint, len(stmt.args)-1)
	//
	for i, arg := range stmt.args[1:] {
		if arg.Kind != NUMBER {
			return b.file.SyntaxError(arg.Span, "expected bit index")
		}
		//
		index, nerr := strconv.ParseUint(b.text(arg), 10, 32)
		if nerr != nil {
			return b.file.SyntaxError(arg.Span, "invalid bit index")
		}
		// Reverse into least significant first order.
		indices[len(indices)-1-i] = uint(index)
	}
	//
	if _, gerr := b.graph.AddSelectNet(input, indices, out); gerr != nil {
		return b.file.SyntaxError(stmt.span, gerr.Error())
	}
	// Done
	return nil
}

// addGateNets constructs the net(s) for a gate operation.  Gates with more
// than two operands are folded left-to-right through fresh internal wires,
// where (following the classic format) a multi-operand NAND negates only the
// final conjunction.
func (b *graphBuilder) addGateNets(op netlist.OpKind, stmt assignment,
	out netlist.WireId) *source.SyntaxError {
	//
	if len(stmt.args) < 2 {
		return b.file.SyntaxError(stmt.span, "incorrect number of operands")
	}
	//
	inputs, err := b.signals(stmt.args)
	if err != nil {
		return err
	}
	// Inner nets of a NAND chain are conjunctions.
	inner := op
	if op == netlist.OP_NAND {
		inner = netlist.OP_AND
	}
	//
	acc := inputs[0]
	//
	for _, next := range inputs[1 : len(inputs)-1] {
		tmp, gerr := b.graph.NewInternalWire("", b.graph.Wire(acc).Width())
		//
		if gerr == nil {
			_, gerr = b.graph.AddNet(inner, []netlist.WireId{acc, next}, tmp)
		}
		//
		if gerr != nil {
			return b.file.SyntaxError(stmt.span, gerr.Error())
		}
		//
		acc = tmp
	}
	//
	last := inputs[len(inputs)-1]
	//
	if _, gerr := b.graph.AddNet(op, []netlist.WireId{acc, last}, out); gerr != nil {
		return b.file.SyntaxError(stmt.span, gerr.Error())
	}
	// Done
	return nil
}

// checkOutputsDriven checks every declared output ended up with a producing
// net, reporting the declaration of any which did not.
func (b *graphBuilder) checkOutputsDriven(decls []declaration) *source.SyntaxError {
	for _, decl := range decls {
		if decl.input {
			continue
		}
		//
		wid, _ := b.graph.FindWire(b.text(decl.name))
		//
		if !b.graph.Producer(wid).IsUsed() {
			return b.file.SyntaxError(decl.span, "output is never driven")
		}
	}
	// success
	return nil
}

// signal resolves a token into the wire it names.
func (b *graphBuilder) signal(token lex.Token) (netlist.WireId, *source.SyntaxError) {
	if token.Kind != IDENT {
		return netlist.NewUnusedWireId(), b.file.SyntaxError(token.Span, "expected signal name")
	}
	//
	wid, ok := b.graph.FindWire(b.text(token))
	//
	if !ok {
		return wid, b.file.SyntaxError(token.Span, "unknown signal")
	}
	//
	return wid, nil
}

// signals resolves a sequence of tokens into the wires they name.
func (b *graphBuilder) signals(tokens []lex.Token) ([]netlist.WireId, *source.SyntaxError) {
	wires := make([]netlist.WireId, len(tokens))
	//
	for i, token := range tokens {
		wid, err := b.signal(token)
		//
		if err != nil {
			return nil, err
		}
		//
		wires[i] = wid
	}
	//
	return wires, nil
}

func (b *graphBuilder) text(token lex.Token) string {
	contents := b.file.Contents()
	return string(contents[token.Span.Start():token.Span.End()])
}

func (b *graphBuilder) number(token lex.Token) *big.Int {
	value, ok := big.NewInt(0).SetString(b.text(token), 10)
	//
	if !ok {
		panic("unreachable")
	}
	//
	return value
}
