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
	"github.com/pkg/errors"
)

// ReadGraph reads a bench file from disk and parses it into a netlist graph.
// The source file is returned alongside, enabling syntax errors (which retain
// spans into it) to be reported against the offending line.
func ReadGraph(filename string) (*netlist.Graph, *source.File, error) {
	file, err := source.ReadFile(filename)
	//
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading %s", filename)
	}
	// Parse file contents
	graph, serr := Parse(file)
	//
	if serr != nil {
		// NOTE: avoid returning a typed nil as an error.
		return nil, file, serr
	}
	//
	return graph, file, nil
}

// Parse parses the contents of a bench file into a netlist graph.  Parsing is
// done in phases: statements are collected first, then every signal is
// declared, and only then are nets constructed.  Hence, signals can be
// referenced before the line defining them, as is common in circuit
// benchmarks.
func Parse(file *source.File) (*netlist.Graph, *source.SyntaxError) {
	tokens, err := Lex(file)
	//
	if err != nil {
		return nil, err
	}
	//
	parser := &parser{file, tokens, 0}
	//
	decls, assigns, err := parser.parseStatements()
	if err != nil {
		return nil, err
	}
	//
	builder := &graphBuilder{file, netlist.NewGraph(), make(map[string]source.Span)}
	// Declare all signals
	if err := builder.declareAll(decls, assigns); err != nil {
		return nil, err
	}
	// Construct all nets
	for _, stmt := range assigns {
		if err := builder.addNets(stmt); err != nil {
			return nil, err
		}
	}
	// Finally, check every declared output was actually driven.
	return builder.graph, builder.checkOutputsDriven(decls)
}

// ============================================================================
// Statements
// ============================================================================

// declaration represents an INPUT(..) or OUTPUT(..) statement.
type declaration struct {
	input bool
	name  lex.Token
	width uint
	span  source.Span
}

// assignment represents a statement of the form "lhs = OP(args)", where the
// width annotation on the left-hand side is optional.
type assignment struct {
	lhs      lex.Token
	width    uint
	hasWidth bool
	op       lex.Token
	args     []lex.Token
	reset    *big.Int
	span     source.Span
}

// ============================================================================
// Token-level parser
// ============================================================================

type parser struct {
	file   *source.File
	tokens []lex.Token
	index  int
}

func (p *parser) parseStatements() ([]declaration, []assignment, *source.SyntaxError) {
	var (
		decls   []declaration
		assigns []assignment
	)
	//
	for p.lookahead().Kind != END_OF {
		// Skip blank lines
		if p.lookahead().Kind == NEWLINE {
			p.next()
			continue
		}
		//
		if p.lookahead().Kind != IDENT {
			return nil, nil, p.syntaxError(p.lookahead().Span, "expected statement")
		}
		//
		switch p.text(p.lookahead()) {
		case "INPUT", "OUTPUT":
			decl, err := p.parseDeclaration()
			if err != nil {
				return nil, nil, err
			}
			//
			decls = append(decls, decl)
		default:
			stmt, err := p.parseAssignment()
			if err != nil {
				return nil, nil, err
			}
			//
			assigns = append(assigns, stmt)
		}
	}
	//
	return decls, assigns, nil
}

// Parse a statement of the form "INPUT(name[width])" or "OUTPUT(name[width])".
func (p *parser) parseDeclaration() (declaration, *source.SyntaxError) {
	var decl declaration
	//
	keyword := p.next()
	decl.input = p.text(keyword) == "INPUT"
	//
	if _, err := p.expect(LBRACE, "expected '('"); err != nil {
		return decl, err
	}
	//
	name, width, _, err := p.parseSignal()
	if err != nil {
		return decl, err
	}
	//
	decl.name, decl.width = name, width
	//
	last, err := p.expect(RBRACE, "expected ')'")
	if err != nil {
		return decl, err
	}
	//
	decl.span = source.NewSpan(keyword.Span.Start(), last.Span.End())
	//
	return decl, p.parseEndOfLine()
}

// Parse a statement of the form "name[width] = OP(arg, ..., arg)".
func (p *parser) parseAssignment() (assignment, *source.SyntaxError) {
	var stmt assignment
	//
	lhs, width, hasWidth, err := p.parseSignal()
	if err != nil {
		return stmt, err
	}
	//
	stmt.lhs, stmt.width, stmt.hasWidth = lhs, width, hasWidth
	//
	if _, err := p.expect(EQUALS, "expected '='"); err != nil {
		return stmt, err
	}
	//
	if stmt.op, err = p.expect(IDENT, "expected operation name"); err != nil {
		return stmt, err
	}
	//
	if _, err := p.expect(LBRACE, "expected '('"); err != nil {
		return stmt, err
	}
	// Parse comma-separated arguments
	for p.lookahead().Kind != RBRACE {
		if len(stmt.args) > 0 || stmt.reset != nil {
			if _, err := p.expect(COMMA, "expected ','"); err != nil {
				return stmt, err
			}
		}
		//
		if err := p.parseArgument(&stmt); err != nil {
			return stmt, err
		}
	}
	//
	last := p.next()
	stmt.span = source.NewSpan(lhs.Span.Start(), last.Span.End())
	//
	return stmt, p.parseEndOfLine()
}

// Parse a single argument, which is either a signal name, a number or a
// "reset=number" binding.
func (p *parser) parseArgument(stmt *assignment) *source.SyntaxError {
	arg := p.lookahead()
	//
	switch {
	case arg.Kind == IDENT && p.text(arg) == "reset":
		p.next()
		//
		if _, err := p.expect(EQUALS, "expected '=' after reset"); err != nil {
			return err
		}
		//
		number, err := p.expect(NUMBER, "expected reset value")
		if err != nil {
			return err
		}
		//
		if stmt.reset != nil {
			return p.syntaxError(arg.Span, "reset already given")
		}
		//
		stmt.reset = p.number(number)
	case arg.Kind == IDENT || arg.Kind == NUMBER:
		stmt.args = append(stmt.args, p.next())
	default:
		return p.syntaxError(arg.Span, "expected argument")
	}
	// Done
	return nil
}

// Parse a signal reference with an optional width annotation, producing the
// name token, the width (defaulting to one) and whether it was given.
func (p *parser) parseSignal() (lex.Token, uint, bool, *source.SyntaxError) {
	name, err := p.expect(IDENT, "expected signal name")
	//
	if err != nil {
		return name, 0, false, err
	} else if p.lookahead().Kind != LSQUARE {
		return name, 1, false, nil
	}
	//
	p.next()
	//
	number, err := p.expect(NUMBER, "expected bitwidth")
	if err != nil {
		return name, 0, false, err
	}
	//
	width, werr := strconv.ParseUint(p.text(number), 10, 32)
	//
	if werr != nil || width == 0 {
		return name, 0, false, p.syntaxError(number.Span, "invalid bitwidth")
	}
	//
	if _, err := p.expect(RSQUARE, "expected ']'"); err != nil {
		return name, 0, false, err
	}
	//
	return name, uint(width), true, nil
}

// Each statement must be terminated by a newline (or the end of the file).
func (p *parser) parseEndOfLine() *source.SyntaxError {
	if tok := p.lookahead(); tok.Kind != NEWLINE && tok.Kind != END_OF {
		return p.syntaxError(tok.Span, "expected end of line")
	} else if tok.Kind == NEWLINE {
		p.next()
	}
	//
	return nil
}

func (p *parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

func (p *parser) next() lex.Token {
	token := p.tokens[p.index]
	p.index++
	//
	return token
}

func (p *parser) expect(kind uint, msg string) (lex.Token, *source.SyntaxError) {
	if token := p.lookahead(); token.Kind == kind {
		return p.next(), nil
	}
	//
	return lex.Token{}, p.syntaxError(p.lookahead().Span, msg)
}

// text extracts the characters covered by a given token.
func (p *parser) text(token lex.Token) string {
	contents := p.file.Contents()
	return string(contents[token.Span.Start():token.Span.End()])
}

// number converts a NUMBER token into its (unbounded) value.
func (p *parser) number(token lex.Token) *big.Int {
	value, ok := big.NewInt(0).SetString(p.text(token), 10)
	//
	if !ok {
		panic("unreachable")
	}
	//
	return value
}

func (p *parser) syntaxError(span source.Span, msg string) *source.SyntaxError {
	return p.file.SyntaxError(span, msg)
}
