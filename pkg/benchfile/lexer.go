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

// Package benchfile reads and writes netlist graphs in a textual format in
// the ISCAS BENCH tradition, extended with bitwidth annotations:
//
//	# a 4-bit adder
//	INPUT(a[4])
//	OUTPUT(sum[5])
//	k[4] = CONST(6)
//	sum[5] = ADD(a, k)
//
// Classic single-bit BENCH files (AND, OR, NAND, NOT, BUFF, DFF) parse
// unchanged, with widths defaulting to one.  Memories are not representable
// in the text format, matching the classic format's scope.
package benchfile

import (
	"github.com/consensys/go-netlist/pkg/util/source"
	"github.com/consensys/go-netlist/pkg/util/source/lex"
)

// IDENT signifies a signal or operation name.
const IDENT uint = 0

// NUMBER signifies a decimal number (a constant value, bit index or width).
const NUMBER uint = 1

// LBRACE signifies a left parenthesis.
const LBRACE uint = 2

// RBRACE signifies a right parenthesis.
const RBRACE uint = 3

// LSQUARE signifies a left square bracket (opening a width annotation).
const LSQUARE uint = 4

// RSQUARE signifies a right square bracket.
const RSQUARE uint = 5

// COMMA signifies an argument separator.
const COMMA uint = 6

// EQUALS signifies the assignment symbol.
const EQUALS uint = 7

// NEWLINE signifies the end of a statement.
const NEWLINE uint = 8

// WHITESPACE signifies one or more spaces or tabs.
const WHITESPACE uint = 9

// COMMENT signifies a comment running to the end of the line.
const COMMENT uint = 10

// END_OF signifies the end of the file.
const END_OF uint = 11

var (
	letter = lex.Or(
		lex.Within('a', 'z'),
		lex.Within('A', 'Z'),
		lex.Unit('_'),
		// Generated names use a dollar prefix.
		lex.Unit('$'))
	digit = lex.Within('0', '9')
	rules = []lex.LexRule{
		lex.Rule(lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'))), WHITESPACE),
		lex.Rule(lex.Unit('\n'), NEWLINE),
		lex.Rule(lex.SequenceNullableLast(lex.Unit('#'), lex.Until('\n')), COMMENT),
		lex.Rule(lex.SequenceNullableLast(letter, lex.Many(lex.Or(letter, digit))), IDENT),
		lex.Rule(lex.Many(digit), NUMBER),
		lex.Rule(lex.Unit('('), LBRACE),
		lex.Rule(lex.Unit(')'), RBRACE),
		lex.Rule(lex.Unit('['), LSQUARE),
		lex.Rule(lex.Unit(']'), RSQUARE),
		lex.Rule(lex.Unit(','), COMMA),
		lex.Rule(lex.Unit('='), EQUALS),
		lex.Rule(lex.Eof(), END_OF),
	}
)

// Lex tokenises a bench file, producing an error if any character fails to
// match the lexical rules.  Whitespace and comments are filtered out, whilst
// newlines are retained as statement terminators.
func Lex(file *source.File) ([]lex.Token, *source.SyntaxError) {
	var (
		lexer  = lex.NewLexer(file.Contents(), rules...)
		tokens = lexer.Collect()
	)
	// Check whether anything was left unlexed.
	if lexer.Remaining() > 0 {
		start := int(lexer.Index())
		return nil, file.SyntaxError(source.NewSpan(start, start+1), "unknown character")
	}
	// Filter tokens which play no grammatical role.
	filtered := make([]lex.Token, 0, len(tokens))
	//
	for _, token := range tokens {
		if token.Kind != WHITESPACE && token.Kind != COMMENT {
			filtered = append(filtered, token)
		}
	}
	//
	return filtered, nil
}
