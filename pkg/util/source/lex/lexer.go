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

// Package lex provides a rule-based lexer: each rule couples a scanner (a
// function accepting some prefix of the remaining input) with a token tag,
// and the lexer repeatedly applies the first matching rule.
package lex

import "github.com/consensys/go-netlist/pkg/util/source"

// Token associates a tag with a given range of characters in the string being
// scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule is simply a rule for associating groups of characters with a given
// tag.
//
// nolint
type LexRule struct {
	scanner Scanner
	tag     uint
}

// Rule constructs a new lexing rule which maps matching characters to a given
// tag.
func Rule(scanner Scanner, tag uint) LexRule {
	return LexRule{scanner, tag}
}

// Lexer provides a top-level construct for tokenising a given input string.
type Lexer struct {
	items  []rune
	index  int
	rules  []LexRule
	buffer []Token
}

// NewLexer constructs a new lexer over a given input with a given set of
// lexing rules.
func NewLexer(input []rune, rules ...LexRule) *Lexer {
	return &Lexer{
		input,
		0,
		rules,
		nil,
	}
}

// Index returns the current index within the input.
func (p *Lexer) Index() uint {
	return uint(p.index)
}

// Remaining determines how many characters from the original sequence were
// left.
func (p *Lexer) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// HasNext checks whether or not there are any items remaining to visit.  This
// returns false once no rule matches the remaining input, so a lexer which
// stops early signals a lexing error at Index().
func (p *Lexer) HasNext() bool {
	p.scan()
	return len(p.buffer) > 0
}

// Next returns the next token and advances the lexer.
func (p *Lexer) Next() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	//
	if p.index == len(p.items) {
		// EOF condition
		p.index++
	} else {
		p.index = next.Span.End()
	}
	//
	return next
}

// Collect is a convenience function which lexes all remaining tokens in one
// go, producing an array of tokens.
func (p *Lexer) Collect() []Token {
	var tokens []Token
	// Keep scanning
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens
}

// internal scan function.
func (p *Lexer) scan() {
	if len(p.buffer) == 0 && p.index <= len(p.items) {
		// Look for match
		for _, r := range p.rules {
			if n := r.scanner(p.items[p.index:]); n > 0 {
				end := min(len(p.items), p.index+int(n))
				span := source.NewSpan(p.index, end)
				// Insert into buffer
				p.buffer = append(p.buffer, Token{r.tag, span})
				// Done
				return
			}
		}
	}
}
