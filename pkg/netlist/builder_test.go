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
	"testing"
)

func Test_Builder_01(t *testing.T) {
	var (
		g = NewGraph()
		b = NewBuilder(g)
	)
	// Narrower operand is implicitly zero extended.
	x := b.Input("x", 4)
	y := b.Input("y", 2)
	sum := b.Add(x, y)
	out := b.Output("sum", 5)
	b.Connect(out, sum)
	//
	checkOk(t, b.Error())
	checkOk(t, g.Validate())
	//
	if g.Wire(sum).Width() != 5 {
		t.Errorf("expected 5 bit sum, got %d", g.Wire(sum).Width())
	}
}

func Test_Builder_02(t *testing.T) {
	var (
		g = NewGraph()
		b = NewBuilder(g)
	)
	//
	x := b.Input("x", 4)
	y := b.Input("y", 4)
	//
	if w := g.Wire(b.Mul(x, y)).Width(); w != 8 {
		t.Errorf("expected 8 bit product, got %d", w)
	}
	//
	if w := g.Wire(b.Lt(x, y)).Width(); w != 1 {
		t.Errorf("expected 1 bit comparison, got %d", w)
	}
	//
	checkOk(t, b.Error())
}

func Test_Builder_03(t *testing.T) {
	var (
		g = NewGraph()
		b = NewBuilder(g)
	)
	// Force an error, then check subsequent calls are no-ops.
	b.Input("x", 1)
	b.Input("x", 1)
	//
	if !b.Failed() {
		t.Fatalf("expected latched error")
	}
	//
	before := len(g.Wires())
	// All of these must do nothing.
	y := b.Input("y", 4)
	b.Not(y)
	b.Const(4, 7)
	//
	if len(g.Wires()) != before {
		t.Errorf("builder mutated graph after error")
	}
	//
	if y.IsUsed() {
		t.Errorf("expected unused wire id after error")
	}
}

func Test_Builder_04(t *testing.T) {
	var (
		g = NewGraph()
		b = NewBuilder(g)
	)
	// Register with feedback: a counter.
	count := b.Register("count", 4, 0)
	one := b.Const(4, 1)
	next := b.Select(b.Add(count, one), 0, 1, 2, 3)
	b.Next(count, next)
	out := b.Output("out", 4)
	b.Connect(out, count)
	//
	checkOk(t, b.Error())
	checkOk(t, g.Validate())
}

func Test_Builder_05(t *testing.T) {
	var (
		g = NewGraph()
		b = NewBuilder(g)
	)
	// Concat puts its first operand at the top.
	hi := b.Input("hi", 4)
	lo := b.Input("lo", 4)
	word := b.Concat(hi, lo)
	//
	checkOk(t, b.Error())
	//
	if w := g.Wire(word).Width(); w != 8 {
		t.Errorf("expected 8 bit word, got %d", w)
	}
	//
	net := g.Net(g.Producer(word))
	//
	if net.Inputs()[0] != hi {
		t.Errorf("first operand must be most significant")
	}
}

func Test_Builder_06(t *testing.T) {
	var (
		g = NewGraph()
		b = NewBuilder(g)
	)
	//
	mem := b.Memory("ram", 2, 8)
	addr := b.Input("addr", 2)
	data := b.Input("data", 8)
	en := b.Input("en", 1)
	//
	word := b.MemRead(mem, addr)
	b.MemWrite(mem, addr, data, en)
	//
	out := b.Output("word", 8)
	b.Connect(out, word)
	//
	checkOk(t, b.Error())
	checkOk(t, g.Validate())
}
