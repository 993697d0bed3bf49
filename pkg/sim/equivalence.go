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
	"fmt"
	"math/big"
	"math/rand"

	"github.com/consensys/go-netlist/pkg/netlist"
)

// EquivalenceConfig controls how two graphs are compared: exhaustively when
// the total input bit count is small enough, otherwise by seeded random
// sampling.  Sequential designs are compared over several cycles, with the
// same input sequence fed to both graphs.
type EquivalenceConfig struct {
	// MaxExhaustiveBits bounds the total input bits for which every
	// assignment is tried.
	MaxExhaustiveBits uint
	// Samples of random assignments used above that bound.
	Samples uint
	// Cycles evaluated per assignment (registers and memories advance).
	Cycles uint
	// Seed of the random sampler, for reproducible comparisons.
	Seed int64
}

// DEFAULT_EQUIVALENCE is a sensible configuration for test-sized graphs.
var DEFAULT_EQUIVALENCE = EquivalenceConfig{16, 256, 4, 0}

// Equivalent checks that two graphs expose the same external interface and
// compute the same function from input wires to output wires, returning a
// descriptive error (including a counterexample) when they do not.  This is
// the executable form of the pipeline's defining correctness requirement:
// behaviour(G) == behaviour(synthesise(G)) == behaviour(optimise(G)).
func Equivalent(a *netlist.Graph, b *netlist.Graph, cfg EquivalenceConfig) error {
	if err := checkInterface(a, b); err != nil {
		return err
	}
	//
	if TotalInputBits(a) <= cfg.MaxExhaustiveBits {
		for enum := EnumerateInputs(a); enum.HasNext(); {
			if err := compare(a, b, enum.Next(), cfg.Cycles); err != nil {
				return err
			}
		}
		//
		return nil
	}
	// Too many inputs to enumerate; fall back on random sampling.
	rng := rand.New(rand.NewSource(cfg.Seed))
	//
	for i := uint(0); i < cfg.Samples; i++ {
		if err := compare(a, b, randomInputs(a, rng), cfg.Cycles); err != nil {
			return err
		}
	}
	//
	return nil
}

// checkInterface verifies both graphs have identical input and output wires
// (names and widths, in declaration order).
func checkInterface(a *netlist.Graph, b *netlist.Graph) error {
	if err := checkWires(a, b, a.Inputs(), b.Inputs(), "input"); err != nil {
		return err
	}
	//
	return checkWires(a, b, a.Outputs(), b.Outputs(), "output")
}

func checkWires(a *netlist.Graph, b *netlist.Graph, as []netlist.WireId, bs []netlist.WireId, kind string) error {
	if len(as) != len(bs) {
		return fmt.Errorf("mismatched %s counts (%d vs %d)", kind, len(as), len(bs))
	}
	//
	for i := range as {
		var (
			aw = a.Wire(as[i])
			bw = b.Wire(bs[i])
		)
		//
		if aw.Name() != bw.Name() || aw.Width() != bw.Width() {
			return fmt.Errorf("mismatched %s wire (\"%s\"[%d] vs \"%s\"[%d])",
				kind, aw.Name(), aw.Width(), bw.Name(), bw.Width())
		}
	}
	//
	return nil
}

// compare runs both graphs from reset over a given number of cycles with the
// same inputs held each cycle, checking outputs agree cycle by cycle.
func compare(a *netlist.Graph, b *netlist.Graph, inputs []*big.Int, cycles uint) error {
	sa, err := NewSimulator(a)
	//
	if err != nil {
		return err
	}
	//
	sb, err := NewSimulator(b)
	//
	if err != nil {
		return err
	}
	//
	for cycle := uint(0); cycle < max(cycles, 1); cycle++ {
		oa, err := sa.Step(inputs)
		//
		if err != nil {
			return err
		}
		//
		ob, err := sb.Step(inputs)
		//
		if err != nil {
			return err
		}
		//
		for i := range oa {
			if oa[i].Cmp(ob[i]) != 0 {
				return fmt.Errorf("output \"%s\" differs on cycle %d for inputs %v (%s vs %s)",
					a.Wire(a.Outputs()[i]).Name(), cycle, inputs, oa[i], ob[i])
			}
		}
	}
	//
	return nil
}

// randomInputs draws one random assignment to a graph's input wires.
func randomInputs(graph *netlist.Graph, rng *rand.Rand) []*big.Int {
	inputs := make([]*big.Int, len(graph.Inputs()))
	//
	for i, wid := range graph.Inputs() {
		var (
			width = graph.Wire(wid).Width()
			value = big.NewInt(0)
		)
		//
		for bits := uint(0); bits < width; bits += 32 {
			value.Lsh(value, 32)
			value.Or(value, big.NewInt(int64(rng.Uint32())))
		}
		//
		inputs[i] = netlist.Truncate(value, width)
	}
	//
	return inputs
}
