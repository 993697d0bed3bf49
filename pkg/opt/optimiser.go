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

// Package opt shrinks a netlist graph without changing the function it
// computes from input wires to output wires.  A fixed pipeline of
// semantics-preserving rewrites (copy coalescing, constant propagation,
// duplicate-net merging, dead-logic elimination) is iterated until no rewrite
// applies.  Sub-pass order matters only for convergence speed, never for
// correctness.
package opt

import (
	"github.com/consensys/go-netlist/pkg/netlist"
	log "github.com/sirupsen/logrus"
)

// Config provides a mechanism for controlling which rewrites are applied
// during optimisation, along with an external cap on the fixed-point loop for
// callers wanting bounded-time optimisation.
type Config struct {
	// CopyCoalescing removes buffers into internal wires, rewiring their
	// consumers to the source.
	CopyCoalescing bool
	// ConstantPropagation folds nets whose inputs are all constant, along
	// with the one-constant algebraic identities (absorbing / identity
	// elements, constant selectors).
	ConstantPropagation bool
	// DuplicateMerging merges combinational nets performing the same
	// operation on the same ordered inputs.
	DuplicateMerging bool
	// DeadLogicElimination removes nets which no output wire (and no memory
	// write) transitively depends upon.
	DeadLogicElimination bool
	// MaxIterations caps the fixed-point loop, where zero means run to the
	// fixed point.  The loop is in any case bounded by the initial net count.
	MaxIterations uint
}

// OPTIMISATION_LEVELS provides a set of precanned optimisation
// configurations, where 0 implies no optimisation.
var OPTIMISATION_LEVELS = []Config{
	// Level 0 == nothing enabled.
	{false, false, false, false, 0},
	// Level 1 == full pipeline, run to the fixed point.
	{true, true, true, true, 0},
}

// DEFAULT_OPTIMISATION_LEVEL provides a default level of optimisation which
// should be used in most cases.
var DEFAULT_OPTIMISATION_LEVEL = OPTIMISATION_LEVELS[1]

// Optimise applies the rewrite pipeline to a given graph until a fixed point
// (or the configured iteration cap) is reached, returning the total number of
// nets removed.  The net count never increases across an iteration; were it
// ever to do so, that would indicate a defect in a rewrite and aborts the
// pass.
func Optimise(graph *netlist.Graph, cfg Config) (uint, error) {
	var (
		initial = graph.NetCount()
		total   uint
	)
	//
	for iteration := uint(1); ; iteration++ {
		var (
			before    = graph.NetCount()
			mutations uint
			count     uint
			err       error
		)
		//
		if cfg.CopyCoalescing {
			mutations += coalesceCopies(graph)
		}
		//
		if cfg.ConstantPropagation {
			if count, err = propagateConstants(graph); err != nil {
				return total, err
			}
			//
			mutations += count
		}
		//
		if cfg.DuplicateMerging {
			mutations += mergeDuplicates(graph)
		}
		//
		if cfg.DeadLogicElimination {
			mutations += eliminateDeadLogic(graph)
		}
		//
		if graph.NetCount() > before {
			return total, netlist.NewInternalConsistencyError(
				"optimisation iteration %d increased net count (%d => %d)",
				iteration, before, graph.NetCount())
		}
		//
		total = initial - graph.NetCount()
		//
		log.Debugf("optimisation iteration %d applied %d rewrites (%d nets remain)",
			iteration, mutations, graph.NetCount())
		// Check for the fixed point, or the external cap.
		if mutations == 0 || (cfg.MaxIterations != 0 && iteration >= cfg.MaxIterations) {
			return total, nil
		}
	}
}
