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

// Package analysis provides the read-only passes of the pipeline: static
// timing analysis (per-wire arrival times and the critical path) and area
// estimation.  Neither pass mutates the graph, so both may run on the same
// graph without interference.
package analysis

import (
	"github.com/consensys/go-netlist/pkg/netlist"
)

// DelayModel maps each operation kind to the delay a net of that kind
// contributes.  The model is pluggable configuration rather than hard-coded
// constants; the default charges one delay unit per gate and nothing for
// width-only primitives, which create no logic.
type DelayModel struct {
	delays [netlist.NUM_OPS]float64
}

// UnitDelayModel constructs the default delay model: one unit per
// gate-creating combinational operation, zero for width-only primitives and
// sequential boundaries.
func UnitDelayModel() DelayModel {
	var model DelayModel
	//
	for _, op := range []netlist.OpKind{
		netlist.OP_NOT, netlist.OP_AND, netlist.OP_OR, netlist.OP_XOR, netlist.OP_NAND,
		netlist.OP_ADD, netlist.OP_SUB, netlist.OP_MUL,
		netlist.OP_EQ, netlist.OP_LT, netlist.OP_GT, netlist.OP_MUX,
	} {
		model.delays[op.Index()] = 1.0
	}
	//
	return model
}

// WithDelay returns a copy of this model in which a given operation kind has
// a given delay.
func (p DelayModel) WithDelay(op netlist.OpKind, delay float64) DelayModel {
	p.delays[op.Index()] = delay
	return p
}

// Delay returns the delay contributed by nets of a given kind.
func (p DelayModel) Delay(op netlist.OpKind) float64 {
	return p.delays[op.Index()]
}

// ============================================================================

// TimingReport is the value object produced by timing analysis.  It is
// recomputed from scratch whenever the graph changes.
type TimingReport struct {
	// Arrival time estimate per wire slot.
	arrivals []float64
	// Critical path, ordered from timing source to sink.
	critical []netlist.WireId
	// Maximum combinational delay over all timing sinks.
	maxDelay float64
}

// Arrival returns the estimated arrival time of a given wire.
func (p *TimingReport) Arrival(wid netlist.WireId) float64 {
	return p.arrivals[wid.Unwrap()]
}

// MaxDelay returns the maximum combinational delay, i.e. the single scalar
// used for clock-period feasibility judgements.
func (p *TimingReport) MaxDelay() float64 {
	return p.maxDelay
}

// CriticalPath returns the wires along the critical path, ordered from the
// timing source to the latest sink.  The path is empty only for graphs with
// no timing sinks at all.
func (p *TimingReport) CriticalPath() []netlist.WireId {
	return p.critical
}

// ============================================================================

// AnalyseTiming computes an arrival time estimate for every wire of a graph
// under a given delay model.  Input, constant and register wires are timing
// sources with arrival time zero, as are memory read outputs; output wires
// and the operands of sequential nets are the timing sinks.  Wires are
// processed in topological order over the combinational subgraph, each net's
// output arriving at the maximum of its input arrivals plus the net's delay.
// Ties are broken by the graph's deterministic iteration order, with the
// earliest candidate winning.  This fails with a structural error if the
// combinational subgraph contains a cycle.
func AnalyseTiming(graph *netlist.Graph, model DelayModel) (*TimingReport, error) {
	order, err := graph.TopologicalOrder()
	//
	if err != nil {
		return nil, err
	}
	//
	var (
		bound    = graph.WireBound()
		arrivals = make([]float64, bound)
		// Predecessor wire achieving the maximum, for path reconstruction.
		preds = make([]netlist.WireId, bound)
	)
	//
	for i := range preds {
		preds[i] = netlist.NewUnusedWireId()
	}
	// Forward sweep.
	for _, nid := range order {
		var (
			net = graph.Net(nid)
			out = net.Output()
		)
		// Memory read outputs are sources, like register outputs.
		if net.Op() == netlist.OP_MEMRD {
			continue
		}
		//
		var (
			best  = netlist.NewUnusedWireId()
			bestT = 0.0
		)
		//
		for _, in := range net.Inputs() {
			if t := arrivals[in.Unwrap()]; !best.IsUsed() || t > bestT {
				best, bestT = in, t
			}
		}
		//
		arrivals[out.Unwrap()] = bestT + model.Delay(net.Op())
		preds[out.Unwrap()] = best
	}
	// Locate the latest sink.
	var (
		sink  = netlist.NewUnusedWireId()
		sinkT = 0.0
	)
	//
	visit := func(wid netlist.WireId) {
		if t := arrivals[wid.Unwrap()]; !sink.IsUsed() || t > sinkT {
			sink, sinkT = wid, t
		}
	}
	//
	for _, wid := range graph.Outputs() {
		visit(wid)
	}
	//
	for _, nid := range graph.Nets() {
		if graph.Net(nid).Op().IsSequential() {
			for _, wid := range graph.Net(nid).Inputs() {
				visit(wid)
			}
		}
	}
	// Reconstruct the critical path by following predecessor links backward
	// from the latest sink.
	var critical []netlist.WireId
	//
	for wid := sink; wid.IsUsed(); wid = preds[wid.Unwrap()] {
		critical = append(critical, wid)
	}
	// Reverse into source-to-sink order.
	for i, j := 0, len(critical)-1; i < j; i, j = i+1, j-1 {
		critical[i], critical[j] = critical[j], critical[i]
	}
	//
	return &TimingReport{arrivals, critical, sinkT}, nil
}
