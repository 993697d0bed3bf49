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
	"errors"
	"fmt"
)

// StructuralCode identifies which well-formedness invariant a structural error
// violated.
type StructuralCode struct {
	code uint8
}

var (
	// DUPLICATE_NAME signals a wire (or memory) name which collides with an
	// existing name in the same graph.
	DUPLICATE_NAME = StructuralCode{uint8(0)}
	// MULTIPLE_DRIVERS signals an attempt to give a wire a second producing
	// net.
	MULTIPLE_DRIVERS = StructuralCode{uint8(1)}
	// WIDTH_MISMATCH signals operand bitwidths which violate an operation's
	// arity / width contract.
	WIDTH_MISMATCH = StructuralCode{uint8(2)}
	// CYCLIC_LOGIC signals a cycle within the purely combinational subgraph.
	CYCLIC_LOGIC = StructuralCode{uint8(3)}
	// NO_DRIVER signals an output wire left without a producing net.
	NO_DRIVER = StructuralCode{uint8(4)}
)

// String returns a human-readable name for this structural code.
func (p StructuralCode) String() string {
	switch p {
	case DUPLICATE_NAME:
		return "duplicate name"
	case MULTIPLE_DRIVERS:
		return "multiple drivers"
	case WIDTH_MISMATCH:
		return "width mismatch"
	case CYCLIC_LOGIC:
		return "cyclic combinational logic"
	case NO_DRIVER:
		return "no driver"
	default:
		panic("unreachable")
	}
}

// StructuralError signals a violation of graph well-formedness.  Such errors
// are always fatal to the operation which triggered them, and that operation
// leaves the graph unchanged.
type StructuralError struct {
	code StructuralCode
	msg  string
}

// Code returns the violated invariant.
func (p *StructuralError) Code() StructuralCode {
	return p.code
}

// Error implements the error interface.
func (p *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", p.code, p.msg)
}

// IsStructural checks whether a given error is a structural error with a given
// code.
func IsStructural(err error, code StructuralCode) bool {
	var serr *StructuralError
	//
	return errors.As(err, &serr) && serr.code == code
}

// ============================================================================

// InternalConsistencyError signals that an invariant a pass is itself
// responsible for maintaining was found violated mid-pass.  This indicates a
// defect in the pass (not a user error), and the pass must abort rather than
// hand back a silently wrong graph.
type InternalConsistencyError struct {
	msg string
}

// NewInternalConsistencyError constructs a new internal consistency error with
// a given (formatted) message.
func NewInternalConsistencyError(format string, args ...any) *InternalConsistencyError {
	return &InternalConsistencyError{fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (p *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency failure: %s", p.msg)
}

// ============================================================================

// errDuplicateName constructs a structural error for a colliding name.
func errDuplicateName(name string) error {
	return &StructuralError{DUPLICATE_NAME, fmt.Sprintf("wire or memory \"%s\" already exists", name)}
}

// errMultipleDrivers constructs a structural error for a wire which already
// has a producing net.
func (p *Graph) errMultipleDrivers(wire WireId) error {
	return &StructuralError{MULTIPLE_DRIVERS,
		fmt.Sprintf("wire \"%s\" already has a driver", p.Wire(wire).Name())}
}

// errWidthMismatch constructs a structural error for a net violating its
// operation's width contract.
func (p *Graph) errWidthMismatch(net *Net, msg string) error {
	return &StructuralError{WIDTH_MISMATCH, fmt.Sprintf("%s net %s: %s", net.op, p.describe(net), msg)}
}

// errCyclicLogic constructs a structural error for a combinational cycle
// passing through a given wire.
func (p *Graph) errCyclicLogic(wire WireId) error {
	return &StructuralError{CYCLIC_LOGIC,
		fmt.Sprintf("combinational cycle through wire \"%s\"", p.Wire(wire).Name())}
}

// describe returns a human-readable identification of a given net, based on
// its output wire where it has one.
func (p *Graph) describe(net *Net) string {
	if net.output.IsUsed() {
		return fmt.Sprintf("driving \"%s\"", p.Wire(net.output).Name())
	} else if len(net.inputs) > 0 {
		return fmt.Sprintf("addressed by \"%s\"", p.Wire(net.inputs[0]).Name())
	}
	// Should be unreachable in a well-formed graph.
	return "(detached)"
}
