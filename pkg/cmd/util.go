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
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-netlist/pkg/benchfile"
	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/opt"
	"github.com/consensys/go-netlist/pkg/util/source"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, exiting if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, exiting if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, exiting if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetFloat gets an expected floating point flag, exiting if an error arises.
func GetFloat(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// readBenchFile reads and parses a given bench file into a netlist graph,
// reporting any errors (with appropriate highlighting) and exiting on failure.
func readBenchFile(filename string) *netlist.Graph {
	graph, _, err := benchfile.ReadGraph(filename)
	//
	if serr, ok := err.(*source.SyntaxError); ok {
		printSyntaxError(serr)
		os.Exit(2)
	} else if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return graph
}

// optimisationConfig determines the optimisation configuration selected by the
// "-O" flag, exiting on an unknown level.
func optimisationConfig(cmd *cobra.Command) opt.Config {
	level := GetUint(cmd, "opt")
	//
	if level >= uint(len(opt.OPTIMISATION_LEVELS)) {
		fmt.Printf("unknown optimisation level %d\n", level)
		os.Exit(2)
	}
	//
	return opt.OPTIMISATION_LEVELS[level]
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
