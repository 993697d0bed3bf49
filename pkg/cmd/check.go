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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] netlist_file",
	Short: "Check a given netlist file is well formed.",
	Long: `Check a given netlist file is well formed.  That is, parse it and
	check every wire has a single driver of matching width, every output is
	driven, and the combinational logic is free of cycles.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		// Parse netlist (which validates it as well)
		graph := readBenchFile(args[0])
		//
		fmt.Printf("%s: %d wires, %d nets, %d inputs, %d outputs\n", args[0],
			len(graph.Wires()), graph.NetCount(), len(graph.Inputs()), len(graph.Outputs()))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
