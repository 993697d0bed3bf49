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

	"github.com/consensys/go-netlist/pkg/benchfile"
	"github.com/consensys/go-netlist/pkg/opt"
	"github.com/consensys/go-netlist/pkg/synth"
	"github.com/consensys/go-netlist/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// synthCmd represents the synth command
var synthCmd = &cobra.Command{
	Use:   "synth [flags] netlist_file",
	Short: "Synthesise a netlist down to single-bit gates.",
	Long: `Synthesise a netlist down to single-bit gates.  Word-level
	operations (addition, comparison, multiplexing, etc) are decomposed into
	networks of one bit AND / OR / XOR / NOT gates, after which the configured
	optimisation level is applied.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		output := GetString(cmd, "output")
		config := optimisationConfig(cmd)
		// Parse netlist
		graph := readBenchFile(args[0])
		//
		stats := util.NewPerfStats()
		// Lower to gates
		if err := synth.NewLowering(graph).Lower(); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		stats.Log("Synthesising netlist")
		stats = util.NewPerfStats()
		// Apply optimisation pipeline
		if _, err := opt.Optimise(graph, config); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		stats.Log("Optimising netlist")
		// Write out the result
		if output != "" {
			if err := benchfile.WriteGraph(output, graph); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		} else if text, err := benchfile.Format(graph); err != nil {
			fmt.Println(err)
			os.Exit(2)
		} else {
			fmt.Print(text)
		}
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().StringP("output", "o", "", "write synthesised netlist to a given file")
}
