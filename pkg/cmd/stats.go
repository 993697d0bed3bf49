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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-netlist/pkg/analysis"
	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/opt"
	"github.com/consensys/go-netlist/pkg/synth"
	"github.com/consensys/go-netlist/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [flags] netlist_file",
	Short: "Report statistics for a given netlist.",
	Long: `Report statistics for a given netlist, including operation counts,
	an estimate of its critical path delay (under a unit delay model) and an
	estimate of its area.  The netlist can optionally be synthesised and
	optimised first, yielding gate-level statistics.`,
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
		tech := GetFloat(cmd, "tech")
		// Parse netlist
		graph := readBenchFile(args[0])
		// Synthesise (if requested)
		if GetFlag(cmd, "synth") {
			if err := synth.NewLowering(graph).Lower(); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			if _, err := opt.Optimise(graph, optimisationConfig(cmd)); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
		// Analyse
		report, err := summarise(graph, tech)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Report
		if GetFlag(cmd, "json") {
			bytes, err := json.Marshal(report)
			//
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			fmt.Println(string(bytes))
		} else {
			printStats(report)
		}
	},
}

// statsReport summarises a netlist for reporting, either as a table or as a
// single JSON object.
type statsReport struct {
	Wires        uint            `json:"wires"`
	Nets         uint            `json:"nets"`
	Ops          map[string]uint `json:"ops"`
	MaxDelay     float64         `json:"max_delay"`
	CriticalPath []string        `json:"critical_path"`
	LogicArea    float64         `json:"logic_area"`
	MemoryArea   float64         `json:"memory_area"`
	TotalArea    float64         `json:"total_area"`
}

// summarise runs the timing and area analyses over a given graph, collecting
// their results along with operation counts.
func summarise(graph *netlist.Graph, tech float64) (statsReport, error) {
	var report statsReport
	//
	timing, err := analysis.AnalyseTiming(graph, analysis.UnitDelayModel())
	if err != nil {
		return report, err
	}
	//
	area := analysis.EstimateArea(graph, analysis.DefaultAreaModel(), tech)
	// Count operations
	ops := make(map[string]uint)
	//
	for _, nid := range graph.Nets() {
		ops[graph.Net(nid).Op().String()]++
	}
	// Name wires along the critical path
	path := make([]string, 0)
	//
	for _, wid := range timing.CriticalPath() {
		path = append(path, graph.Wire(wid).Name())
	}
	//
	report.Wires = uint(len(graph.Wires()))
	report.Nets = graph.NetCount()
	report.Ops = ops
	report.MaxDelay = timing.MaxDelay()
	report.CriticalPath = path
	report.LogicArea = area.Logic
	report.MemoryArea = area.Memory
	report.TotalArea = area.Total()
	//
	return report, nil
}

// printStats prints a summary report to the terminal.
func printStats(report statsReport) {
	var (
		rows = uint(0)
		tbl  *termio.TablePrinter
	)
	// Determine how many operations were actually used.
	for op := uint(0); op < netlist.NUM_OPS; op++ {
		if report.Ops[opKindName(op)] != 0 {
			rows++
		}
	}
	//
	tbl = termio.NewTablePrinter(2, rows+2)
	tbl.SetRow(0, "op", "count")
	// Report counts in a fixed order for determinism.
	row := uint(1)
	//
	for op := uint(0); op < netlist.NUM_OPS; op++ {
		name := opKindName(op)
		//
		if count := report.Ops[name]; count != 0 {
			tbl.SetRow(row, name, fmt.Sprintf("%d", count))
			row++
		}
	}
	//
	tbl.SetRow(row, "total", fmt.Sprintf("%d", report.Nets))
	tbl.SetMaxWidths(termio.TerminalWidth())
	tbl.Print()
	//
	fmt.Printf("%d wires\n", report.Wires)
	fmt.Printf("delay: %.1f (%s)\n", report.MaxDelay, strings.Join(report.CriticalPath, " -> "))
	fmt.Printf("area: %.1f logic + %.1f memory = %.1f\n", report.LogicArea,
		report.MemoryArea, report.TotalArea)
}

// opKinds enumerates every operation kind in index order, such that counts
// are always reported in the same order.
var opKinds = [netlist.NUM_OPS]netlist.OpKind{
	netlist.OP_COPY, netlist.OP_NOT, netlist.OP_AND, netlist.OP_OR,
	netlist.OP_XOR, netlist.OP_NAND, netlist.OP_ADD, netlist.OP_SUB,
	netlist.OP_MUL, netlist.OP_EQ, netlist.OP_LT, netlist.OP_GT,
	netlist.OP_MUX, netlist.OP_SELECT, netlist.OP_CONCAT, netlist.OP_REG,
	netlist.OP_MEMRD, netlist.OP_MEMWR,
}

// opKindName determines the name of the operation kind with a given index.
func opKindName(index uint) string {
	return opKinds[index].String()
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("synth", false, "synthesise the netlist before reporting")
	statsCmd.Flags().Bool("json", false, "report statistics as a JSON object")
	statsCmd.Flags().Float64("tech", 1.0, "technology scaling factor for area estimation")
}
