// Copyright © 2018-2020 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/shenwei356/hammerdb/dbindex"
)

// dumpInfo is the YAML summary of a diagnostic dump's header, grounded in
// the teacher's UnikIndexDBInfo pattern (util-search.go). "info" always
// builds it from the dump itself; --write also saves it as a sidecar
// file, which nothing in hammerdb reads back.
type dumpInfo struct {
	Version    uint8    `yaml:"version"`
	K          int      `yaml:"k"`
	Method     uint8    `yaml:"method"`
	NumGenomes int      `yaml:"genomes"`
	TotalCodes uint64   `yaml:"totalCodes"`
	Names      []string `yaml:"names"`
	Counts     []uint64 `yaml:"counts"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "print, or write, a YAML summary of a diagnostic dump",
	Long: `print, or write, a YAML summary of a diagnostic dump

Reads a dump written by "hammerdb load --dump" and prints its header
metadata as YAML. With --write, also saves the summary alongside the
dump as <dump>.yml, mirroring the teacher's UnikIndexDBInfo sidecar.
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			checkError(fmt.Errorf("info takes exactly one dump file"))
		}
		file := expandPath(args[0])
		checkFiles(file)

		md, err := dbindex.OpenMapped(file)
		checkError(err)
		defer md.Close()

		names := make([]string, len(md.Header.Genomes))
		counts := make([]uint64, len(md.Header.Genomes))
		var total uint64
		for i, g := range md.Header.Genomes {
			names[i] = g.ID
			counts[i] = g.Count
			total += g.Count
		}

		info := dumpInfo{
			Version:    md.Header.Version,
			K:          int(md.Header.K),
			Method:     md.Header.Method,
			NumGenomes: len(md.Header.Genomes),
			TotalCodes: total,
			Names:      names,
			Counts:     counts,
		}

		data, err := yaml.Marshal(info)
		checkError(err)
		fmt.Print(string(data))
		log.Infof("%d genomes, %s hammers total", info.NumGenomes, humanize.Comma(int64(info.TotalCodes)))

		if getFlagBool(cmd, "write") {
			sidecar := file + ".yml"
			checkError(os.WriteFile(sidecar, data, 0o644))
			log.Infof("wrote %s", sidecar)
		}
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolP("write", "w", false, "also write the summary to <dump>.yml")
}
