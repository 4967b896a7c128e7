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
	"runtime"

	"github.com/spf13/cobra"

	hdb "github.com/shenwei356/hammerdb/hammerdb"
)

var hitsCmd = &cobra.Command{
	Use:   "hits",
	Short: "list individual hammer hits in query sequences",
	Long: `list individual hammer hits in query sequences

Scans every query sequence against a hammer file and emits the sorted,
deduplicated hit list (spec.md §4.5's hit-list mode). Output is a TSV of
(contig, left, right, strand, fid, role, strength, hammer). With
--min-quality and a FASTQ query file, hits whose quality-weighted hammer
window falls below the threshold are dropped (spec.md §4.8).
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		if len(args) != 2 {
			checkError(fmt.Errorf("hits takes a hammer TSV file and a query FASTA/FASTQ file"))
		}
		hammerFile, queryFile := expandPath(args[0]), expandPath(args[1])
		checkFiles(hammerFile, queryFile)

		db, err := hdb.Load(hammerFile, hdb.CountHits, nil)
		checkError(err)

		seqs, quality, err := readQuerySeqs(queryFile)
		checkError(err)

		minQ := getFlagFloat64(cmd, "min-quality")

		var hits = db.FindHits(seqs)
		var dropped int
		if minQ > 0 {
			hits, dropped = db.FindHitsQuality(seqs, quality, minQ)
			if opt.Verbose && dropped > 0 {
				log.Infof("quality gate dropped %d hits", dropped)
			}
		}

		outFile := getFlagString(cmd, "out-file")
		outfh, gw, w, err := outStream(outFile, false)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		for _, h := range hits {
			fmt.Fprintf(outfh, "%s\t%d\t%d\t%c\t%s\t%s\t%f\t%s\n",
				h.Contig, h.Left, h.Right, rune(h.Strand), h.FeatureID, h.RoleID, h.Strength, h.Hammer)
		}
	},
}

func init() {
	RootCmd.AddCommand(hitsCmd)
	hitsCmd.Flags().Float64P("min-quality", "q", 0, "minimum window quality probability to keep a hit (0 disables the gate)")
	hitsCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout)`)
}
