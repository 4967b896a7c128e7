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
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/shenwei356/hammerdb/binning"
	hdb "github.com/shenwei356/hammerdb/hammerdb"
	"github.com/shenwei356/hammerdb/internal/taxassign"
	"github.com/shenwei356/hammerdb/scan"
)

var closestCmd = &cobra.Command{
	Use:   "closest",
	Short: "score reference genomes present in query sequences",
	Long: `score reference genomes present in query sequences

Scans every query sequence against a hammer file and aggregates a
per-genome weighted score (spec.md §4.5's "closest-genome" query).
Output is a TSV of (genome_id, weight, role_count) sorted by weight
descending.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		if len(args) != 2 {
			checkError(fmt.Errorf("closest takes a hammer TSV file and a query FASTA/FASTQ file"))
		}
		hammerFile, queryFile := expandPath(args[0]), expandPath(args[1])
		checkFiles(hammerFile, queryFile)

		strength := getFlagBool(cmd, "by-strength")
		method := hdb.CountHits
		if strength {
			method = hdb.CountStrength
		}
		scaled := getFlagBool(cmd, "length-coverage-scaling")
		topN := getFlagNonNegativeInt(cmd, "top")

		db, err := hdb.Load(hammerFile, method, nil)
		checkError(err)

		seqs, _, err := readQuerySeqs(queryFile)
		checkError(err)

		ew := scan.NoScaling
		if scaled {
			ew = scan.LengthCoverageScaling
			for i := range seqs {
				seqs[i].Coverage = binning.ComputeCoverage(seqs[i].Label, "")
			}
		}

		scores := db.FindClosest(seqs, ew)
		counts := scores.SortedCounts()
		if topN > 0 && len(counts) > topN {
			counts = counts[:topN]
		}

		var taxa map[string]taxassign.Taxon
		if getFlagBool(cmd, "with-taxonomy") {
			winners := make([]string, len(counts))
			for i, c := range counts {
				winners[i] = c.Key
			}
			taxa, err = (taxassign.NullAssigner{}).Assign(context.Background(), winners)
			checkError(err)
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

		for _, c := range counts {
			if taxa != nil {
				t := taxa[c.Key]
				fmt.Fprintf(outfh, "%s\t%f\t%d\t%s\n", c.Key, c.Weight, c.RoleCount, t.Name)
				continue
			}
			fmt.Fprintf(outfh, "%s\t%f\t%d\n", c.Key, c.Weight, c.RoleCount)
		}
	},
}

func init() {
	RootCmd.AddCommand(closestCmd)
	closestCmd.Flags().BoolP("by-strength", "s", false, "use STRENGTH counting method instead of COUNT")
	closestCmd.Flags().BoolP("length-coverage-scaling", "l", false, "scale external weight by length*coverage/180.0")
	closestCmd.Flags().IntP("top", "n", 0, "only report the top N genomes (0 = all)")
	closestCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout)`)
	closestCmd.Flags().Bool("with-taxonomy", false, "append a taxon column, resolved via the (currently null) Assigner boundary")
}
