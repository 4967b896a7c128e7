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
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/shenwei356/hammerdb/binning"
	hdb "github.com/shenwei356/hammerdb/hammerdb"
	"github.com/shenwei356/hammerdb/scan"
)

// maxHammerAdapter wraps a MaxHammerBinningRule plus one contig's
// per-genome hit-count map so it can be passed to BinBuilder.Store,
// which expects the Contig-shaped Rule interface.
type maxHammerAdapter struct {
	rule   *binning.MaxHammerBinningRule
	scores map[string]int
}

func (a maxHammerAdapter) Decide(binning.Contig) (string, bool) {
	return a.rule.DecideFromScores(a.scores)
}

var binCmd = &cobra.Command{
	Use:   "bin",
	Short: "bin query contigs by their dominant hammer-matched genome",
	Long: `bin query contigs by their dominant hammer-matched genome

For each contig, tallies hammer hits per genome and applies
MaxHammerBinningRule (spec.md §4.7/§8 S4): the contig goes to the bin
with the most hits, provided its margin over the runner-up is at least
--min-diff; otherwise it is counted under the REJECTED virtual bin,
which has no output file. Bin FASTA files are written under --out-dir,
one per accepted bin id.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		if len(args) != 2 {
			checkError(fmt.Errorf("bin takes a hammer TSV file and a query FASTA file"))
		}
		hammerFile, queryFile := expandPath(args[0]), expandPath(args[1])
		checkFiles(hammerFile, queryFile)

		minDiff := getFlagInt(cmd, "min-diff")
		outDir := expandPath(getFlagString(cmd, "out-dir"))
		checkError(os.MkdirAll(outDir, 0o755))

		db, err := hdb.Load(hammerFile, hdb.CountHits, nil)
		checkError(err)

		seqs, _, err := readQuerySeqs(queryFile)
		checkError(err)

		rule := &binning.MaxHammerBinningRule{MinDiff: minDiff}
		builder := binning.NewBinBuilder(func(binID string) (io.WriteCloser, error) {
			return os.Create(filepath.Join(outDir, binID+".fasta"))
		})
		defer builder.Close()

		var winners []string
		for _, qs := range seqs {
			scores := db.FindClosest([]scan.QuerySeq{qs}, scan.NoScaling)
			counts := make(map[string]int)
			for _, c := range scores.SortedCounts() {
				counts[c.Key] = int(c.Weight)
			}

			contig := binning.Contig{Label: qs.Label, Length: qs.Length}
			adapter := maxHammerAdapter{rule: rule, scores: counts}

			record := fmt.Sprintf(">%s\n%s\n", qs.Label, qs.Bases)
			binID, rejected, err := builder.Store(contig, adapter, []byte(record))
			checkError(err)
			if rejected {
				binID = ""
			}
			winners = append(winners, binID)
			if opt.Verbose {
				if rejected {
					log.Infof("%s -> rejected", qs.Label)
				} else {
					log.Infof("%s -> %s", qs.Label, binID)
				}
			}
		}

		stats := builder.Stats()
		var bins [8]string
		for i := 0; i < len(stats) && i < 8; i++ {
			bins[i] = stats[i].BinID
		}
		tally := rule.BatchTally(bins, winners)
		if opt.Verbose {
			log.Infof("AVX2=%v batch tally of the first %d bins: %v", binning.AVX2Available, len(stats), tally)
		}

		for _, st := range stats {
			fmt.Fprintf(os.Stdout, "%s\t%d\t%d\n", st.BinID, st.ContigCount, st.TotalLength)
		}
	},
}

func init() {
	RootCmd.AddCommand(binCmd)
	binCmd.Flags().IntP("min-diff", "m", 2, "minimum winning margin required to accept a bin")
	binCmd.Flags().StringP("out-dir", "O", "bins", "directory to write per-bin FASTA files into")
}
