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
	"sort"

	"github.com/spf13/cobra"

	hdb "github.com/shenwei356/hammerdb/hammerdb"
)

var hammersCmd = &cobra.Command{
	Use:   "hammers",
	Short: "list hammers present in query sequences",
	Long: `list hammers present in query sequences

Scans every query sequence against a hammer file and reports the set of
distinct hammer strings matched on either strand (spec.md §4.3
find_hammers). One hammer per line, sorted.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		if len(args) != 2 {
			checkError(fmt.Errorf("hammers takes a hammer TSV file and a query FASTA/FASTQ file"))
		}
		hammerFile, queryFile := expandPath(args[0]), expandPath(args[1])
		checkFiles(hammerFile, queryFile)

		db, err := hdb.Load(hammerFile, hdb.CountHits, nil)
		checkError(err)

		seqs, _, err := readQuerySeqs(queryFile)
		checkError(err)

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

		seen := make(map[string]struct{})
		for _, qs := range seqs {
			for hammer := range db.FindHammers(qs.Bases) {
				seen[hammer] = struct{}{}
			}
		}
		all := make([]string, 0, len(seen))
		for h := range seen {
			all = append(all, h)
		}
		sort.Strings(all)

		for _, h := range all {
			fmt.Fprintln(outfh, h)
		}
	},
}

func init() {
	RootCmd.AddCommand(hammersCmd)
	hammersCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout)`)
}
