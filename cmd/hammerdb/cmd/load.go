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
	"runtime"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shenwei356/hammerdb/dbindex"
	hdb "github.com/shenwei356/hammerdb/hammerdb"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "load a hammer TSV file and report load statistics",
	Long: `load a hammer TSV file and report load statistics

Reads a tab-separated hammer file (hammer, feature_id, strength, ..., role),
builds the in-memory hammer map and per-genome hammer arrays, and reports
how many hammers and genomes were loaded. Optionally writes a diagnostic
dump of the per-genome hammer arrays with --dump, for inspection with
"hammerdb view" or "hammerdb info" -- this is not a reloadable index, just
an interchange snapshot.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		if len(args) != 1 {
			checkError(fmt.Errorf("load takes exactly one hammer TSV file"))
		}
		file := expandPath(args[0])
		checkFiles(file)

		strength := getFlagBool(cmd, "by-strength")
		method := hdb.CountHits
		if strength {
			method = hdb.CountStrength
		}

		var lastN int
		progress := func(n int) {
			lastN = n
			if opt.Verbose {
				log.Infof("loaded %s hammers ...", humanize.Comma(int64(n)))
			}
		}

		db, err := hdb.Load(file, method, progress)
		checkError(err)

		genomes := db.GenomeIDs()
		sort.Strings(genomes)
		log.Infof("loaded %s hammers (k=%d) across %d genomes and %d roles",
			humanize.Comma(int64(lastN)), db.K(), len(genomes), len(db.Roles()))

		dump := getFlagString(cmd, "dump")
		if dump != "" {
			dump = expandPath(dump)
			writeDump(db, genomes, dump)
			log.Infof("wrote diagnostic dump: %s", dump)
		}
	},
}

func writeDump(db *hdb.DB, genomes []string, file string) {
	fh, err := os.Create(file)
	checkError(err)
	defer fh.Close()

	entries := make([]dbindex.GenomeEntry, len(genomes))
	for i, gid := range genomes {
		codes, _ := db.GenomeCodes(gid)
		entries[i] = dbindex.GenomeEntry{ID: gid, Count: uint64(len(codes))}
	}

	wr := dbindex.NewWriter(fh, db.K(), uint8(db.Method()), entries)
	checkError(wr.WriteHeader())
	for _, gid := range genomes {
		codes, _ := db.GenomeCodes(gid)
		packed := make([]uint64, len(codes))
		for i, c := range codes {
			packed[i] = uint64(c)
		}
		checkError(wr.WriteCodes(packed))
	}
}

func init() {
	RootCmd.AddCommand(loadCmd)
	loadCmd.Flags().BoolP("by-strength", "s", false, "use STRENGTH counting method instead of COUNT")
	loadCmd.Flags().StringP("dump", "d", "", "write a diagnostic per-genome code dump to this file")
}
