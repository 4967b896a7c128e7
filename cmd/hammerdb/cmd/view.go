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

	"github.com/spf13/cobra"

	"github.com/shenwei356/hammerdb"
	"github.com/shenwei356/hammerdb/dbindex"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "decode and print the hammers stored for one genome in a dump",
	Long: `decode and print the hammers stored for one genome in a dump

Memory-maps a dump written by "hammerdb load --dump" and prints the
decoded hammer string for every code belonging to --genome, without
loading the whole dump into the Go heap.
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			checkError(fmt.Errorf("view takes exactly one dump file"))
		}
		file := expandPath(args[0])
		checkFiles(file)

		genome := getFlagString(cmd, "genome")
		if genome == "" {
			checkError(fmt.Errorf("view requires --genome"))
		}

		md, err := dbindex.OpenMapped(file)
		checkError(err)
		defer md.Close()

		idx := -1
		for i, g := range md.Header.Genomes {
			if g.ID == genome {
				idx = i
				break
			}
		}
		if idx < 0 {
			checkError(fmt.Errorf("genome %s not present in dump", genome))
		}

		codes, err := md.CodesFor(idx)
		checkError(err)

		k := int(md.Header.K)
		for _, c := range codes {
			fmt.Println(string(hammerdb.Decode(hammerdb.Code(c), k)))
		}
	},
}

func init() {
	RootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringP("genome", "g", "", "genome id to list hammers for")
}
