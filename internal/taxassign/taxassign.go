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

// Package taxassign describes the boundary between hammerdb's genome
// scores and an external taxonomic annotation step. hammerdb never runs
// BLAST or queries a taxonomy database itself; a caller that wants
// genus/species labels on top of a scoremap.Map's winners supplies
// an Assigner and looks labels up by genome id.
package taxassign

import "context"

// Taxon is the label an external annotation step attaches to a genome id.
type Taxon struct {
	GenomeID string
	Rank     string // e.g. "genus", "species"
	Name     string
}

// Assigner resolves genome ids to taxonomic labels. Implementations
// live outside this module: a BLAST-backed assigner would shell out to
// blastn against a local nt database keyed by genome id, a SQL-backed
// one would look labels up in a taxonomy table. hammerdb ships neither.
type Assigner interface {
	Assign(ctx context.Context, genomeIDs []string) (map[string]Taxon, error)
}

// NullAssigner is the zero-cost default: every genome id comes back
// unlabeled. Callers that don't need taxonomy wire this in instead of
// leaving the Assigner nil.
type NullAssigner struct{}

func (NullAssigner) Assign(ctx context.Context, genomeIDs []string) (map[string]Taxon, error) {
	out := make(map[string]Taxon, len(genomeIDs))
	for _, id := range genomeIDs {
		out[id] = Taxon{GenomeID: id}
	}
	return out, nil
}
