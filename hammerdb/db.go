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

// Package hammerdb (imported as hdb) assembles the root codec, the
// hammermap index, the scan engine and the score aggregator into the
// single loaded database described in spec.md §4.3: a hammer -> source
// map plus the per-genome hammer arrays and role set built alongside it.
package hammerdb

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"

	root "github.com/shenwei356/hammerdb"
	"github.com/shenwei356/hammerdb/hammermap"
	"github.com/shenwei356/hammerdb/qualgate"
	"github.com/shenwei356/hammerdb/scan"
	"github.com/shenwei356/hammerdb/scoremap"
)

// CountingMethod re-exports scan.CountingMethod so callers of this
// package don't need a second import for it.
type CountingMethod = scan.CountingMethod

const (
	CountHits     = scan.CountHits
	CountStrength = scan.CountStrength
)

// DB is the fully loaded hammer database: the hammer -> Source map, the
// per-genome hammer arrays, and the set of role ids observed.
type DB struct {
	k         int
	method    CountingMethod
	hammers   *hammermap.Map
	perGenome map[string]*hammermap.Array
	roles     map[string]struct{}
}

type hammerRecord struct {
	hammer    string
	featureID string
	strength  float64
	roleID    string
}

func parseHammerLine(line string) (interface{}, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, false, nil
	}
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return nil, false, errors.Errorf("hammerdb: malformed record, want >=4 tab-separated fields: %q", line)
	}
	strength, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, false, errors.Wrapf(err, "hammerdb: parsing strength in %q", line)
	}
	return hammerRecord{
		hammer:    fields[0],
		featureID: fields[1],
		strength:  strength,
		roleID:    fields[len(fields)-1],
	}, true, nil
}

// Load reads a tab-separated hammer file (hammer, feature_id, strength,
// ..., role) and builds a DB (spec.md §4.3). The first record fixes k;
// every subsequent hammer must match it, or the load fails. progress, if
// non-nil, is called with the running hammer count at most once every 5
// seconds while records are read, and once more with the final count
// when the load succeeds.
func Load(file string, method CountingMethod, progress func(n int)) (*DB, error) {
	reader, err := breader.NewBufferedReader(file, 8, 100, parseHammerLine)
	if err != nil {
		return nil, errors.Wrapf(err, "hammerdb: opening %s", file)
	}

	db := &DB{
		method:    method,
		perGenome: make(map[string]*hammermap.Array),
		roles:     make(map[string]struct{}),
	}

	var n int
	var lastProgress time.Time
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, errors.Wrapf(chunk.Err, "hammerdb: reading %s", file)
		}
		for _, item := range chunk.Data {
			rec := item.(hammerRecord)

			if db.hammers == nil {
				db.k = len(rec.hammer)
				db.hammers, err = hammermap.New(db.k)
				if err != nil {
					return nil, err
				}
			} else if len(rec.hammer) != db.k {
				return nil, errors.Wrapf(root.ErrInvalidHammerLength, "hammerdb: %q", rec.hammer)
			}

			code, err := root.EncodeStrict([]byte(rec.hammer), db.k)
			if err != nil {
				return nil, errors.Wrapf(err, "hammerdb: %q", rec.hammer)
			}

			src := root.NewSource(rec.featureID, rec.roleID, rec.strength)
			if _, err := db.hammers.Insert(code, src); err != nil {
				return nil, err
			}

			genomeID := root.GenomeIDFromFeature(rec.featureID)
			arr, ok := db.perGenome[genomeID]
			if !ok {
				arr = hammermap.NewArray(db.k)
				db.perGenome[genomeID] = arr
			}
			arr.Append(code)

			db.roles[rec.roleID] = struct{}{}

			n++
			if progress != nil && time.Since(lastProgress) >= 5*time.Second {
				progress(n)
				lastProgress = time.Now()
			}
		}
	}

	if n == 0 {
		return nil, root.ErrEmptyDatabase
	}
	if progress != nil {
		progress(n)
	}
	return db, nil
}

// K returns the hammer length this database was built for.
func (db *DB) K() int { return db.k }

// Method returns the database-wide counting method.
func (db *DB) Method() CountingMethod { return db.method }

// Roles returns every distinct role id observed during load.
func (db *DB) Roles() []string {
	out := make([]string, 0, len(db.roles))
	for r := range db.roles {
		out = append(out, r)
	}
	return out
}

// GetSource looks up kmer, returning its Source if present and not
// anchor-pruned.
func (db *DB) GetSource(kmer []byte) (*root.Source, bool) {
	code := root.Encode(kmer, db.k)
	if code == root.InvalidCode {
		return nil, false
	}
	src, ok := db.hammers.Get(code)
	if !ok || src.IsBad() {
		return nil, false
	}
	return src, true
}

func (db *DB) engine() *scan.Engine {
	return scan.NewEngine(db.hammers, db.k)
}

// FindClosest runs the scan engine in scoring mode (spec.md §4.5 step 4).
func (db *DB) FindClosest(seqs []scan.QuerySeq, ew scan.ExternalWeight) *scoremap.Map {
	return db.engine().Score(seqs, db.method, ew)
}

// FindHits runs the scan engine in hit-collection mode (spec.md §4.5
// step 5).
func (db *DB) FindHits(seqs []scan.QuerySeq) scan.HitList {
	return db.engine().Hits(seqs)
}

// FindHitsQuality runs the scan engine in hit-collection mode, then
// drops hits whose quality-weighted hammer window falls below minQ
// (spec.md §4.3 find_hits-with-quality / §4.8).
func (db *DB) FindHitsQuality(seqs []scan.QuerySeq, quality map[string][]byte, minQ float64) (kept scan.HitList, dropped int) {
	hits := db.engine().Hits(seqs)
	return qualgate.Filter(hits, quality, minQ)
}

// FindHammers returns the set of hammer strings present in seq on
// either strand (spec.md §4.3 find_hammers / §9b: every matched hammer
// is added to the output set).
func (db *DB) FindHammers(seq []byte) map[string]struct{} {
	return db.engine().Hammers(seq)
}

// GenomeIDs returns every genome id observed during load, unordered.
func (db *DB) GenomeIDs() []string {
	out := make([]string, 0, len(db.perGenome))
	for id := range db.perGenome {
		out = append(out, id)
	}
	return out
}

// GenomeCodes returns the raw packed codes pushed for genomeID during
// load, in insertion order, for diagnostic serialization (dbindex).
func (db *DB) GenomeCodes(genomeID string) ([]root.Code, bool) {
	arr, ok := db.perGenome[genomeID]
	if !ok {
		return nil, false
	}
	return arr.Codes(), true
}

// FindGenomeHammers walks per_genome[gid], decodes each code, and
// returns {hammer -> Source} (spec.md §4.3 find_genome_hammers).
func (db *DB) FindGenomeHammers(genomeID string) (map[string]*root.Source, bool) {
	arr, ok := db.perGenome[genomeID]
	if !ok {
		return nil, false
	}
	out := make(map[string]*root.Source, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		code := arr.At(i)
		src, ok := db.hammers.Get(code)
		if !ok {
			continue
		}
		out[string(root.Decode(code, db.k))] = src
	}
	return out, true
}
