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

// Package dbindex implements a diagnostic, interchange-only binary dump
// of a loaded database's per-genome hammer arrays: a companion format
// for inspecting or shipping a snapshot, not the live in-memory index
// the scan engine queries against.
package dbindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Version is the version of the dump format.
const Version uint8 = 1

// Magic identifies a hammerdb dump file.
var Magic = [8]byte{'.', 'h', 'a', 'm', 'm', 'r', 'd', 'x'}

// ErrInvalidFormat means the magic number didn't match.
var ErrInvalidFormat = errors.New("dbindex: invalid dump format")

// ErrTruncated means the file ended before its declared record count.
var ErrTruncated = errors.New("dbindex: truncated dump file")

var be = binary.BigEndian

// Header is the dump's metadata: the k-mer length, counting method, and
// the ordered list of genome ids with how many codes each contributed.
type Header struct {
	Version uint8
	K       uint8
	Method  uint8 // scan.CountingMethod, narrowed to a byte on disk
	Genomes []GenomeEntry
}

// GenomeEntry names one genome and how many packed codes follow it.
type GenomeEntry struct {
	ID    string
	Count uint64
}

func (h Header) String() string {
	return fmt.Sprintf("hammerdb dump v%d, k=%d, method=%d, %d genomes", h.Version, h.K, h.Method, len(h.Genomes))
}

// Writer streams a per-genome hammer-array dump to w.
type Writer struct {
	Header
	w           io.Writer
	wroteHeader bool
}

// NewWriter prepares a Writer for k-mers of length k under method.
func NewWriter(w io.Writer, k int, method uint8, genomes []GenomeEntry) *Writer {
	return &Writer{
		Header: Header{Version: Version, K: uint8(k), Method: method, Genomes: genomes},
		w:      w,
	}
}

// WriteHeader writes the magic number and metadata; idempotent.
func (wr *Writer) WriteHeader() error {
	if wr.wroteHeader {
		return nil
	}
	if err := binary.Write(wr.w, be, Magic); err != nil {
		return err
	}
	if err := binary.Write(wr.w, be, [3]uint8{wr.Version, wr.K, wr.Method}); err != nil {
		return err
	}
	if err := binary.Write(wr.w, be, uint32(len(wr.Genomes))); err != nil {
		return err
	}
	for _, g := range wr.Genomes {
		if err := binary.Write(wr.w, be, uint32(len(g.ID))); err != nil {
			return err
		}
		if err := binary.Write(wr.w, be, []byte(g.ID)); err != nil {
			return err
		}
		if err := binary.Write(wr.w, be, g.Count); err != nil {
			return err
		}
	}
	wr.wroteHeader = true
	return nil
}

// WriteCodes appends n packed codes (in order) for the genome whose
// entry was declared in the header. Caller must call WriteHeader first.
func (wr *Writer) WriteCodes(codes []uint64) error {
	for _, c := range codes {
		if err := binary.Write(wr.w, be, c); err != nil {
			return err
		}
	}
	return nil
}

// Reader reads a dump written by Writer.
type Reader struct {
	Header
	r io.Reader
}

// NewReader reads and validates the header, returning a Reader
// positioned at the start of the first genome's codes.
func NewReader(r io.Reader) (*Reader, error) {
	var m [8]byte
	if err := binary.Read(r, be, &m); err != nil {
		return nil, err
	}
	if m != Magic {
		return nil, ErrInvalidFormat
	}

	var meta [3]uint8
	if err := binary.Read(r, be, &meta); err != nil {
		return nil, err
	}

	var numGenomes uint32
	if err := binary.Read(r, be, &numGenomes); err != nil {
		return nil, err
	}
	genomes := make([]GenomeEntry, numGenomes)
	for i := range genomes {
		var idLen uint32
		if err := binary.Read(r, be, &idLen); err != nil {
			return nil, err
		}
		idBytes := make([]byte, idLen)
		if err := binary.Read(r, be, &idBytes); err != nil {
			return nil, err
		}
		var count uint64
		if err := binary.Read(r, be, &count); err != nil {
			return nil, err
		}
		genomes[i] = GenomeEntry{ID: string(idBytes), Count: count}
	}

	return &Reader{
		Header: Header{Version: meta[0], K: meta[1], Method: meta[2], Genomes: genomes},
		r:      r,
	}, nil
}

// ReadCodes reads exactly n packed codes.
func (rd *Reader) ReadCodes(n uint64) ([]uint64, error) {
	codes := make([]uint64, n)
	for i := range codes {
		if err := binary.Read(rd.r, be, &codes[i]); err != nil {
			if err == io.EOF {
				return nil, ErrTruncated
			}
			return nil, err
		}
	}
	return codes, nil
}
