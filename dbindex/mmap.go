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

package dbindex

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MappedDump is a dump file opened read-only and mapped into memory, for
// inspecting large dumps without copying every code into the Go heap.
type MappedDump struct {
	Path    string
	Header  Header
	fh      *os.File
	data    mmap.MMap
	offset0 int64 // byte offset of the first code, within data
}

// OpenMapped opens and mmaps file, reading just the header eagerly.
func OpenMapped(file string) (*MappedDump, error) {
	fh, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("dbindex: opening %s: %w", file, err)
	}

	reader, err := NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("dbindex: reading header of %s: %w", file, err)
	}

	offset, err := fh.Seek(0, os.SEEK_CUR)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("dbindex: seeking %s: %w", file, err)
	}

	m, err := mmap.Map(fh, mmap.RDONLY, 0)
	if err != nil {
		fh.Close()
		return nil, err
	}

	return &MappedDump{Path: file, Header: reader.Header, fh: fh, data: m, offset0: offset}, nil
}

// CodesFor returns the n packed codes for the genome at the given index
// into Header.Genomes, read directly out of the memory-mapped region.
func (md *MappedDump) CodesFor(genomeIndex int) ([]uint64, error) {
	if genomeIndex < 0 || genomeIndex >= len(md.Header.Genomes) {
		return nil, fmt.Errorf("dbindex: genome index %d out of range", genomeIndex)
	}

	var off int64 = md.offset0
	for i := 0; i < genomeIndex; i++ {
		off += int64(md.Header.Genomes[i].Count) * 8
	}

	n := md.Header.Genomes[genomeIndex].Count
	codes := make([]uint64, n)
	for i := range codes {
		start := off + int64(i)*8
		if start+8 > int64(len(md.data)) {
			return nil, ErrTruncated
		}
		codes[i] = be.Uint64(md.data[start : start+8])
	}
	return codes, nil
}

// Close unmaps and closes the underlying file.
func (md *MappedDump) Close() error {
	if err := md.data.Unmap(); err != nil {
		return err
	}
	return md.fh.Close()
}
