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

package hammerdb

import "errors"

// ErrIllegalBase means a base outside {A,C,G,T} (case-insensitive) was seen.
var ErrIllegalBase = errors.New("hammerdb: illegal base")

// ErrUnsupportedK means k is outside [1,31].
var ErrUnsupportedK = errors.New("hammerdb: k must be in [1,31]")

// ErrKMismatch means two k-mers compared or chained have different lengths.
var ErrKMismatch = errors.New("hammerdb: k mismatch")

// ErrInvalidHammerLength means a loaded hammer's length differs from the
// length of the first hammer seen in the same load file.
var ErrInvalidHammerLength = errors.New("hammerdb: hammer length differs from first record")

// ErrInvalidHammerChar means a loaded hammer contains a non-ACGT base.
var ErrInvalidHammerChar = errors.New("hammerdb: non-ACGT base in hammer")

// ErrEmptyDatabase means a load produced zero hammers.
var ErrEmptyDatabase = errors.New("hammerdb: load produced zero hammers")

// ErrMismatchedQuality means a quality string's length does not match its
// base string's length.
var ErrMismatchedQuality = errors.New("hammerdb: quality string length mismatch")

// ErrIterationWhileMutating is returned by Iterate when the map's
// mutation counter changed during the walk.
var ErrIterationWhileMutating = errors.New("hammerdb: map mutated during iteration")
