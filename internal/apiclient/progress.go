// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"io"
	"sync"
)

// Progress is one upload progress report.
type Progress struct {
	Loaded int64
	Total  int64
	Done   bool
}

// Percent returns the completed share of the upload in the range 0-100.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return int(p.Loaded * 100 / p.Total)
}

// ProgressFunc receives upload progress. It may be called from the
// transport's body-writing goroutine; calls are serialized.
type ProgressFunc func(Progress)

// progressReader counts bytes as the transport consumes the body.
type progressReader struct {
	r     io.Reader
	total int64
	fn    ProgressFunc

	mu     sync.Mutex
	loaded int64
	done   bool
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.loaded += int64(n)
		if !p.done {
			p.fn(Progress{Loaded: p.loaded, Total: p.total})
		}
		p.mu.Unlock()
	}
	return n, err //nolint:wrapcheck // io.Reader contract requires passthrough
}

// finish emits the terminal event once. Empty bodies report 1 of 1.
func (p *progressReader) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.done = true

	if p.total == 0 {
		p.fn(Progress{Loaded: 1, Total: 1, Done: true})
		return
	}
	p.fn(Progress{Loaded: p.total, Total: p.total, Done: true})
}
