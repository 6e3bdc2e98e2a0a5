/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: progress.go
Description: Progress reporting for long analyses. The engine measures the input up
front so the pass can be reported against a known total; sinks receive a Reset with
the total followed by incremental Updates. A terminal bar sink and a no-op sink are
provided.
*/

package analyzer

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Progress receives analysis progress. Reset announces the expected number
// of value nodes before a pass; Update reports nodes processed since the
// last call. Implementations must tolerate totals of zero.
type Progress interface {
	Reset(total int)
	Update(n int)
}

// NopProgress discards all progress events.
type NopProgress struct{}

func (NopProgress) Reset(int)  {}
func (NopProgress) Update(int) {}

// BarProgress renders a simple in-place terminal bar. Safe for use from a
// single goroutine per pass; the mutex only guards against interleaved
// passes sharing one sink.
type BarProgress struct {
	Out   io.Writer
	Width int

	mu    sync.Mutex
	total int
	done  int
	drawn int
}

// Reset starts a new bar for a pass over total nodes.
func (b *BarProgress) Reset(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total = total
	b.done = 0
	b.drawn = -1
	b.draw()
}

// Update advances the bar by n nodes. Redraws only when the rendered cell
// count changes, so tight loops stay cheap.
func (b *BarProgress) Update(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done += n
	b.draw()
}

func (b *BarProgress) draw() {
	if b.Out == nil || b.total <= 0 {
		return
	}
	width := b.Width
	if width <= 0 {
		width = 40
	}
	done := b.done
	if done > b.total {
		done = b.total
	}
	cells := done * width / b.total
	if cells == b.drawn {
		return
	}
	b.drawn = cells
	fmt.Fprintf(b.Out, "\r[%s%s] %3d%%",
		strings.Repeat("=", cells),
		strings.Repeat(" ", width-cells),
		done*100/b.total)
	if done == b.total {
		fmt.Fprintln(b.Out)
	}
}
