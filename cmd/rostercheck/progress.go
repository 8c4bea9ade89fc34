package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"rostercheck/internal/pipeline"
)

// progressLine redraws a single status line on an interactive terminal.
type progressLine struct {
	mu     sync.Mutex
	out    io.Writer
	width  int
	closed bool
}

// newProgressLine returns nil when out is not a terminal; logs carry the
// progress there instead.
func newProgressLine(out io.Writer) *progressLine {
	if !isTerminal(out) {
		return nil
	}
	return &progressLine{out: out}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *progressLine) render(snap pipeline.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	line := formatProgress(snap)
	pad := ""
	if n := p.width - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintf(p.out, "\r%s%s", line, pad)
	p.width = len(line)
}

func (p *progressLine) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.width > 0 {
		fmt.Fprintln(p.out)
	}
}

func formatProgress(snap pipeline.Snapshot) string {
	pct := int(snap.Fraction*100 + 0.5)
	if pct > 100 {
		pct = 100
	}
	line := fmt.Sprintf("[%3d%%] %s", pct, snap.Pass)
	if status := strings.TrimSpace(snap.Status); status != "" {
		line += ": " + status
	}
	return line
}
