// Package debug provides a small indented tree writer used by the document
// and styled-tree dumps.
package debug

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Text writes a labeled character-data line. The value is quoted so control
// characters stay visible in the dump.
func (tw TreeWriter) Text(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Pairs writes name=value pairs on one line in sorted name order, so dumps
// of map-backed data stay deterministic.
func (tw TreeWriter) Pairs(depth int, label string, pairs map[string]string) {
	if len(pairs) == 0 {
		return
	}
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)

	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(":")
	for _, name := range names {
		tw.w.WriteByte(' ')
		tw.w.WriteString(name)
		tw.w.WriteByte('=')
		tw.w.WriteString(encodeText(pairs[name]))
	}
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
