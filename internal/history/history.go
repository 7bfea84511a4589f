// Package history projects an image's layer records into display rows.
package history

import (
	"strings"
	"time"

	"github.com/docker/go-units"

	"podconsole/internal/podman"
)

// Entry is one rendered history row.
type Entry struct {
	// Index counts layers from the base image upward, so the newest layer
	// carries the highest number.
	Index   int
	Created time.Time
	Command string
	Comment string
	Size    int64
	Tags    []string
}

// SizeText is the size in decimal units, e.g. "12.3MB".
func (e Entry) SizeText() string {
	return units.HumanSizeWithPrecision(float64(e.Size), 3)
}

// Project returns rows in backend order (newest first) numbered len..1.
func Project(recs []podman.HistoryRecord) []Entry {
	out := make([]Entry, len(recs))
	for i, r := range recs {
		out[i] = Entry{
			Index:   len(recs) - i,
			Created: r.CreatedAt(),
			Command: Command(r.CreatedBy),
			Comment: r.Comment,
			Size:    r.Size,
			Tags:    r.Tags,
		}
	}
	return out
}

// Command strips the "/bin/sh -c #(nop) " prefix builders put in front of
// metadata instructions, leaving a copyable command line.
func Command(createdBy string) string {
	s := strings.TrimSpace(createdBy)
	s = strings.TrimPrefix(s, "/bin/sh -c #(nop) ")
	return strings.TrimSpace(s)
}

// TotalSize sums the layer sizes.
func TotalSize(entries []Entry) int64 {
	var n int64
	for _, e := range entries {
		n += e.Size
	}
	return n
}
