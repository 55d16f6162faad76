// Package report renders a size table as a sorted listing with a total.
// The text format is the classic "<size> <key>" listing; JSON and CSV
// carry the same entries for consumption by other tools.
package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"mapsize/internal/config"
	"mapsize/internal/errors"
)

// Entry is one line of the report.
type Entry struct {
	Key  string
	Size uint64
}

// Entries converts a size table into entries sorted by size, largest
// first. Equal sizes are ordered by key so output is reproducible.
func Entries(table map[string]uint64) []Entry {
	entries := make([]Entry, 0, len(table))
	for key, size := range table {
		entries = append(entries, Entry{Key: key, Size: size})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Options controls number base and encoding.
type Options struct {
	Hex    bool
	Format config.Format
}

// Printer writes reports to an io.Writer.
type Printer struct {
	writer io.Writer
	opts   Options
}

// NewPrinter creates a Printer. An empty format means text.
func NewPrinter(w io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = config.FormatText
	}
	return &Printer{writer: w, opts: opts}
}

// Print renders table in the configured format. The total is the sum of
// the printed sizes.
func (p *Printer) Print(table map[string]uint64) error {
	entries := Entries(table)

	buf := bufio.NewWriter(p.writer)
	var err error
	switch p.opts.Format {
	case config.FormatText:
		err = p.writeText(buf, entries)
	case config.FormatJSON:
		err = p.writeJSON(buf, entries)
	case config.FormatCSV:
		err = p.writeCSV(buf, entries)
	default:
		return errors.NewReportError(fmt.Sprintf("unsupported format: %s", p.opts.Format), nil)
	}
	if err != nil {
		return errors.NewReportError("failed to write report", err)
	}
	if err := buf.Flush(); err != nil {
		return errors.NewReportError("failed to write report", err)
	}
	return nil
}

func (p *Printer) format(n uint64) string {
	if p.opts.Hex {
		return strconv.FormatUint(n, 16)
	}
	return strconv.FormatUint(n, 10)
}

func (p *Printer) writeText(w io.Writer, entries []Entry) error {
	var total uint64
	for _, entry := range entries {
		total += entry.Size
		if _, err := fmt.Fprintf(w, "%5s %s\n", p.format(entry.Size), entry.Key); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total = %s\n", p.format(total))
	return err
}

type jsonEntry struct {
	Key  string      `json:"key"`
	Size interface{} `json:"size"`
}

type jsonReport struct {
	Entries []jsonEntry `json:"entries"`
	Total   interface{} `json:"total"`
}

// jsonValue keeps decimal sizes as JSON numbers; hex sizes become strings.
func (p *Printer) jsonValue(n uint64) interface{} {
	if p.opts.Hex {
		return p.format(n)
	}
	return n
}

func (p *Printer) writeJSON(w io.Writer, entries []Entry) error {
	report := jsonReport{Entries: make([]jsonEntry, 0, len(entries))}

	var total uint64
	for _, entry := range entries {
		total += entry.Size
		report.Entries = append(report.Entries, jsonEntry{
			Key:  entry.Key,
			Size: p.jsonValue(entry.Size),
		})
	}
	report.Total = p.jsonValue(total)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (p *Printer) writeCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"key", "size"}); err != nil {
		return err
	}

	var total uint64
	for _, entry := range entries {
		total += entry.Size
		if err := writer.Write([]string{entry.Key, p.format(entry.Size)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"Total", p.format(total)}); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}
