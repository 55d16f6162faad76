// Package parser reads GNU ld style map files and totals the size each
// object file (or, lacking one, each section) contributes to the image.
package parser

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mapsize/internal/errors"
)

// DiscardMarker starts the part of a map file listing input sections that
// were dropped from the image. Nothing from that line onward is counted.
const DiscardMarker = "/DISCARD/"

const maxLineSize = 1024 * 1024

// recordPattern matches a section contribution line:
//
//	<ws><section>? <ws>* 0x<address> <ws>* 0x<length> <ws>* <path>?
//
// The section token may not start with '0', otherwise an address written
// without a section would be taken for one.
var recordPattern = regexp.MustCompile(`^\s+([^0\s]\S*)?\s*0x([0-9A-Fa-f]+)\s*0x([0-9A-Fa-f]+)\s*(\S*)`)

// Record is one section contribution line of a map file.
type Record struct {
	Section string
	Origin  string
	Address uint64
	Length  uint64
}

// Key returns the name the record's size is attributed to: the object file
// basename, or the section name when the line names no file.
func (r Record) Key() string {
	if r.Origin != "" {
		return r.Origin
	}
	return r.Section
}

// SizeTable maps an attribution key to the bytes attributed to it.
type SizeTable map[string]uint64

// Add folds size into the entry for key.
func (t SizeTable) Add(key string, size uint64) {
	t[key] += size
}

// Total returns the sum of all entries.
func (t SizeTable) Total() uint64 {
	var total uint64
	for _, size := range t {
		total += size
	}
	return total
}

// Stats describes what a scan saw. It does not affect the result.
type Stats struct {
	Lines     int
	Records   int
	Skipped   int
	Discarded bool
}

// ParseLine matches a single map file line against the record shape.
// ok is false for lines that are not records; err is set only when a
// numeric field does not fit in 64 bits.
func ParseLine(line string) (rec Record, ok bool, err error) {
	m := recordPattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false, nil
	}

	address, err := strconv.ParseUint(m[2], 16, 64)
	if err != nil {
		return Record{}, true, err
	}
	length, err := strconv.ParseUint(m[3], 16, 64)
	if err != nil {
		return Record{}, true, err
	}

	return Record{
		Section: m[1],
		Origin:  baseName(m[4]),
		Address: address,
		Length:  length,
	}, true, nil
}

// baseName returns the last component of a path field. Both separators are
// accepted since map files from Windows hosts use backslashes.
func baseName(field string) string {
	if i := strings.LastIndexAny(field, `/\`); i >= 0 {
		return field[i+1:]
	}
	return field
}

// Aggregator scans map files into SizeTables.
type Aggregator struct {
	logger logrus.FieldLogger
}

// NewAggregator creates an Aggregator tracing records to logger at debug
// level. A nil logger discards the trace.
func NewAggregator(logger logrus.FieldLogger) *Aggregator {
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = silent
	}
	return &Aggregator{logger: logger}
}

// ParseFile opens and scans the map file at path.
func (a *Aggregator) ParseFile(path string) (SizeTable, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, errors.WrapFileError(path, err)
	}
	defer file.Close()

	return a.Aggregate(file, path)
}

// Aggregate scans r line by line until EOF or the discard marker. name is
// only used in errors and log fields.
func (a *Aggregator) Aggregate(r io.Reader, name string) (SizeTable, Stats, error) {
	table := SizeTable{}
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()

		if strings.HasPrefix(line, DiscardMarker) {
			stats.Discarded = true
			a.logger.WithField("line", stats.Lines).Debug("discard marker reached")
			break
		}

		rec, ok, err := ParseLine(line)
		if err != nil {
			return nil, stats, errors.NewParsingError(name, stats.Lines, "hex field out of range", err)
		}
		if !ok {
			continue
		}
		stats.Records++

		if rec.Address == 0 || rec.Length == 0 {
			stats.Skipped++
			continue
		}

		key := rec.Key()
		table.Add(key, rec.Length)
		a.logger.WithFields(logrus.Fields{
			"line":    stats.Lines,
			"section": rec.Section,
			"key":     key,
			"address": rec.Address,
			"length":  rec.Length,
		}).Debug("record")
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, errors.NewFileError(name, "failed to read map file", err)
	}

	return table, stats, nil
}

// ParseMapFile scans the map file at path without tracing.
func ParseMapFile(path string) (SizeTable, Stats, error) {
	return NewAggregator(nil).ParseFile(path)
}

// Aggregate scans r without tracing.
func Aggregate(r io.Reader, name string) (SizeTable, Stats, error) {
	return NewAggregator(nil).Aggregate(r, name)
}
