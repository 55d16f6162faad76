// Package cmd implements the mapsize command line and ties its stages
// together: load the map file, filter the keys, print the report.
package cmd

import (
	"io"
	"time"

	"mapsize/internal/config"
	"mapsize/internal/filter"
	"mapsize/internal/log"
	"mapsize/internal/parser"
	"mapsize/internal/report"
)

func executeMapsize(cfg *config.Config, out, errOut io.Writer) error {
	startTime := time.Now()

	logger := log.NewLogger(cfg, errOut)

	keyFilter, err := filter.NewKeyFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return err
	}

	aggregator := parser.NewAggregator(logger)
	table, stats, err := aggregator.ParseFile(cfg.MapFile)
	if err != nil {
		return err
	}
	logger.LogScan(stats, table)

	table = keyFilter.Apply(table)
	logger.LogFiltered(table)

	printer := report.NewPrinter(out, report.Options{
		Hex:    cfg.Hex,
		Format: cfg.Format,
	})
	if err := printer.Print(table); err != nil {
		return err
	}

	logger.SetProcessingTime(time.Since(startTime))
	logger.WriteSummary()
	return nil
}
