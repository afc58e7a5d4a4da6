// Command gagyebu-report prints the basic report and a query-driven
// summary for a period of the configured dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gagyebu/internal/analysis"
	"gagyebu/internal/cli"
	"gagyebu/internal/core"
)

func main() {
	var (
		start    = flag.String("start", "", "first day (YYYY-MM-DD), default first record")
		end      = flag.String("end", "", "last day (YYYY-MM-DD), default last record")
		category = flag.String("category", "", "restrict the basic report to one category")
		query    = flag.String("q", "", "analysis request, e.g. \"compare food spending\"")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	store := cli.InitStore(ctx, logger, cfg)
	if store.Cleanup != nil {
		defer store.Cleanup()
	}

	ds, err := store.Store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	first, last, ok := ds.DateSpan()
	if !ok {
		first, last = core.Today(), core.Today()
	}
	from, err := dateFlag(*start, first)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	to, err := dateFlag(*end, last)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var filter *core.Category
	if *category != "" {
		c, err := core.ParseCategory(*category)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		filter = &c
	}

	fmt.Println(analysis.Report(ds, from, to, filter).String())
	if *query != "" {
		fmt.Println()
		fmt.Println(analysis.Summarize(ds, from, to, *query).String())
	}
}

func dateFlag(v string, fallback core.Date) (core.Date, error) {
	if v == "" {
		return fallback, nil
	}
	return core.ParseDate(v)
}
