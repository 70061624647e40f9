package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/macwille/pquery/adapters"
	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/format"
	"github.com/macwille/pquery/logging"
)

type options struct {
	params    core.PoolConfig
	threads   int
	batchSize int
	format    string
	file      string
	output    string
	logFile   string
	logLevel  string
	strings   bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pquery: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pquery", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.params.Dialect, "dialect", core.DefaultDialect, "database dialect ("+strings.Join(new(adapters.Mux).Dialects(), ", ")+")")
	fs.StringVar(&opts.params.URL, "url", "", "connection url, may use {{ env \"NAME\" }} templates")
	fs.StringVar(&opts.params.Username, "username", "", "username, overrides the one in the url")
	fs.StringVar(&opts.params.Password, "password", "", "password, overrides the one in the url")
	fs.IntVar(&opts.params.PoolSize, "pool-size", core.DefaultPoolSize, "maximum number of open connections")
	fs.DurationVar(&opts.params.AcquireTimeout, "acquire-timeout", core.DefaultAcquireTimeout, "how long a query waits for a free connection")
	fs.IntVar(&opts.threads, "threads", 0, "queries running at the same time (default 12, 4 with -strings)")
	fs.IntVar(&opts.batchSize, "batch-size", 0, "queries per batch (default threads)")
	fs.StringVar(&opts.format, "format", "table", "output format ("+strings.Join(format.Names(), ", ")+")")
	fs.StringVar(&opts.file, "file", "", "read queries from file, one per line")
	fs.StringVar(&opts.output, "output", "", "write results to file instead of stdout")
	fs.StringVar(&opts.logFile, "log-file", "", "write logs to file instead of stderr")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.strings, "strings", false, "print the first column of every row only")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pquery [flags] [query ...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	queries, err := readQueries(opts.file, fs.Args())
	if err != nil {
		return err
	}
	if len(queries) < 1 {
		fs.Usage()
		return errors.New("no queries given")
	}

	logger, err := newLogger(opts, stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	orchestrator, err := adapters.NewOrchestrator(&opts.params,
		core.WithThreads(opts.threads),
		core.WithBatchSize(opts.batchSize),
		core.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.strings {
		results, err := orchestrator.Strings(ctx, queries)
		if err != nil {
			return err
		}
		for _, values := range results {
			for _, v := range values {
				fmt.Fprintln(stdout, v)
			}
		}
		return nil
	}

	formatter, err := format.Get(opts.format)
	if err != nil {
		return err
	}

	results, err := orchestrator.Records(ctx, queries)
	if err != nil {
		return err
	}
	for i, records := range results {
		logger.Debugf("query %d returned %d records", i, len(records))
	}

	if opts.output != "" {
		return format.NewFile(opts.output, formatter, logger).Write(results)
	}
	for _, records := range results {
		if err := formatter.Format(records, stdout); err != nil {
			return fmt.Errorf("formatter.Format: %w", err)
		}
	}

	return nil
}

func newLogger(opts options, stderr io.Writer) (*logging.Logger, error) {
	level := logging.LevelFromString(opts.logLevel)
	if opts.logFile == "" {
		return logging.New(stderr, level), nil
	}
	return logging.NewFile(opts.logFile, level)
}

// readQueries returns the queries of file followed by args. Blank lines and
// lines starting with "--" are skipped.
func readQueries(file string, args []string) ([]string, error) {
	var queries []string

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "--") {
				continue
			}
			queries = append(queries, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
	}

	for _, arg := range args {
		if q := strings.TrimSpace(arg); q != "" {
			queries = append(queries, q)
		}
	}

	return queries, nil
}
