package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/goccy/go-json"
	"github.com/inoxlang/listrep/internal/config"
	"github.com/inoxlang/listrep/internal/metricsperf"
	"github.com/inoxlang/listrep/internal/stress"
	"github.com/muesli/termenv"
)

func RunStress(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var (
		seed          int64
		operations    int
		maxLength     int
		configPath    string
		printJSON     bool
		logLevel      string
		cpuProfileDir string
	)

	flags.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed of the random operations")
	flags.IntVar(&operations, "ops", stress.DEFAULT_OPERATION_COUNT, "number of operations")
	flags.IntVar(&maxLength, "max-len", stress.DEFAULT_MAX_LENGTH, "length above which operations growing the list are skipped")
	flags.StringVar(&configPath, "config", "", "path of a YAML file containing the tunables of the allocator")
	flags.BoolVar(&printJSON, "json", false, "print the report as JSON")
	flags.StringVar(&logLevel, "log-level", DEFAULT_LOG_LEVEL, "minimum level of the logs written to stderr")
	flags.StringVar(&cpuProfileDir, "cpu-profile", "", "directory where the CPU, memory and goroutine profiles of the run are saved")

	if showHelp(flags, mainSubCommandArgs, outW) { //only show help
		return
	}

	if err := flags.Parse(mainSubCommandArgs); err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	logger, err := newLogger(errW, logLevel)
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	allocConfig, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	if cpuProfileDir != "" {
		stopProfiling, err := metricsperf.StartProfiling(metricsperf.ProfilingConfig{Dir: cpuProfileDir, Logger: logger})
		if err != nil {
			fmt.Fprintln(errW, "ERROR:", err)
			return ERROR_STATUS_CODE
		}
		defer func() {
			paths, err := stopProfiling()
			if err != nil {
				fmt.Fprintln(errW, "ERROR:", err)
			}
			for _, path := range paths {
				fmt.Fprintln(errW, "profile saved to", path)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := stress.Run(ctx, stress.Config{
		Seed:       seed,
		Operations: operations,
		MaxLength:  maxLength,
		Allocator:  allocConfig,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintln(errW, "ERROR:", err)
		return ERROR_STATUS_CODE
	}

	if printJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintln(errW, "ERROR:", err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintf(outW, "%s\n", data)
	} else {
		printReport(report, outW)
	}

	if !report.OK() {
		return ERROR_STATUS_CODE
	}
	return 0
}

func printReport(report *stress.Report, w io.Writer) {
	profile := config.ColorProfile()

	status := profile.String("PASS").Foreground(profile.Convert(termenv.ANSIGreen)).Bold()
	if !report.OK() {
		status = profile.String("FAIL").Foreground(profile.Convert(termenv.ANSIRed)).Bold()
	}

	fmt.Fprintf(w, "%s run %s (seed %d)\n", status, report.RunId, report.Seed)
	fmt.Fprintf(w, "operations: %d in %s\n", report.Operations, report.Duration.Truncate(time.Microsecond))

	for _, operation := range stress.OPERATION_KINDS {
		fmt.Fprintf(w, "\t%-8s %d\n", operation, report.Counts[operation])
	}

	fmt.Fprintf(w, "list length: mean %.1f, stddev %.1f\n", report.LengthMean, report.LengthStdDev)
	fmt.Fprintf(w, "operation duration (µs): mean %.2f, stddev %.2f\n", report.OperationDurationMean, report.OperationDurationStdDev)
	fmt.Fprintf(w, "stores: %d allocated, %d reallocated, %d freed, %d spans, peak %d bytes\n",
		report.Allocator.Allocations, report.Allocator.Reallocations, report.Allocator.Frees,
		report.Allocator.SpansCreated, report.Allocator.PeakBytesInUse)
	fmt.Fprintf(w, "references: %d values, %d increments, %d decrements, %d live\n",
		report.References.Created, report.References.Increments, report.References.Decrements, report.References.LiveReferences)

	for _, failure := range report.Failures {
		if failure.Operation < 0 {
			fmt.Fprintf(w, "failure: %s\n", failure.Message)
		} else {
			fmt.Fprintf(w, "failure at operation %d (%s): %s\n", failure.Operation, failure.OperationKind, failure.Message)
		}
	}
}
