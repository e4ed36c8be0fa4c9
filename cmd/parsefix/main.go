// Command parsefix reads raw LLM output on stdin, runs the parsing pipeline,
// and writes the recovered structure to stdout as JSON or YAML.
//
// Exit status is 0 for a clean or degraded parse and 1 when nothing could be
// recovered. Recovery warnings go to stderr, never stdout, so the output
// stays pipeable.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parsefix/parsefix"
	"github.com/parsefix/parsefix/parse"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	var (
		format     = flag.String("format", "", "format hint: json or yaml (default: sniff)")
		output     = flag.String("o", "json", "output encoding: json or yaml")
		noRecovery = flag.Bool("no-recovery", false, "disable the repair strategy chain")
		noPartial  = flag.Bool("no-partial", false, "disable partial salvage of hopeless input")
		repairLib  = flag.Bool("repair-lib", false, "enable the jsonrepair whole-document fallback")
		strict     = flag.Bool("strict", false, "treat schema validation findings as errors")
		fields     = flag.String("fields", "", "comma-separated field paths to extract, e.g. user.name,items[0]")
		html       = flag.Bool("html", false, "convert HTML-wrapped input to markdown before parsing")
		verbose    = flag.Bool("v", false, "log recovery warnings to stderr")
	)
	flag.Parse()

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Error("reading stdin", "error", err)
		os.Exit(1)
	}

	opts := parse.DefaultOptions()
	opts.EnableRecovery = !*noRecovery
	opts.AllowPartial = !*noPartial
	opts.RepairFallback = *repairLib
	opts.Strict = *strict
	opts.ConvertHTML = *html
	opts.FormatHint = parse.Format(*format)
	if *fields != "" {
		opts.ExtractFields = strings.Split(*fields, ",")
	}
	if env := os.Getenv("PARSEFIX_MAX_RECOVERY_ATTEMPTS"); env != "" {
		if n, err := strconv.ParseUint(env, 10, 32); err == nil && n > 0 {
			opts.MaxRecoveryAttempts = uint(n)
		} else {
			slog.Warn("ignoring invalid PARSEFIX_MAX_RECOVERY_ATTEMPTS", "value", env)
		}
	}

	res := parsefix.Parse(string(input), opts)

	for _, w := range res.Warnings {
		slog.Debug("parse warning", "warning", w)
	}
	for _, e := range res.Errors {
		slog.Warn("parse error", "code", e.Code, "error", e.Message)
	}

	if res.Value == nil {
		slog.Error("nothing recoverable in input", "format", res.Format)
		os.Exit(1)
	}
	if res.Degraded() {
		slog.Warn("degraded result: partial salvage only", "format", res.Format)
	}

	switch *output {
	case "json":
		data, err := res.Value.MarshalJSON()
		if err != nil {
			slog.Error("encoding result", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(res.Value.Interface())
		if err != nil {
			slog.Error("encoding result", "error", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	default:
		slog.Error("unknown output encoding", "encoding", *output)
		os.Exit(2)
	}
}
