package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/reoring/jeomja"
	"github.com/reoring/jeomja/codec"
	"github.com/reoring/jeomja/i18n"
	"github.com/reoring/jeomja/internal/config"
	"github.com/reoring/jeomja/internal/logging"
	"github.com/reoring/jeomja/render"
	"github.com/reoring/jeomja/server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries the streams and the flags every subcommand shares.
type cli struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	lang           string
	verbose        bool
	tablesPath     string
	log            *slog.Logger
}

// errUsage makes run exit with status 2.
var errUsage = errors.New("usage")

// errFailed makes run exit with status 1 after a report was printed.
var errFailed = errors.New("failed")

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	var err error
	switch args[0] {
	case "encode":
		err = c.encodeCmd(args[1:])
	case "decode":
		err = c.decodeCmd(args[1:])
	case "validate":
		err = c.validateCmd(args[1:])
	case "tables":
		err = c.tablesCmd(args[1:])
	case "render":
		err = c.renderCmd(args[1:])
	case "recover":
		err = c.recoverCmd(args[1:])
	case "serve":
		err = c.serveCmd(args[1:])
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, errFailed):
		return 1
	}
	fmt.Fprintf(stderr, "jeomja: %v\n", err)
	return 1
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `jeomja: Korean/Latin braille transliteration

Usage:
  jeomja encode   [-abbrev] [-norm] [-format binary|unicode|dots|json] TEXT|-
  jeomja decode   [-format binary|unicode|dots] INPUT|-
  jeomja validate INPUT|-
  jeomja tables   [-file tables.yaml]
  jeomja render   -o out.png [-cell 40 -radius 7 -margin 20] TEXT|-
  jeomja recover  [-cell 40 -radius 7 -margin 20] IMAGE
  jeomja serve    [-config jeomja.toml]

Common flags: -lang ko|en, -v, -tables path (custom table file).`)
}

// flags creates a subcommand flag set with the shared flags registered.
func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&c.lang, "lang", "ko", "marker language (ko or en)")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
	fs.StringVar(&c.tablesPath, "tables", "", "custom YAML table file")
	return fs
}

// parse parses args and sets up the logger and translator.
func (c *cli) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	c.log = logging.New(logging.Config{Level: level, Writer: c.stderr, Component: "cli"})
	i18n.SetLanguage(c.lang)
	return nil
}

func (c *cli) tables() (*jeomja.Tables, error) {
	if c.tablesPath == "" {
		return jeomja.DefaultTables(), nil
	}
	f, err := os.Open(c.tablesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ts, err := jeomja.LoadTables(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.tablesPath, err)
	}
	c.log.Debug("tables loaded", "path", c.tablesPath, "name", ts.Name())
	return ts, nil
}

// input joins positional args, or reads stdin when there are none or the
// only one is "-".
func (c *cli) input(fs *flag.FlagSet) (string, error) {
	args := fs.Args()
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(b), "\r\n"), nil
	}
	return strings.Join(args, " "), nil
}

func (c *cli) report(iss jeomja.Issues) {
	for _, it := range iss {
		c.log.Warn(i18n.T(it.Code, map[string]string{"cell": it.InputFragment, "jamo": it.InputFragment}),
			"code", it.Code, "path", it.Path, "detail", it.Message)
	}
}

func (c *cli) encodeCmd(args []string) error {
	fs := c.flags("encode")
	abbrev := fs.Bool("abbrev", true, "use abbreviations")
	normalize := fs.Bool("norm", true, "apply NFC and full-width folding")
	format := fs.String("format", "binary", "output format: binary, unicode, dots or json")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	text, err := c.input(fs)
	if err != nil {
		return err
	}
	ts, err := c.tables()
	if err != nil {
		return err
	}
	seq, report := jeomja.NewEncoder(ts, jeomja.EncodeOpt{Abbreviations: *abbrev, Normalize: *normalize}).Encode(text)
	c.log.Debug("encoded", "runes", len([]rune(text)), "cells", len(seq), "issues", len(report))

	if *format == "json" {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"text":    text,
			"binary":  seq.Bits(),
			"unicode": seq.Unicode(),
			"dots":    seq.Dots(),
			"issues":  server.ErrorPayload(i18n.Current(), report)["issues"],
		})
	}
	cd, err := codec.ByName(*format)
	if err != nil {
		fs.Usage()
		return errUsage
	}
	c.report(report)
	fmt.Fprintln(c.stdout, cd.Format(seq))
	return nil
}

func (c *cli) decodeCmd(args []string) error {
	fs := c.flags("decode")
	format := fs.String("format", "binary", "input format: binary, unicode or dots")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	cd, err := codec.ByName(*format)
	if err != nil {
		fs.Usage()
		return errUsage
	}
	in, err := c.input(fs)
	if err != nil {
		return err
	}
	seq, err := cd.Parse(in)
	if err != nil {
		return err
	}
	ts, err := c.tables()
	if err != nil {
		return err
	}
	text, report := jeomja.NewDecoder(ts, jeomja.DecodeOpt{}).Decode(seq)
	c.report(report)
	fmt.Fprintln(c.stdout, text)
	return nil
}

func (c *cli) validateCmd(args []string) error {
	fs := c.flags("validate")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	in, err := c.input(fs)
	if err != nil {
		return err
	}
	err = jeomja.ValidateBinary(in)
	if err == nil {
		fmt.Fprintln(c.stdout, "valid")
		return nil
	}
	iss, ok := jeomja.AsIssues(err)
	if !ok {
		return err
	}
	fmt.Fprintln(c.stdout, "invalid")
	for _, it := range iss {
		fmt.Fprintf(c.stdout, "  %s %s: %s\n", it.Path, it.Code, i18n.T(it.Code, nil))
	}
	return errFailed
}

func (c *cli) tablesCmd(args []string) error {
	fs := c.flags("tables")
	file := fs.String("file", "", "YAML table file to check (default: embedded tables)")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *file == "" {
		*file = c.tablesPath
	}
	var (
		d   jeomja.TableData
		err error
	)
	if *file == "" {
		d = jeomja.DefaultTableData()
	} else {
		f, oerr := os.Open(*file)
		if oerr != nil {
			return oerr
		}
		d, err = jeomja.ParseTableData(f)
		f.Close()
	}
	var iss jeomja.Issues
	if err != nil {
		var ok bool
		if iss, ok = jeomja.AsIssues(err); !ok {
			return err
		}
	} else {
		iss = jeomja.Conflicts(d)
	}
	if len(iss) == 0 {
		fmt.Fprintf(c.stdout, "%s: no conflicts\n", d.Name)
		return nil
	}
	for _, it := range iss {
		fmt.Fprintf(c.stdout, "%s %s: %s\n", it.Path, it.Code, it.Message)
	}
	return errFailed
}

func (c *cli) geometryFlags(fs *flag.FlagSet) *render.Geometry {
	g := render.DefaultGeometry()
	fs.IntVar(&g.CellSize, "cell", g.CellSize, "cell size in pixels")
	fs.IntVar(&g.DotRadius, "radius", g.DotRadius, "dot radius in pixels")
	fs.IntVar(&g.Margin, "margin", g.Margin, "margin in pixels")
	return &g
}

func (c *cli) renderCmd(args []string) error {
	fs := c.flags("render")
	out := fs.String("o", "", "output image (.png or .bmp)")
	g := c.geometryFlags(fs)
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *out == "" {
		fs.Usage()
		return errUsage
	}
	format, err := render.FormatFromPath(*out)
	if err != nil {
		return err
	}
	text, err := c.input(fs)
	if err != nil {
		return err
	}
	ts, err := c.tables()
	if err != nil {
		return err
	}
	seq, report := jeomja.NewEncoder(ts, jeomja.DefaultEncodeOpt()).Encode(text)
	c.report(report)
	if len(seq) == 0 {
		return errors.New("nothing to render")
	}
	img, err := render.Draw(seq, *g)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := render.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	c.log.Debug("rendered", "path", *out, "cells", len(seq))
	fmt.Fprintln(c.stdout, seq.Unicode())
	return nil
}

func (c *cli) recoverCmd(args []string) error {
	fs := c.flags("recover")
	g := c.geometryFlags(fs)
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	img, format, err := render.Decode(f)
	if err != nil {
		return err
	}
	seq, err := render.Scan(img, *g)
	if err != nil {
		return err
	}
	ts, err := c.tables()
	if err != nil {
		return err
	}
	text, report := jeomja.NewDecoder(ts, jeomja.DecodeOpt{}).Decode(seq)
	c.report(report)
	c.log.Debug("recovered", "format", format, "cells", len(seq))
	fmt.Fprintln(c.stdout, seq.Bits())
	fmt.Fprintln(c.stdout, text)
	return nil
}

func (c *cli) serveCmd(args []string) error {
	cfg, err := c.serveConfig(args)
	if err != nil {
		return err
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	log := logging.New(logging.Config{Level: level, Format: format, Writer: c.stderr, Component: "server"})
	i18n.SetLanguage(cfg.Language)

	store, err := server.NewTableStore(cfg.Tables.Path, log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Tables.Watch {
		if err := store.Watch(ctx); err != nil {
			return err
		}
	}
	return server.New(cfg, log, store).Start(ctx)
}

// serveConfig loads -config and applies the common flags given explicitly
// on the command line over it.
func (c *cli) serveConfig(args []string) (*config.Config, error) {
	fs := c.flags("serve")
	path := fs.String("config", "", "TOML or YAML configuration file")
	if err := c.parse(fs, args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(*path)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lang":
			cfg.Language = c.lang
		case "tables":
			cfg.Tables.Path = c.tablesPath
		case "v":
			if c.verbose {
				cfg.Log.Level = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
