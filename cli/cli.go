package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"soulframe-lang/config"
	"soulframe-lang/ds"
)

const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

type (
	Args struct {
		Config  string `arg:"--config,env:SOULFRAME_CONFIG" help:"path to the YAML configuration" placeholder:"FILE"`
		Verbose bool   `arg:"-v,--verbose" help:"log debug messages"`

		Download *DownloadCmd `arg:"subcommand:download" help:"fetch manifests and string blobs"`
		Extract  *ExtractCmd  `arg:"subcommand:extract" help:"decode downloaded blobs into text files"`
		Sync     *SyncCmd     `arg:"subcommand:sync" help:"download, then extract"`
		Inspect  *InspectCmd  `arg:"subcommand:inspect" help:"describe a local blob"`
		Status   *StatusCmd   `arg:"subcommand:status" help:"show what has been fetched and extracted"`
	}
	RunOptions struct {
		Locales     string `help:"comma separated locales, defaults to the configured list" placeholder:"en,fr"`
		Interactive bool   `arg:"-i,--interactive" help:"show a progress view"`
	}
	OutputOptions struct {
		Format string `help:"json, yaml or cbor, defaults to the configured format" placeholder:"FORMAT"`
		Force  bool   `help:"rewrite outputs even when unchanged"`
	}
	DownloadCmd struct {
		RunOptions
	}
	ExtractCmd struct {
		RunOptions
		OutputOptions
	}
	SyncCmd struct {
		RunOptions
		OutputOptions
	}
	InspectCmd struct {
		File string `arg:"positional,required" help:"container, manifest or string table file"`
		Keys int    `help:"number of string keys to list" default:"10"`
		JSON bool   `arg:"--json" help:"print the description as JSON"`
	}
	StatusCmd struct{}
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"Fetches Soulframe's localized strings from the CDN",
			"and turns them into ordered JSON, YAML or CBOR.",
		},
		"\n",
	)
	des += "\n"
	return des
}

func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Start parses the command line, runs the chosen command and returns the
// process exit code.
func Start() int {
	args := Args{}
	parser := arg.MustParse(&args)
	if parser.Subcommand() == nil {
		parser.WriteHelp(os.Stderr)
		return ExitUsage
	}

	logger := NewLogger(os.Stderr, args.Verbose)
	cfg, err := config.Load(args.Config)
	if err != nil {
		logger.Error("could not load configuration", "error", err)
		return ExitUsage
	}

	if err := Dispatch(args, cfg, logger, os.Stdout); err != nil {
		logger.Error("command failed", "error", err)
		if args.Verbose {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		return ExitFailed
	}
	return ExitOK
}

// Dispatch runs the subcommand selected in args.
func Dispatch(args Args, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	switch {
	case args.Download != nil:
		return RunDownload(cfg, logger, stdout, args.Download.RunOptions)
	case args.Extract != nil:
		return RunExtract(cfg, logger, stdout, args.Extract.RunOptions, args.Extract.OutputOptions)
	case args.Sync != nil:
		return RunSync(cfg, logger, stdout, args.Sync.RunOptions, args.Sync.OutputOptions)
	case args.Inspect != nil:
		return RunInspect(cfg, stdout, *args.Inspect)
	case args.Status != nil:
		return RunStatus(cfg, stdout)
	}
	return ds.ErrUnreachableCode{Caller: "cli.Dispatch"}
}
