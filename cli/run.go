package cli

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/pkg/errors"
	"soulframe-lang/asset"
	"soulframe-lang/asset/acodec"
	"soulframe-lang/asset/aoutput"
	"soulframe-lang/asset/astrings"
	"soulframe-lang/catalog"
	"soulframe-lang/config"
	"soulframe-lang/fetch"
	"soulframe-lang/pipeline"
	"soulframe-lang/ui"
)

type ErrLocalesFailed struct {
	Failed []string
}

func (r ErrLocalesFailed) Error() string {
	return fmt.Sprintf("%d locale(s) failed: %v", len(r.Failed), r.Failed)
}

// App owns everything a run needs and releases it in Close.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Codecs   *acodec.Context
	Catalog  *catalog.Catalog
	Pipeline *pipeline.Pipeline
}

func OpenApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dictionary, err := astrings.LoadDictionary(cfg.Dictionary)
	if err != nil {
		return nil, errors.Wrap(err, "OpenApp error")
	}
	ledger, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return nil, errors.Wrap(err, "OpenApp error")
	}

	codecs := acodec.OpenContext(acodec.ContextConfig{LibDir: cfg.LibDir})
	transport := fetch.NewHTTPTransport(cfg.Timeout, cfg.UserAgent)
	p, err := pipeline.New(cfg, fetch.NewFetcher(transport, logger), asset.NewDecoders(codecs, dictionary), logger)
	if err != nil {
		_ = codecs.Close()
		_ = ledger.Close()
		return nil, errors.Wrap(err, "OpenApp error")
	}
	p.Catalog = ledger

	return &App{
		Config:   cfg,
		Logger:   logger,
		Codecs:   codecs,
		Catalog:  ledger,
		Pipeline: p,
	}, nil
}

func (r *App) Close() error {
	codecsErr := r.Codecs.Close()
	catalogErr := r.Catalog.Close()
	if codecsErr != nil {
		return codecsErr
	}
	return catalogErr
}

func (r *App) locales(options RunOptions) []string {
	if options.Locales == "" {
		return r.Config.Locales
	}
	return config.SplitLocales(options.Locales)
}

func (r *App) apply(options OutputOptions) error {
	r.Pipeline.Force = options.Force
	if options.Format == "" {
		return nil
	}
	format, err := aoutput.ParseFormat(options.Format)
	if err != nil {
		return errors.Wrap(err, "App.apply error")
	}
	r.Pipeline.Format = format
	return nil
}

type stageFunc func(locales []string) (*pipeline.Report, error)

// run executes stage either with plain logging or behind the progress view.
func (r *App) run(title string, options RunOptions, stdout io.Writer, stage stageFunc) error {
	locales := r.locales(options)
	var report *pipeline.Report
	var err error
	if options.Interactive {
		report, err = ui.Run(
			title, locales,
			func(observer pipeline.Observer) (*pipeline.Report, error) {
				r.Pipeline.Observer = observer
				return stage(locales)
			},
			r.Pipeline.Abort,
		)
	} else {
		report, err = stage(locales)
	}
	if report != nil {
		WriteReport(stdout, report)
	}
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}
	if failed := report.Failed(); len(failed) > 0 {
		return ErrLocalesFailed{Failed: localeNames(failed)}
	}
	return nil
}

func localeNames(results []pipeline.LocaleResult) []string {
	names := make([]string, 0, len(results))
	for _, result := range results {
		names = append(names, result.Locale)
	}
	return names
}

// WriteReport prints one row per locale.
func WriteReport(w io.Writer, report *pipeline.Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tSTAGE\tDOWNLOADED\tSTRINGS\tOUTPUT\tERROR")
	for _, result := range report.Locales {
		output := result.Output
		if result.Unchanged {
			output += " (unchanged)"
		}
		errText := ""
		if result.Err != nil {
			errText = result.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", result.Locale, result.Stage, result.Downloaded, result.Records, output, errText)
	}
	_ = tw.Flush()
	if report.Alias != "" {
		fmt.Fprintf(w, "alias %s -> %s\n", report.AliasLocale, report.Alias)
	}
}

func withApp(cfg *config.Config, logger *slog.Logger, fn func(app *App) error) error {
	app, err := OpenApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("could not close cleanly", "error", err)
		}
	}()
	return fn(app)
}

func RunDownload(cfg *config.Config, logger *slog.Logger, stdout io.Writer, options RunOptions) error {
	return withApp(cfg, logger, func(app *App) error {
		return app.run("download", options, stdout, app.Pipeline.Download)
	})
}

func RunExtract(cfg *config.Config, logger *slog.Logger, stdout io.Writer, options RunOptions, output OutputOptions) error {
	return withApp(cfg, logger, func(app *App) error {
		if err := app.apply(output); err != nil {
			return err
		}
		return app.run("extract", options, stdout, app.Pipeline.Extract)
	})
}

func RunSync(cfg *config.Config, logger *slog.Logger, stdout io.Writer, options RunOptions, output OutputOptions) error {
	return withApp(cfg, logger, func(app *App) error {
		if err := app.apply(output); err != nil {
			return err
		}
		return app.run("sync", options, stdout, app.Pipeline.Sync)
	})
}
