package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"soulframe-lang/catalog"
	"soulframe-lang/config"
)

const timeLayout = time.RFC3339

func WriteStatus(w io.Writer, ledger *catalog.Catalog) error {
	locales, err := ledger.FetchLocales()
	if err != nil {
		return errors.Wrap(err, "WriteStatus error")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tPATH\tOUTCOME\tHASH\tSIZE\tAT")
	for _, locale := range locales {
		records, err := ledger.Fetches(locale)
		if err != nil {
			return errors.Wrap(err, "WriteStatus error")
		}
		for _, record := range records {
			fmt.Fprintf(
				tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
				locale, record.Path, record.Outcome, record.Hash, record.Size, record.At.Format(timeLayout),
			)
		}
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "WriteStatus error")
	}

	extracts, err := ledger.Extracts()
	if err != nil {
		return errors.Wrap(err, "WriteStatus error")
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tRECORDS\tFORMAT\tOUTPUT\tAT")
	for _, record := range extracts {
		fmt.Fprintf(
			tw, "%s\t%d\t%s\t%s\t%s\n",
			record.Locale, record.Records, record.Format, record.Output, record.At.Format(timeLayout),
		)
	}
	return errors.Wrap(tw.Flush(), "WriteStatus error")
}

func RunStatus(cfg *config.Config, stdout io.Writer) error {
	ledger, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return errors.Wrap(err, "RunStatus error")
	}
	defer func() {
		_ = ledger.Close()
	}()
	return WriteStatus(stdout, ledger)
}
