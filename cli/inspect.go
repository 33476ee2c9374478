package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"soulframe-lang/asset/acodec"
	"soulframe-lang/asset/acontainer"
	"soulframe-lang/asset/amanifest"
	"soulframe-lang/asset/astrings"
	"soulframe-lang/config"
	"soulframe-lang/ds"
)

const (
	KindManifest = "manifest"
	KindStrings  = "strings"
)

type (
	Inspection struct {
		File string `json:"file"`
		// Chunks is empty when the file is a bare payload.
		Chunks  []acontainer.Chunk `json:"chunks,omitempty"`
		Kind    string             `json:"kind"`
		Entries []amanifest.Entry  `json:"entries,omitempty"`
		Records int                `json:"records,omitempty"`
		Sample  []astrings.Record  `json:"sample,omitempty"`
		// Oodle is "available" or the reason compressed chunks cannot be read.
		Oodle string `json:"oodle"`
	}
	ErrUnrecognizedPayload struct {
		File     string
		Manifest error
		Strings  error
	}
)

func (r ErrUnrecognizedPayload) Error() string {
	return fmt.Sprintf(
		"%s is neither a manifest (%v) nor a string table (%v)",
		r.File, r.Manifest, r.Strings,
	)
}

// Inspect describes a blob on disk. Containers are unwrapped first. The
// payload is then tried as a manifest, then as a string table.
func Inspect(path string, bs []byte, codecs *acodec.Context, dictionary []byte, keys int) (*Inspection, error) {
	inspection := Inspection{File: path, Oodle: "available"}
	if err := codecs.BlockAvailable(); err != nil {
		inspection.Oodle = err.Error()
	}
	payload := bs
	if bytes.HasPrefix(bs, []byte(acontainer.Magic)) {
		chunks, err := acontainer.ReadChunks(bs)
		if err != nil {
			return nil, errors.Wrap(err, "Inspect error")
		}
		inspection.Chunks = chunks
		payload, err = acontainer.NewDecoder(codecs.Block).Decode(bs)
		if err != nil {
			return nil, errors.Wrap(err, "Inspect error")
		}
	}

	manifest, manifestErr := amanifest.Decode(payload)
	if manifestErr == nil {
		inspection.Kind = KindManifest
		inspection.Entries = manifest.Entries()
		return &inspection, nil
	}
	table, stringsErr := astrings.NewDecoder(codecs.Dict, dictionary).Decode(payload)
	if stringsErr == nil {
		inspection.Kind = KindStrings
		inspection.Records = table.Len()
		records := table.Records()
		inspection.Sample = lo.Subset(records, 0, uint(lo.Max([]int{keys, 0})))
		return &inspection, nil
	}
	return nil, ErrUnrecognizedPayload{
		File:     path,
		Manifest: manifestErr,
		Strings:  stringsErr,
	}
}

func WriteInspection(w io.Writer, inspection *Inspection) {
	fmt.Fprintf(w, "file: %s\n", inspection.File)
	fmt.Fprintf(w, "oodle: %s\n", inspection.Oodle)
	if len(inspection.Chunks) > 0 {
		fmt.Fprintf(w, "container: %d chunks\n", len(inspection.Chunks))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "INDEX\tKIND\tOFFSET\tUNCOMPRESSED\tCOMPRESSED\t")
		for i, chunk := range inspection.Chunks {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t\n", i, chunk.Kind, chunk.Offset, chunk.UncompressedSize, chunk.CompressedSize)
		}
		_ = tw.Flush()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch inspection.Kind {
	case KindManifest:
		fmt.Fprintf(w, "manifest: %d entries\n", len(inspection.Entries))
		fmt.Fprintln(tw, "PATH\tHASH\tSIZE\tFLAGS")
		for _, entry := range inspection.Entries {
			fmt.Fprintf(tw, "%q\t%s\t%d\t%#x\n", entry.Path, entry.Hash, entry.Size, entry.Flags)
		}
	case KindStrings:
		fmt.Fprintf(w, "string table: %d records\n", inspection.Records)
		fmt.Fprintln(tw, "KEY\tVALUE")
		for _, record := range inspection.Sample {
			fmt.Fprintf(tw, "%s\t%q\n", record.Key, record.Value)
		}
	}
	_ = tw.Flush()
}

func RunInspect(cfg *config.Config, stdout io.Writer, cmd InspectCmd) error {
	bs, err := os.ReadFile(cmd.File)
	if err != nil {
		return errors.Wrap(err, "RunInspect error")
	}
	dictionary, err := astrings.LoadDictionary(cfg.Dictionary)
	if err != nil {
		return errors.Wrap(err, "RunInspect error")
	}
	codecs := acodec.OpenContext(acodec.ContextConfig{LibDir: cfg.LibDir})
	defer func() {
		_ = codecs.Close()
	}()

	inspection, err := Inspect(cmd.File, bs, codecs, dictionary, cmd.Keys)
	if err != nil {
		return err
	}
	if !cmd.JSON {
		WriteInspection(stdout, inspection)
		return nil
	}
	s, err := ds.DumpJSON(inspection)
	if err != nil {
		return errors.Wrap(err, "RunInspect error")
	}
	_, err = io.WriteString(stdout, s)
	return err
}
