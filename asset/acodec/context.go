package acodec

import (
	"github.com/pkg/errors"
)

type (
	// Context owns the engines used while decoding. It is built once per run
	// and closed when the run ends.
	Context struct {
		Block BlockDecompressor
		Dict  DictDecompressor
	}
	ContextConfig struct {
		// LibDir is searched first for the Oodle runtime library.
		LibDir string
	}
)

// OpenContext wires the production engines. The Oodle library is only
// looked up when a compressed chunk is met, so raw containers decode without
// it.
func OpenContext(cfg ContextConfig) *Context {
	return &Context{
		Block: NewOodle(cfg.LibDir),
		Dict:  NewZstd(),
	}
}

type (
	closer interface {
		Close() error
	}
	prober interface {
		Available() error
	}
)

// BlockAvailable reports why the block engine cannot decompress, loading it
// if needed. Engines that are always ready report nil.
func (r *Context) BlockAvailable() error {
	if engine, ok := r.Block.(prober); ok {
		return engine.Available()
	}
	return nil
}

func (r *Context) Close() error {
	var errs []error
	for _, engine := range []any{r.Block, r.Dict} {
		if c, ok := engine.(closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errors.Wrap(errs[0], "Context.Close error")
	}
	return nil
}
