//go:build !(linux || darwin || freebsd)

package acodec

const OodleLibName = "oo2core_9.dll"

// Oodle is not loadable without cgo on this platform.
type Oodle struct {
	libDir string
}

func NewOodle(libDir string) *Oodle {
	return &Oodle{libDir: libDir}
}

func (r *Oodle) Available() error {
	return ErrEngineUnavailable{Engine: "oodle", Reason: "dynamic loading is not supported on this platform"}
}

func (r *Oodle) Decompress(src []byte, size int) ([]byte, error) {
	return nil, r.Available()
}

func (r *Oodle) Close() error {
	return nil
}
