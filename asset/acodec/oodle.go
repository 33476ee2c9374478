//go:build linux || darwin || freebsd

package acodec

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

const OodleLibName = "oo2core_9.so"

const (
	oodleFuzzSafe    = 1
	oodleCheckCRC    = 0
	oodleVerbosity   = 0
	oodleUnthreaded  = 3
	oodleDecodeEntry = "OodleLZ_Decompress"
)

// Oodle decompresses chunks with the OodleLZ runtime library, loaded on
// first use.
type Oodle struct {
	mu     sync.Mutex
	libDir string
	handle uintptr
	err    error

	decompress func(
		src unsafe.Pointer, srcLen int,
		dst unsafe.Pointer, dstLen int,
		fuzzSafe int32, checkCRC int32, verbosity int32,
		dstBase uintptr, dstBaseSize int,
		callback uintptr, callbackData uintptr,
		scratch uintptr, scratchSize int,
		threadPhase int32,
	) int
}

func NewOodle(libDir string) *Oodle {
	return &Oodle{libDir: libDir}
}

func (r *Oodle) load() error {
	if r.handle != 0 || r.err != nil {
		return r.err
	}
	path, err := FindRuntimeLib(OodleLibName, r.libDir)
	if err != nil {
		r.err = ErrEngineUnavailable{Engine: "oodle", Reason: err.Error()}
		return r.err
	}
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		r.err = ErrEngineUnavailable{Engine: "oodle", Reason: "loading " + path + ": " + err.Error()}
		return r.err
	}
	if _, err := purego.Dlsym(handle, oodleDecodeEntry); err != nil {
		_ = purego.Dlclose(handle)
		r.err = ErrEngineUnavailable{Engine: "oodle", Reason: path + " has no " + oodleDecodeEntry}
		return r.err
	}
	purego.RegisterLibFunc(&r.decompress, handle, oodleDecodeEntry)
	r.handle = handle
	return nil
}

// Available loads the library if needed and reports why it cannot be used.
func (r *Oodle) Available() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *Oodle) Decompress(src []byte, size int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	if len(src) == 0 || size == 0 {
		return nil, errors.New("Oodle.Decompress error: empty chunk")
	}

	dst := make([]byte, size)
	n := r.decompress(
		unsafe.Pointer(&src[0]), len(src),
		unsafe.Pointer(&dst[0]), size,
		oodleFuzzSafe, oodleCheckCRC, oodleVerbosity,
		0, 0,
		0, 0,
		0, 0,
		oodleUnthreaded,
	)
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)
	if n <= 0 || n > size {
		return nil, errors.Errorf("Oodle.Decompress error: library returned %d for %d bytes", n, size)
	}
	return dst[:n], nil
}

func (r *Oodle) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handle == 0 {
		return nil
	}
	err := purego.Dlclose(r.handle)
	r.handle = 0
	r.decompress = nil
	if err != nil {
		return errors.Wrap(err, "Oodle.Close error")
	}
	return nil
}
