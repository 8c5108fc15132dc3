// Package trace emits structured debug events for allocation and
// reference-count traffic. Tracing is off unless the ZAXRT_TRACE environment
// variable is set at process start; the disabled path costs one boolean
// check per event.
package trace

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Enabled reports whether trace logging is active for this process.
var Enabled = os.Getenv("ZAXRT_TRACE") != ""

var logger zerolog.Logger

func init() {
	if !Enabled {
		logger = zerolog.Nop()
		return
	}
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "zaxrt").Logger()
}

// Alloc records a region handed out by an allocator.
func Alloc(p uintptr, size uintptr) {
	if !Enabled {
		return
	}
	logger.Debug().Uint64("ptr", uint64(p)).Uint64("size", uint64(size)).Msg("alloc")
}

// Free records a region returned to its allocator.
func Free(p uintptr) {
	if !Enabled {
		return
	}
	logger.Debug().Uint64("ptr", uint64(p)).Msg("free")
}

// Retain records a count increment on a control block.
func Retain(cb uintptr, kind string, n uintptr) {
	if !Enabled {
		return
	}
	logger.Debug().Uint64("cb", uint64(cb)).Str("kind", kind).Uint64("count", uint64(n)).Msg("retain")
}

// Release records a count decrement on a control block.
func Release(cb uintptr, kind string, n uintptr) {
	if !Enabled {
		return
	}
	logger.Debug().Uint64("cb", uint64(cb)).Str("kind", kind).Uint64("count", uint64(n)).Msg("release")
}

// Destruct records the wrapped value's destructor firing.
func Destruct(cb uintptr) {
	if !Enabled {
		return
	}
	logger.Debug().Uint64("cb", uint64(cb)).Msg("destruct")
}
