// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2dat

import (
	"log/slog"
	"sync/atomic"
)

// logger is the package-level logger returned by log. No code in this
// module logs through it: huffman/datcodec/texcodec stay logger-free
// and report everything through returned errors, and gw2fs and
// cmd/gw2dat log through slog's default logger directly.
var logger atomic.Pointer[slog.Logger]

// SetLogger overrides the logger returned by log. It does not change
// the logger gw2fs uses, which is always slog's default logger. Passing
// nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
