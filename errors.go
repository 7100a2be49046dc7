// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package gw2dat decodes Guild Wars 2 .dat archive payloads: the
// bespoke Huffman/LZ77-variant general-purpose codec (see [datcodec])
// and the DXT/BCn texture reconstruction built on top of the same bit
// machinery (see [texcodec]), plus an fs.FS view over a whole archive
// (see [gw2fs]).
package gw2dat

import (
	"fmt"

	"github.com/gw2dat/gw2dat/huffman"
	"github.com/gw2dat/gw2dat/texcodec"
)

// The five error kinds a decode can fail with. These are the same
// sentinel values huffman, datcodec, texcodec, and gw2fs return (or
// wrap) directly; they are re-exported here as the one set callers
// outside this module need to know about.
var (
	ErrUnexpectedEOF     = huffman.ErrUnexpectedEOF
	ErrCorruptStream     = huffman.ErrCorruptStream
	ErrInvalidArgument   = huffman.ErrInvalidArgument
	ErrUnsupportedFormat = texcodec.ErrUnsupportedFormat
	ErrBufferTooSmall    = texcodec.ErrBufferTooSmall
)

// Error wraps one of the sentinel kinds above with decode-site context.
// Callers should match kinds with errors.Is(err, gw2dat.ErrCorruptStream)
// and similar, not by inspecting Error's fields directly.
type Error struct {
	Kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.Kind }

// wrapf builds an *Error of the given kind with a formatted message,
// the same fmt.Errorf("%w", ...)-plus-context idiom the teacher uses
// throughout open.go.
func wrapf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...) + ": " + kind.Error()}
}
