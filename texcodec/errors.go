// Package texcodec implements the texture inflater: reconstruction of
// DXT1-5 / ATI1-2 / 3Dc / BC6H / BC7 block streams from a compact
// per-block-map encoding driven by the shared static Huffman dictionary.
package texcodec

import (
	"errors"

	"github.com/gw2dat/gw2dat/huffman"
)

// Error kinds, matching the codec-wide error taxonomy.
var (
	ErrUnexpectedEOF   = huffman.ErrUnexpectedEOF
	ErrCorruptStream   = huffman.ErrCorruptStream
	ErrInvalidArgument = huffman.ErrInvalidArgument
)

// ErrUnsupportedFormat is returned for an unrecognized 4CC.
var ErrUnsupportedFormat = errors.New("texcodec: unsupported format")

// ErrBufferTooSmall is returned when a caller-supplied output buffer is
// smaller than the format requires.
var ErrBufferTooSmall = errors.New("texcodec: output buffer too small")
