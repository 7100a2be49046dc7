// Package datcodec implements the generic DAT inflater: a block-
// structured LZ77-variant using two per-block dynamically transmitted
// Huffman trees (symbols and copy offsets) plus a static dictionary used
// to decode the tree descriptions themselves.
package datcodec

import (
	"fmt"

	"github.com/gw2dat/gw2dat/huffman"
)

// Error kinds, matching the codec-wide error taxonomy.
var (
	ErrUnexpectedEOF   = huffman.ErrUnexpectedEOF
	ErrCorruptStream   = huffman.ErrCorruptStream
	ErrInvalidArgument = huffman.ErrInvalidArgument
)

var errInvalidInput = fmt.Errorf("datcodec: nil input: %w", ErrInvalidArgument)
