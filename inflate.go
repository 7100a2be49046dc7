// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2dat

import (
	"github.com/gw2dat/gw2dat/datcodec"
	"github.com/gw2dat/gw2dat/texcodec"
)

// AnetImage carries a decoded texture's header fields.
type AnetImage = texcodec.AnetImage

// InflateDat decodes a whole DAT-format payload. If hintSize is
// positive, decoding is capped at min(header size, hintSize) bytes.
func InflateDat(input []byte, hintSize int) ([]byte, error) {
	return datcodec.InflateDat(input, hintSize)
}

// InflateTexture decodes a full texture payload, including its header.
func InflateTexture(input []byte) (AnetImage, []byte, error) {
	return texcodec.InflateTexture(input)
}

// InflateTextureBlock decodes a texture payload whose dimensions and
// format are already known out-of-band. If out is non-nil it is filled
// in place and must be at least as large as the decoded texture
// (ErrBufferTooSmall otherwise); otherwise a new buffer is allocated and
// returned.
func InflateTextureBlock(width, height uint16, fourCC uint32, input []byte, out []byte) ([]byte, error) {
	return texcodec.InflateTextureBlock(width, height, fourCC, input, out)
}
