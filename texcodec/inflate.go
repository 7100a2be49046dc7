package texcodec

import (
	"errors"

	"github.com/gw2dat/gw2dat/huffman"
)

// AnetImage carries a decoded texture's header fields.
type AnetImage struct {
	Identifier uint32
	Format     uint32
	Width      uint16
	Height     uint16
}

// InflateTexture decodes a full texture payload, including its header,
// returning the header fields alongside the raw block bytes.
func InflateTexture(input []byte) (AnetImage, []byte, error) {
	r := huffman.NewWordReader(input)

	identifier, err := r.PeekAndDrop(32)
	if err != nil {
		return AnetImage{}, nil, err
	}
	fourCC, err := r.PeekAndDrop(32)
	if err != nil {
		return AnetImage{}, nil, err
	}
	widthRaw, err := r.PeekAndDrop(16)
	if err != nil {
		return AnetImage{}, nil, err
	}
	heightRaw, err := r.PeekAndDrop(16)
	if err != nil {
		return AnetImage{}, nil, err
	}
	width, height := uint16(widthRaw), uint16(heightRaw)

	ff, err := deduceFormat(fourCC, width, height)
	if err != nil {
		return AnetImage{}, nil, err
	}

	out := make([]byte, ff.BytesPixelBlocks*ff.PixelBlocks)
	if err := inflateBlockBody(r, ff, out); err != nil {
		return AnetImage{}, nil, err
	}

	img := AnetImage{Identifier: identifier, Format: fourCC, Width: width, Height: height}
	return img, out, nil
}

// InflateTextureBlock decodes a texture payload whose header has already
// been parsed out-of-band (as happens when the dimensions and format are
// carried by the archive's own metadata rather than the payload itself).
// If out is non-nil it is filled in place and must be at least
// BytesPixelBlocks*PixelBlocks bytes long (ErrBufferTooSmall otherwise);
// otherwise a new buffer is allocated and returned.
func InflateTextureBlock(width, height uint16, fourCC uint32, input []byte, out []byte) ([]byte, error) {
	ff, err := deduceFormat(fourCC, width, height)
	if err != nil {
		return nil, err
	}

	want := ff.BytesPixelBlocks * ff.PixelBlocks
	if out != nil {
		if len(out) < want {
			return nil, ErrBufferTooSmall
		}
	} else {
		out = make([]byte, want)
	}

	r := huffman.NewWordReader(input)
	if err := inflateBlockBody(r, ff, out); err != nil {
		return nil, err
	}
	return out, nil
}

// inflateBlockBody runs the per-chunk pass driver until the word stream
// is exhausted or every block is fully accounted for in both bitmaps.
// Truncated input is tolerated silently (leaving unset blocks zeroed);
// a genuine Huffman decode failure (ErrCorruptStream) is a hard error.
func inflateBlockBody(r *huffman.WordReader, ff FullFormat, out []byte) error {
	colorSet := make([]bool, ff.PixelBlocks)
	alphaSet := make([]bool, ff.PixelBlocks)

	for !r.AtEOF() && !allSet(colorSet, alphaSet) {
		if _, err := r.PeekAndDrop(32); err != nil { // data_size, advisory
			break
		}
		flags, err := r.PeekAndDrop(32)
		if err != nil {
			break
		}

		passes := []struct {
			bit uint32
			run func() error
		}{
			{cfDecodeWhiteColor, func() error { return passWhiteColor(r, ff, out, colorSet, alphaSet) }},
			{cfDecodeConstantAlphaFrom4Bits, func() error { return passConstantAlpha4(r, ff, out, alphaSet) }},
			{cfDecodeConstantAlphaFrom8Bits, func() error { return passConstantAlpha8(r, ff, out, alphaSet) }},
			{cfDecodePlainColor, func() error { return passPlainColor(r, ff, out, colorSet) }},
			{cfDecodeBPTCFloat, func() error { return passBPTCFloat(r, ff, out, colorSet, alphaSet) }},
			{cfDecodeBPTCUnorm, func() error { return passBPTCUnorm(r, ff, out, colorSet, alphaSet) }},
		}

		truncated := false
		for _, p := range passes {
			if flags&p.bit == 0 {
				continue
			}
			if err := p.run(); err != nil {
				if errors.Is(err, ErrCorruptStream) {
					return err
				}
				truncated = true
				break
			}
		}
		if truncated {
			break
		}

		terminalRawWords(r, ff, out, colorSet, alphaSet)
	}
	return nil
}

func allSet(a, b []bool) bool {
	for i := range a {
		if !a[i] || !b[i] {
			return false
		}
	}
	return true
}
