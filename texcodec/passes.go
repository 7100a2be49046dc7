package texcodec

import (
	"math"

	"github.com/gw2dat/gw2dat/huffman"
	"github.com/gw2dat/gw2dat/internal/staticdict"
)

// Per-chunk compression flags selecting which of the six synthesis
// passes run, and in what order (always this fixed order, regardless of
// which bits are set).
const (
	cfDecodeWhiteColor            uint32 = 0x01
	cfDecodeConstantAlphaFrom4Bits uint32 = 0x02
	cfDecodeConstantAlphaFrom8Bits uint32 = 0x04
	cfDecodePlainColor             uint32 = 0x08
	cfDecodeBPTCFloat              uint32 = 0x10
	cfDecodeBPTCUnorm              uint32 = 0x20
)

// runWalk drives a sequence of (run_length, flag) tokens across exactly
// `total` grid positions: run_length (a texture-dictionary Huffman code)
// advances the cursor that many steps, and step is invoked once per
// position in the run, regardless of whether that position's bitmap bit
// is already set — callers check that themselves, matching "for every
// unset ... block in the run".
func runWalk(r huffman.Source, total int, step func(idx int, flag bool) error) error {
	dict := staticdict.Texture()
	pos := 0
	for pos < total {
		runLen, err := dict.ReadCode(r)
		if err != nil {
			return err
		}
		flagRaw, err := r.PeekAndDrop(1)
		if err != nil {
			return err
		}
		flag := flagRaw != 0
		for i := 0; i < int(runLen) && pos < total; i++ {
			if err := step(pos, flag); err != nil {
				return err
			}
			pos++
		}
	}
	return nil
}

// runWalkNoFlag is runWalk for the two BPTC passes, which carry no flag
// bit: every unset block in the run is always written.
func runWalkNoFlag(r huffman.Source, total int, step func(idx int) error) error {
	dict := staticdict.Texture()
	pos := 0
	for pos < total {
		runLen, err := dict.ReadCode(r)
		if err != nil {
			return err
		}
		for i := 0; i < int(runLen) && pos < total; i++ {
			if err := step(pos); err != nil {
				return err
			}
			pos++
		}
	}
	return nil
}

func passWhiteColor(r huffman.Source, ff FullFormat, out []byte, colorSet, alphaSet []bool) error {
	return runWalk(r, ff.PixelBlocks, func(i int, flag bool) error {
		if colorSet[i] {
			return nil
		}
		if flag {
			putRepeating64(out, ff.BytesPixelBlocks*i, 8, 0xFFFFFFFFFFFFFFFE)
			colorSet[i] = true
			alphaSet[i] = true
		}
		return nil
	})
}

// passConstantAlpha4 implements CF_DECODE_CONSTANT_ALPHA_FROM4BITS. The
// is_not_null bit is peeked unconditionally but only dropped when flag is
// set: a quirk of the source decoder, preserved deliberately rather than
// "fixed", since changing it would desynchronize the bit cursor relative
// to real encoded streams.
func passConstantAlpha4(r huffman.Source, ff FullFormat, out []byte, alphaSet []bool) error {
	aRaw, err := r.PeekAndDrop(4)
	if err != nil {
		return err
	}
	v := uint64(aRaw) * 0x1111111111111111

	dict := staticdict.Texture()
	pos := 0
	for pos < ff.PixelBlocks {
		runLen, err := dict.ReadCode(r)
		if err != nil {
			return err
		}
		flagRaw, err := r.PeekAndDrop(1)
		if err != nil {
			return err
		}
		flag := flagRaw != 0

		notNullRaw, err := r.PeekBits(1)
		if err != nil {
			return err
		}
		if flag {
			if err := r.DropBits(1); err != nil {
				return err
			}
		}
		isNotNull := notNullRaw != 0

		for i := 0; i < int(runLen) && pos < ff.PixelBlocks; i++ {
			if !alphaSet[pos] && flag {
				val := uint64(0)
				if isNotNull {
					val = v
				}
				putRepeating64(out, ff.BytesPixelBlocks*pos, ff.BytesComponent, val)
				alphaSet[pos] = true
			}
			pos++
		}
	}
	return nil
}

// passConstantAlpha8 implements CF_DECODE_CONSTANT_ALPHA_FROM8BITS, the
// 8-bit-alpha sibling of passConstantAlpha4.
func passConstantAlpha8(r huffman.Source, ff FullFormat, out []byte, alphaSet []bool) error {
	aRaw, err := r.PeekAndDrop(8)
	if err != nil {
		return err
	}
	a := uint16(aRaw)
	v := a | a<<8

	dict := staticdict.Texture()
	pos := 0
	for pos < ff.PixelBlocks {
		runLen, err := dict.ReadCode(r)
		if err != nil {
			return err
		}
		flagRaw, err := r.PeekAndDrop(1)
		if err != nil {
			return err
		}
		flag := flagRaw != 0

		notNullRaw, err := r.PeekBits(1)
		if err != nil {
			return err
		}
		if flag {
			if err := r.DropBits(1); err != nil {
				return err
			}
		}
		isNotNull := notNullRaw != 0

		for i := 0; i < int(runLen) && pos < ff.PixelBlocks; i++ {
			if !alphaSet[pos] && flag {
				val := uint16(0)
				if isNotNull {
					val = v
				}
				putRepeating16(out, ff.BytesPixelBlocks*pos, ff.BytesComponent, val)
				alphaSet[pos] = true
			}
			pos++
		}
	}
	return nil
}

func passPlainColor(r huffman.Source, ff FullFormat, out []byte, colorSet []bool) error {
	blue, err := r.PeekAndDrop(8)
	if err != nil {
		return err
	}
	green, err := r.PeekAndDrop(8)
	if err != nil {
		return err
	}
	red, err := r.PeekAndDrop(8)
	if err != nil {
		return err
	}
	pattern := reconstructPlainColor(ff.FlagData&formatDeducedAlphaComp != 0, byte(blue), byte(green), byte(red))

	return runWalk(r, ff.PixelBlocks, func(i int, flag bool) error {
		if colorSet[i] {
			return nil
		}
		if flag {
			offset := ff.BytesPixelBlocks*i + colorOffset(ff)
			putRepeating64(out, offset, ff.BytesComponent, pattern)
			colorSet[i] = true
		}
		return nil
	})
}

func passBPTCFloat(r huffman.Source, ff FullFormat, out []byte, colorSet, alphaSet []bool) error {
	bits := math.Float32bits(1.0)
	return runWalkNoFlag(r, ff.PixelBlocks, func(i int) error {
		if colorSet[i] {
			return nil
		}
		offset := ff.BytesPixelBlocks * i
		if offset+4 <= len(out) {
			out[offset] = byte(bits)
			out[offset+1] = byte(bits >> 8)
			out[offset+2] = byte(bits >> 16)
			out[offset+3] = byte(bits >> 24)
		}
		colorSet[i] = true
		alphaSet[i] = true
		return nil
	})
}

func passBPTCUnorm(r huffman.Source, ff FullFormat, out []byte, colorSet, alphaSet []bool) error {
	return runWalkNoFlag(r, ff.PixelBlocks, func(i int) error {
		if colorSet[i] {
			return nil
		}
		fillBytes(out, ff.BytesPixelBlocks*i, ff.BytesComponent, 0xFF)
		colorSet[i] = true
		alphaSet[i] = true
		return nil
	})
}

func colorOffset(ff FullFormat) int {
	if ff.TwoComponent {
		return ff.BytesComponent
	}
	return 0
}

// terminalRawWords runs the fallback raw-word passes: after the six
// flag-selected passes, whatever blocks are still unset are filled
// directly from the input word stream rather than from any Huffman
// decode. A short read here halts the corresponding loop silently,
// leaving the remaining blocks zero-initialized, matching truncated-input
// tolerance elsewhere in the codec.
func terminalRawWords(r *huffman.WordReader, ff FullFormat, out []byte, colorSet, alphaSet []bool) {
	r.RewindOneWord()

	writesAlpha := ff.FlagData&formatAlpha != 0 && ff.FlagData&formatDeducedAlphaComp == 0 || ff.FlagData&formatBicolor != 0
	if writesAlpha {
		for i := 0; i < ff.PixelBlocks; i++ {
			if alphaSet[i] {
				continue
			}
			w, err := r.PeekAndDrop(32)
			if err != nil {
				break
			}
			offset := ff.BytesPixelBlocks * i
			putUint32(out, offset, w)
			if ff.BytesComponent > 4 {
				w2, err := r.PeekAndDrop(32)
				if err != nil {
					break
				}
				putUint32(out, offset+4, w2)
			}
		}
	}

	writesColor := ff.FlagData&formatColor != 0 || ff.FlagData&formatBicolor != 0
	if writesColor {
		for i := 0; i < ff.PixelBlocks; i++ {
			if colorSet[i] {
				continue
			}
			w, err := r.PeekAndDrop(32)
			if err != nil {
				break
			}
			offset := ff.BytesPixelBlocks*i + colorOffset(ff)
			putUint32(out, offset, w)
			if ff.BytesComponent > 4 {
				w2, err := r.PeekAndDrop(32)
				if err != nil {
					break
				}
				putUint32(out, offset+4, w2)
			}
		}
	}
}

func putUint32(out []byte, offset int, v uint32) {
	if offset+4 > len(out) {
		return
	}
	out[offset] = byte(v)
	out[offset+1] = byte(v >> 8)
	out[offset+2] = byte(v >> 16)
	out[offset+3] = byte(v >> 24)
}
