package datcodec

import (
	"errors"

	"github.com/gw2dat/gw2dat/huffman"
	"github.com/gw2dat/gw2dat/internal/staticdict"
)

// skipPeriod is the DAT bit stream's periodic skip policy: one 32-bit
// word is silently discarded every 16384 words, matching ArenaNet's
// chunking.
const skipPeriod = 16384

// InflateDat decompresses a DAT-format payload. outputHint, when
// positive, caps the amount of data produced to min(headerSize,
// outputHint); pass 0 to use the size recorded in the stream's own
// header.
func InflateDat(input []byte, outputHint int) ([]byte, error) {
	if input == nil {
		return nil, errInvalidInput
	}

	r := huffman.NewBitReader(input, skipPeriod)

	if _, err := r.PeekAndDrop(32); err != nil { // magic, unused
		return nil, err
	}
	sizeRaw, err := r.PeekAndDrop(32)
	if err != nil {
		return nil, err
	}

	total := int(sizeRaw)
	if outputHint > 0 && outputHint < total {
		total = outputHint
	}
	out := make([]byte, 0, total)

	dict := staticdict.Dat()

blocks:
	for len(out) < total {
		if _, err := r.PeekAndDrop(4); err != nil { // pad
			break blocks
		}
		addRaw, err := r.PeekAndDrop(4)
		if err != nil {
			break blocks
		}
		writeSizeConstAddition := int(addRaw) + 1
		if _, err := r.PeekAndDrop(4); err != nil { // pad
			break blocks
		}

		symbolTree, ok, err := parseTree(r, dict)
		if err != nil {
			if errors.Is(err, ErrUnexpectedEOF) {
				break blocks
			}
			return nil, err
		}
		if !ok {
			break blocks
		}

		copyTree, ok, err := parseTree(r, dict)
		if err != nil {
			if errors.Is(err, ErrUnexpectedEOF) {
				break blocks
			}
			return nil, err
		}
		if !ok {
			break blocks
		}

		maxCountRaw, err := r.PeekAndDrop(4)
		if err != nil {
			break blocks
		}
		maxCount := (int(maxCountRaw) + 1) << 12
		if _, err := r.PeekAndDrop(4); err != nil { // pad
			break blocks
		}

		var stop bool
		out, stop, err = decodeBlockBody(symbolTree, copyTree, r, maxCount, writeSizeConstAddition, out, total)
		if err != nil {
			return nil, err
		}
		if stop {
			break blocks
		}
	}

	if len(out) > total {
		out = out[:total]
	}
	return out, nil
}

// decodeBlockBody runs one block's symbol loop: up to maxCount Huffman
// codes are decoded from symbolTree, each either a literal byte or (after
// rebasing by 0x100) a length/offset back-reference resolved against
// copyTree. It returns the updated output, and stop=true if the stream
// ran out mid-block (a short block, which ends the whole decode cleanly
// rather than as an error). Any other decode failure is returned as an
// error.
func decodeBlockBody(symbolTree, copyTree *huffman.Tree, r huffman.Source, maxCount, addition int, out []byte, total int) ([]byte, bool, error) {
	for i := 0; i < maxCount && len(out) < total; i++ {
		s, err := symbolTree.ReadCode(r)
		if err != nil {
			return out, errors.Is(err, ErrUnexpectedEOF), ignoreEOF(err)
		}

		if s < 0x100 {
			out = append(out, byte(s))
			continue
		}

		length, err := decodeLength(s-0x100, r, addition)
		if err != nil {
			return out, errors.Is(err, ErrUnexpectedEOF), ignoreEOF(err)
		}

		t, err := copyTree.ReadCode(r)
		if err != nil {
			return out, errors.Is(err, ErrUnexpectedEOF), ignoreEOF(err)
		}
		offset, err := decodeOffset(t, r)
		if err != nil {
			return out, errors.Is(err, ErrUnexpectedEOF), ignoreEOF(err)
		}
		if offset <= 0 || offset > len(out) {
			return out, false, ErrCorruptStream
		}

		// Byte-by-byte, not a bulk copy: an overlapping back reference
		// must repeat the freshly written pattern.
		for k := 0; k < length && len(out) < total; k++ {
			out = append(out, out[len(out)-offset])
		}
	}
	return out, false, nil
}

// ignoreEOF returns nil for an end-of-stream error and err otherwise.
func ignoreEOF(err error) error {
	if errors.Is(err, ErrUnexpectedEOF) {
		return nil
	}
	return err
}

// parseTree decodes one tree description: a 16-bit symbol count, then a
// sequence of (bits, count) runs read from dict, walking the symbol
// space downward from symbolNumber-1. A description with symbolNumber
// zero (or otherwise producing no registrations) yields an empty tree,
// reported via ok=false, which signals the caller to end the stream
// gracefully rather than an error.
func parseTree(r huffman.Source, dict *huffman.Tree) (tree *huffman.Tree, ok bool, err error) {
	symNumRaw, err := r.PeekAndDrop(16)
	if err != nil {
		return nil, false, err
	}
	symbolNumber := int(symNumRaw)
	if symbolNumber > huffman.MaxSymbolValue {
		return nil, false, ErrCorruptStream
	}

	builder := huffman.NewBuilder(huffman.MaxSymbolValue)
	remaining := symbolNumber - 1
	for remaining >= 0 {
		code, err := dict.ReadCode(r)
		if err != nil {
			return nil, false, err
		}
		bits := uint8(code & 0x1F)
		count := int(code>>5) + 1

		if bits == 0 {
			remaining -= count
			continue
		}
		for i := 0; i < count && remaining >= 0; i++ {
			builder.AddSymbol(uint16(remaining), bits)
			remaining--
		}
	}

	tree, built := builder.Build()
	return tree, built, nil
}

// decodeLength reconstructs a copy length from a symbol tree code that
// was >= 0x100 (already rebased by 0x100 by the caller), plus the
// block's write_size_const_addition.
func decodeLength(s uint16, r huffman.Source, addition int) (int, error) {
	q, rem := s/4, s%4

	var length int
	switch {
	case q == 0:
		length = int(s)
	case s == 28:
		length = 0xFF
	case q >= 1 && q <= 6:
		length = (1 << (q - 1)) * (4 + int(rem))
	default:
		return 0, ErrCorruptStream
	}

	if q > 1 && s != 28 {
		extra, err := r.PeekAndDrop(uint8(q - 1))
		if err != nil {
			return 0, err
		}
		length |= int(extra)
	}
	return length + addition, nil
}

// decodeOffset reconstructs a copy offset from a code decoded with the
// copy tree.
func decodeOffset(t uint16, r huffman.Source) (int, error) {
	q, rem := t/2, t%2

	var offset int
	switch {
	case q == 0:
		offset = int(t)
	case q >= 1 && q <= 16:
		offset = (1 << (q - 1)) * (2 + int(rem))
	default:
		return 0, ErrCorruptStream
	}

	if q > 1 {
		extra, err := r.PeekAndDrop(uint8(q - 1))
		if err != nil {
			return 0, err
		}
		offset |= int(extra)
	}
	return offset + 1, nil
}
