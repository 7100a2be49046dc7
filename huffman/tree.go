package huffman

import "errors"

// ErrCorruptStream is returned when a code cannot be resolved against the
// tree's tables: an empty tree, or a linear scan that runs off the end of
// the compare table.
var ErrCorruptStream = errors.New("huffman: corrupt code stream")

// Tree holds the read-only decode tables produced by [Builder.Build]: a
// prefix hash for codes up to MaxBitsHash bits, and a linear compare
// table for everything longer, ordered shortest-code-first (which is
// also descending codeComparison order).
type Tree struct {
	codeComparison    [MaxCodeBitsLength]uint32
	symbolValueOffset [MaxCodeBitsLength]uint16
	symbolValue       []uint16
	codeBits          [MaxCodeBitsLength]uint8
	linearCount       int

	hashExist  [hashSize]bool
	hashSymbol [hashSize]uint16
	hashBits   [hashSize]uint8

	empty bool
}

func newTree(maxSymbolValue int) *Tree {
	return &Tree{
		symbolValue: make([]uint16, maxSymbolValue),
		empty:       true,
	}
}

// Empty reports whether the tree has no registered symbols; decoding
// from an empty tree always fails.
func (t *Tree) Empty() bool { return t.empty }

// ReadCode decodes one symbol from src: a hash lookup for codes of at
// most MaxBitsHash bits, falling back to a linear scan of the compare
// table for longer codes.
func (t *Tree) ReadCode(src Source) (uint16, error) {
	if t.empty {
		return 0, ErrCorruptStream
	}

	peek32, err := src.PeekBits(32)
	if err != nil {
		return 0, err
	}

	hashSlot := peek32 >> (32 - MaxBitsHash)
	if t.hashExist[hashSlot] {
		if err := src.DropBits(t.hashBits[hashSlot]); err != nil {
			return 0, err
		}
		return t.hashSymbol[hashSlot], nil
	}

	for i := 0; i < t.linearCount; i++ {
		if peek32 >= t.codeComparison[i] {
			bits := t.codeBits[i]
			idx := int(t.symbolValueOffset[i]) - int((peek32-t.codeComparison[i])>>(32-uint(bits)))
			if idx < 0 || idx >= len(t.symbolValue) {
				return 0, ErrCorruptStream
			}
			if err := src.DropBits(bits); err != nil {
				return 0, err
			}
			return t.symbolValue[idx], nil
		}
	}
	return 0, ErrCorruptStream
}
