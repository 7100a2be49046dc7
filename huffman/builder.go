package huffman

const noSymbol = 0xFFFF

// Builder accumulates (symbol, bit length) registrations and constructs a
// canonical-code [Tree] from them. Symbols registered at the same length
// are chained in LIFO registration order, mirroring the original
// HuffmanTreeBuilder's bits_head/bits_body linked-list scratch state.
type Builder struct {
	maxSymbolValue int

	headExist [MaxCodeBitsLength]bool
	head      [MaxCodeBitsLength]uint16

	bodyExist []bool
	body      []uint16
}

// NewBuilder returns a builder for symbols in [0, maxSymbolValue).
func NewBuilder(maxSymbolValue int) *Builder {
	b := &Builder{
		maxSymbolValue: maxSymbolValue,
		bodyExist:      make([]bool, maxSymbolValue),
		body:           make([]uint16, maxSymbolValue),
	}
	return b
}

// Reset clears all registered symbols so the builder can be reused.
func (b *Builder) Reset() {
	for i := range b.headExist {
		b.headExist[i] = false
	}
	for i := range b.bodyExist {
		b.bodyExist[i] = false
	}
}

func (b *Builder) empty() bool {
	for _, e := range b.headExist {
		if e {
			return false
		}
	}
	return true
}

// AddSymbol registers symbol at the given code length, prepending it to
// that length's chain.
func (b *Builder) AddSymbol(symbol uint16, bits uint8) {
	if bits == 0 || int(bits) > MaxCodeBitsLength {
		return
	}
	k := int(bits) - 1
	if b.headExist[k] {
		b.bodyExist[symbol] = true
		b.body[symbol] = b.head[k]
	} else {
		b.bodyExist[symbol] = false
	}
	b.headExist[k] = true
	b.head[k] = symbol
}

// Build constructs the decode tables described in the canonical-code
// build algorithm: a prefix hash for every code up to MaxBitsHash bits,
// and a linear compare table for everything longer. It reports false
// (and leaves the tree marked empty) if no symbols were registered.
func (b *Builder) Build() (*Tree, bool) {
	t := newTree(b.maxSymbolValue)
	if b.empty() {
		return t, false
	}

	// tempCode starts at 1, not 0: the original builder runs one
	// no-op pass at length 0 before any real code length, and its
	// unconditional advance (temp_code<<1)+1 still fires on that
	// pass. Starting here at 1 has the same effect without an empty
	// iteration.
	tempCode := uint32(1)
	var symbolOffset uint16
	var linearCount int

	chainNext := func(sym uint16) (uint16, bool) {
		if !b.bodyExist[sym] {
			return 0, false
		}
		return b.body[sym], true
	}

	for bits := 1; bits <= MaxBitsHash; bits++ {
		k := bits - 1
		if b.headExist[k] {
			sym := b.head[k]
			for {
				shift := uint(MaxBitsHash - bits)
				// The hash table only has hashSize slots; the running
				// code counter is carried as a full 32-bit value across
				// all lengths (see below), so only its low bits address
				// the table. This mirrors the original decoder, where
				// the same shifted value is stored through a narrower
				// index type.
				start := (tempCode << shift) & (hashSize - 1)
				count := uint32(1) << shift
				for slot := start; slot < start+count; slot++ {
					t.hashExist[slot] = true
					t.hashSymbol[slot] = sym
					t.hashBits[slot] = uint8(bits)
				}
				tempCode--

				next, ok := chainNext(sym)
				if !ok {
					break
				}
				sym = next
			}
		}
		tempCode = (tempCode << 1) + 1
	}

	for bits := MaxBitsHash + 1; bits <= MaxCodeBitsLength; bits++ {
		k := bits - 1
		if b.headExist[k] {
			sym := b.head[k]
			for {
				t.symbolValue[symbolOffset] = sym
				symbolOffset++
				tempCode--

				next, ok := chainNext(sym)
				if !ok {
					break
				}
				sym = next
			}
			t.codeComparison[linearCount] = (tempCode + 1) << (32 - uint(bits))
			t.codeBits[linearCount] = uint8(bits)
			t.symbolValueOffset[linearCount] = symbolOffset - 1
			linearCount++
		}
		tempCode = (tempCode << 1) + 1
	}

	t.linearCount = linearCount
	t.empty = false
	return t, true
}
