// Package huffman implements the canonical Huffman decoder shared by the
// DAT and texture codecs: a bounded-length prefix hash accelerates codes up
// to MaxBitsHash bits, falling back to a linear compare table for longer
// codes up to MaxCodeBitsLength bits.
//
// Two bit-source types are provided. [BitReader] applies the periodic
// skip policy used by the DAT archive format; [WordReader] reads raw
// 32-bit little-endian words with no skip policy, as the texture codec
// does. Both satisfy [Source] and can drive the same [Tree].
package huffman

const (
	// MaxCodeBitsLength is the longest canonical code this decoder supports.
	MaxCodeBitsLength = 32
	// MaxBitsHash is the width of the O(1) prefix hash table.
	MaxBitsHash = 8
	// MaxSymbolValue bounds the symbol alphabet; the DAT codec's per-block
	// symbol trees use the full range, the static dictionaries only
	// byte-sized symbols (the texture dictionary only symbols up to 0x12).
	MaxSymbolValue = 285

	hashSize = 1 << MaxBitsHash
)
