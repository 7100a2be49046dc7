// Package staticdict builds the two process-wide Huffman dictionaries
// that bootstrap the DAT and texture codecs. Both are built once, lazily,
// and are read-only and safe for concurrent use from then on.
package staticdict

import (
	"sync"

	"github.com/gw2dat/gw2dat/huffman"
)

var (
	datOnce sync.Once
	datTree *huffman.Tree

	texOnce sync.Once
	texTree *huffman.Tree
)

// Dat returns the DAT bootstrap dictionary, used to decode each block's
// two dynamic Huffman tree descriptions. Decoded symbols pack
// (bits_count = symbol & 0x1F, symbol_count = (symbol>>5)+1).
func Dat() *huffman.Tree {
	datOnce.Do(func() {
		b := huffman.NewBuilder(huffman.MaxSymbolValue)
		for _, e := range datDictEntries {
			b.AddSymbol(e.symbol, e.bits)
		}
		tree, ok := b.Build()
		if !ok {
			panic("staticdict: DAT dictionary built to an empty tree")
		}
		datTree = tree
	})
	return datTree
}

// Texture returns the texture codec's run-length dictionary.
func Texture() *huffman.Tree {
	texOnce.Do(func() {
		b := huffman.NewBuilder(32)
		for _, e := range textureDictEntries {
			b.AddSymbol(e.symbol, e.bits)
		}
		tree, ok := b.Build()
		if !ok {
			panic("staticdict: texture dictionary built to an empty tree")
		}
		texTree = tree
	})
	return texTree
}

type entry struct {
	symbol uint16
	bits   uint8
}

// textureDictEntries: 0x01 at 1 bit, 0x12 at 2 bits, then 0x11 down to
// 0x02 at 6 bits, in that registration order.
var textureDictEntries = func() []entry {
	e := []entry{{0x01, 1}, {0x12, 2}}
	for s := uint16(0x11); s >= 0x02; s-- {
		e = append(e, entry{s, 6})
	}
	return e
}()

// datDictEntries is the DAT bootstrap dictionary's bit-exact
// registration list: 256 (symbol, length) pairs, one per byte value,
// with lengths 3..16.
// Lengths 3..15 are the explicit lists below; length 16 is every
// remaining byte value in descending order from 0xFF down to 0x12,
// skipping whatever was already assigned a shorter code.
var datDictEntries = buildDatDictEntries()

func buildDatDictEntries() []entry {
	groups := []struct {
		bits    uint8
		symbols []uint16
	}{
		{3, []uint16{0x0A, 0x09, 0x08}},
		{4, []uint16{0x0C, 0x0B, 0x07, 0x00}},
		{5, []uint16{0xE0, 0x2A, 0x29, 0x06}},
		{6, []uint16{0x4A, 0x40, 0x2C, 0x2B, 0x28, 0x20, 0x05, 0x04}},
		{7, []uint16{0x49, 0x48, 0x27, 0x26, 0x25, 0x0D, 0x03}},
		{8, []uint16{0x6A, 0x69, 0x4C, 0x4B, 0x47, 0x24}},
		{9, []uint16{0xE8, 0xA0, 0x89, 0x88, 0x68, 0x67, 0x63, 0x60, 0x46, 0x23}},
		{10, []uint16{0xE9, 0xC9, 0xC0, 0xA9, 0xA8, 0x8A, 0x87, 0x80, 0x66, 0x65, 0x45, 0x44, 0x43, 0x2D, 0x02, 0x01}},
		{11, []uint16{0xE5, 0xC8, 0xAA, 0xA5, 0xA4, 0x8B, 0x85, 0x84, 0x6C, 0x6B, 0x64, 0x4D, 0x0E}},
		{12, []uint16{0xE7, 0xCA, 0xC7, 0xA7, 0xA6, 0x86, 0x83}},
		{13, []uint16{0xE6, 0xE4, 0xC4, 0x8C, 0x2E, 0x22}},
		{14, []uint16{0xEC, 0xC6, 0x6D, 0x4E}},
		{15, []uint16{0xEA, 0xCC, 0xAC, 0xAB, 0x8D, 0x11, 0x10, 0x0F}},
	}

	assigned := make(map[uint16]bool)
	var entries []entry
	for _, g := range groups {
		for _, s := range g.symbols {
			entries = append(entries, entry{s, g.bits})
			assigned[s] = true
		}
	}

	// Length 16: every remaining byte value, highest to lowest, down to
	// 0x12 (everything below 0x12 was claimed by a shorter code above).
	for s := uint16(0xFF); s >= 0x12; s-- {
		if !assigned[s] {
			entries = append(entries, entry{s, 16})
		}
	}
	return entries
}
