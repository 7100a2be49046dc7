package datcodec

import (
	"bytes"
	"testing"

	"github.com/gw2dat/gw2dat/huffman"
)

// bitWriter packs MSB-first bits into a byte buffer for building literal
// test bitstreams. It mirrors huffman's own test helper: word readers
// pull each 4-byte group with binary.LittleEndian, which makes the last
// byte of a group the most significant (first-consumed) one, so each
// completed group is byte-swapped before being returned.
type bitWriter struct {
	buf  []byte
	cur  byte
	nCur uint8
}

func (w *bitWriter) writeBits(v uint32, n uint8) {
	for i := int(n) - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = w.cur<<1 | bit
		w.nCur++
		if w.nCur == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur, w.nCur = 0, 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	buf := append([]byte(nil), w.buf...)
	if w.nCur > 0 {
		buf = append(buf, w.cur<<(8-w.nCur))
	}
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	// ReadCode always peeks a full 32-bit word ahead regardless of how
	// many bits the code actually needs, so there must be a spare
	// all-zero word available past the real content or the final code
	// in the stream would spuriously fail with end-of-stream.
	buf = append(buf, 0, 0, 0, 0)
	for i := 0; i+4 <= len(buf); i += 4 {
		buf[i], buf[i+3] = buf[i+3], buf[i]
		buf[i+1], buf[i+2] = buf[i+2], buf[i+1]
	}
	return buf
}

// singleSymbolTree returns a tree with exactly one registered symbol.
// The canonical-code build algorithm always assigns a lone length-1
// symbol the single-bit code "1".
func singleSymbolTree(t *testing.T, symbol uint16) *huffman.Tree {
	t.Helper()
	b := huffman.NewBuilder(huffman.MaxSymbolValue)
	b.AddSymbol(symbol, 1)
	tree, ok := b.Build()
	if !ok {
		t.Fatal("Build reported empty tree for one registered symbol")
	}
	return tree
}

// TestDecodeBlockBodyLiterals covers spec scenario S1: four distinct
// literal bytes with no back-references. DE, AD, BE and EF are
// registered (in that order) at 2 bits each, a Kraft-exact assignment
// whose resulting codes (00, 01, 10, 11) were hand-derived by tracing
// the build algorithm.
func TestDecodeBlockBodyLiterals(t *testing.T) {
	b := huffman.NewBuilder(huffman.MaxSymbolValue)
	b.AddSymbol(0xDE, 2)
	b.AddSymbol(0xAD, 2)
	b.AddSymbol(0xBE, 2)
	b.AddSymbol(0xEF, 2)
	symbolTree, ok := b.Build()
	if !ok {
		t.Fatal("unexpected empty symbol tree")
	}
	copyTree := singleSymbolTree(t, 0) // never consulted

	w := &bitWriter{}
	w.writeBits(0, 2) // 0xDE -> 00
	w.writeBits(1, 2) // 0xAD -> 01
	w.writeBits(2, 2) // 0xBE -> 10
	w.writeBits(3, 2) // 0xEF -> 11
	r := huffman.NewWordReader(w.bytes())

	out, stop, err := decodeBlockBody(symbolTree, copyTree, r, 4, 1, nil, 4)
	if err != nil {
		t.Fatalf("decodeBlockBody: %v", err)
	}
	if stop {
		t.Fatal("decodeBlockBody reported a short block unexpectedly")
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(out, want) {
		t.Fatalf("out = % X, want % X", out, want)
	}
}

// TestDecodeBlockBodyOverlappingCopy covers spec scenario S3: a single
// literal byte followed by a length=7, offset=1 copy, which must repeat
// the literal through the overlap rather than stopping after one
// preceding byte is available.
func TestDecodeBlockBodyOverlappingCopy(t *testing.T) {
	const literal = 0x58 // 'X'
	const lengthCode = 0x100 + 6 // base length 6, +1 addition => 7

	b := huffman.NewBuilder(huffman.MaxSymbolValue)
	b.AddSymbol(literal, 1)    // registered first -> code "0"
	b.AddSymbol(lengthCode, 1) // registered second -> code "1"
	symbolTree, ok := b.Build()
	if !ok {
		t.Fatal("unexpected empty symbol tree")
	}
	copyTree := singleSymbolTree(t, 0) // offset code 1 -> offset 1

	w := &bitWriter{}
	w.writeBits(0, 1) // literal X
	w.writeBits(1, 1) // copy-length code -> s=6
	w.writeBits(1, 1) // copy-tree offset code -> t=0
	r := huffman.NewWordReader(w.bytes())

	out, stop, err := decodeBlockBody(symbolTree, copyTree, r, 2, 1, nil, 8)
	if err != nil {
		t.Fatalf("decodeBlockBody: %v", err)
	}
	if stop {
		t.Fatal("decodeBlockBody reported a short block unexpectedly")
	}
	want := bytes.Repeat([]byte{literal}, 8)
	if !bytes.Equal(out, want) {
		t.Fatalf("out = % X, want % X", out, want)
	}
}

func TestDecodeLength(t *testing.T) {
	cases := []struct {
		s        uint16
		addition int
		want     int
	}{
		{s: 2, addition: 1, want: 3},   // q==0 direct
		{s: 6, addition: 1, want: 7},   // q==1, no extra bits
		{s: 28, addition: 1, want: 0x100}, // the 0xFF sentinel plus addition
	}
	for _, c := range cases {
		r := huffman.NewWordReader(make([]byte, 8))
		got, err := decodeLength(c.s, r, c.addition)
		if err != nil {
			t.Fatalf("decodeLength(%d): %v", c.s, err)
		}
		if got != c.want {
			t.Errorf("decodeLength(%d, addition=%d) = %d, want %d", c.s, c.addition, got, c.want)
		}
	}
}

func TestDecodeLengthRejectsInvalidSymbol(t *testing.T) {
	// q=7 (symbol in [28,31]) but not exactly 28: invalid per spec.
	r := huffman.NewWordReader(make([]byte, 8))
	if _, err := decodeLength(29, r, 1); err != ErrCorruptStream {
		t.Fatalf("decodeLength(29): got %v, want ErrCorruptStream", err)
	}
}

func TestDecodeOffset(t *testing.T) {
	r := huffman.NewWordReader(make([]byte, 8))
	got, err := decodeOffset(0, r)
	if err != nil {
		t.Fatalf("decodeOffset(0): %v", err)
	}
	if got != 1 {
		t.Fatalf("decodeOffset(0) = %d, want 1", got)
	}
}

// TestParseTreeEmptyDescription covers the "short block" graceful exit:
// a symbol_number of zero must produce ok=false, not an error.
func TestParseTreeEmptyDescription(t *testing.T) {
	dict := singleSymbolTree(t, 0) // stand-in; never consulted when symbolNumber==0
	buf := []byte{0, 0, 0, 0}      // 16 zero bits: symbolNumber == 0
	r := huffman.NewWordReader(buf)

	tree, ok, err := parseTree(r, dict)
	if err != nil {
		t.Fatalf("parseTree: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a symbolNumber-zero description")
	}
	if !tree.Empty() {
		t.Fatal("expected an empty tree")
	}
}

func TestInflateDatRejectsNilInput(t *testing.T) {
	if _, err := InflateDat(nil, 0); err == nil {
		t.Fatal("expected an error for nil input")
	}
}
