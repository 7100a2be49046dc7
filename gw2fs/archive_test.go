// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2fs

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// buildArchive writes a minimal valid .dat file containing one raw
// (KindRaw, undecoded) entry per payload, in the format mft.go reads.
// Kind is KindRaw throughout: the codec-level decode paths (KindDat,
// KindTexture) are already covered end to end by datcodec's and
// texcodec's own test suites, so these tests exercise the archive/MFT/
// cache dispatch layer gw2fs actually adds, not the codecs themselves.
func buildArchive(t *testing.T, payloads [][]byte) string {
	t.Helper()

	recs := make([]record, len(payloads))
	dataOffset := uint64(headerSize)
	var data bytes.Buffer
	for i, p := range payloads {
		recs[i] = record{
			dataOffset:       dataOffset,
			compressedSize:   uint32(len(p)),
			uncompressedSize: uint32(len(p)),
			kind:             KindRaw,
		}
		data.Write(p)
		dataOffset += uint64(len(p))
	}

	var buf bytes.Buffer
	var hdr [headerSize]byte
	copy(hdr[0:4], magic)
	binary.LittleEndian.PutUint32(hdr[4:8], formatVers)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(payloads)))
	binary.LittleEndian.PutUint64(hdr[16:24], dataOffset)
	buf.Write(hdr[:])
	buf.Write(data.Bytes())
	for _, r := range recs {
		row := r.encode()
		buf.Write(row[:])
	}

	path := filepath.Join(t.TempDir(), "test.dat")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAndReadDir(t *testing.T) {
	path := buildArchive(t, [][]byte{[]byte("aaa"), []byte("bbb"), []byte("aaa")})
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	entries, err := a.ReadDir(".")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantNames := []string{"00000000", "00000001", "00000002"}
	for i, e := range entries {
		if e.Name() != wantNames[i] {
			t.Errorf("entries[%d].Name() = %q, want %q", i, e.Name(), wantNames[i])
		}
	}

	f, err := a.Open("00000001")
	if err != nil {
		t.Fatalf("Open(00000001): %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "bbb" {
		t.Fatalf("content = %q, want %q", got, "bbb")
	}
}

func TestStatSize(t *testing.T) {
	path := buildArchive(t, [][]byte{[]byte("hello world")})
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	info, err := a.Stat("00000000")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != int64(len("hello world")) {
		t.Fatalf("Size() = %d, want %d", info.Size(), len("hello world"))
	}
}

func TestFileIDDedup(t *testing.T) {
	path := buildArchive(t, [][]byte{[]byte("same"), []byte("different"), []byte("same")})
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	id := func(name string) uint64 {
		t.Helper()
		f, err := a.Open(name)
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		defer f.Close()
		got, err := f.(*Entry).FileID()
		if err != nil {
			t.Fatalf("FileID(%s): %v", name, err)
		}
		return got
	}

	id0, id1, id2 := id("00000000"), id("00000001"), id("00000002")
	if id0 != id2 {
		t.Errorf("identical-content entries have different FileIDs: %d != %d", id0, id2)
	}
	if id0 == id1 {
		t.Errorf("distinct-content entries share a FileID: %d", id0)
	}
}

func TestOpenMissingEntry(t *testing.T) {
	path := buildArchive(t, [][]byte{[]byte("only")})
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	_, err = a.Open("99999999")
	if !os.IsNotExist(err) {
		t.Fatalf("got err %v, want fs.ErrNotExist", err)
	}
}

func TestEntryWriteTo(t *testing.T) {
	path := buildArchive(t, [][]byte{[]byte("streamed payload")})
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	f, err := a.Open("00000000")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	var out bytes.Buffer
	n, err := f.(*Entry).WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len("streamed payload")) {
		t.Fatalf("WriteTo returned n=%d, want %d", n, len("streamed payload"))
	}
	if out.String() != "streamed payload" {
		t.Fatalf("got %q", out.String())
	}
}
