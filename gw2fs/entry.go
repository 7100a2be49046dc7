// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2fs

import (
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/gw2dat/gw2dat/datcodec"
	"github.com/gw2dat/gw2dat/internal/paycache"
	"github.com/gw2dat/gw2dat/internal/sectionreader"
	"github.com/gw2dat/gw2dat/texcodec"
)

// Entry is one archive file: an fs.File that decodes its payload
// lazily, on first Read/ReadAt/WriteTo, and caches the result under its
// content hash so repeat opens of the same entry skip the codec
// entirely; a different entry that happens to decode to the same bytes
// still runs the codec once, then shares the one cached copy. This
// mirrors open.go's cookedOpen, which also defers the
// expensive part (buffering, format sniffing) until the file is
// actually read.
type Entry struct {
	a       *Archive
	idx     uint32
	rec     record
	section *io.SectionReader // set once decoded
	seek    int64
}

func (e *Entry) Stat() (fs.FileInfo, error) {
	return entryInfo{name: entryName(e.idx), rec: e.rec}, nil
}

func (e *Entry) Close() error { return nil }

func (e *Entry) Read(p []byte) (int, error) {
	n, err := e.ReadAt(p, e.seek)
	e.seek += int64(n)
	return n, err
}

func (e *Entry) ReadAt(p []byte, off int64) (int, error) {
	if err := e.ensureDecoded(); err != nil {
		return 0, err
	}
	return e.section.ReadAt(p, off)
}

// WriteTo streams the decoded payload to w without an intermediate
// fs.File-shaped copy. The entry is first decoded into the shared
// payload cache (not into a caller-owned buffer), and w receives a copy
// of the cached bytes.
func (e *Entry) WriteTo(w io.Writer) (int64, error) {
	if err := e.ensureDecoded(); err != nil {
		return 0, err
	}
	return io.Copy(w, io.NewSectionReader(e.section, 0, e.section.Size()))
	// e.section is read via a fresh SectionReader, not e.section itself,
	// so WriteTo never disturbs the cursor Read/ReadAt callers rely on.
}

// FileID returns the xxhash content hash of this entry's decoded
// payload, computing it (and decoding the entry) if necessary. Two
// entries with identical decoded content, including across different
// MFT generations, return the same FileID.
func (e *Entry) FileID() (uint64, error) {
	if err := e.ensureDecoded(); err != nil {
		return 0, err
	}
	hash, ok := e.a.cache.Lookup(e.idx)
	if !ok {
		return 0, fmt.Errorf("gw2fs: internal error: entry %d decoded but not cached", e.idx)
	}
	return hash, nil
}

// Kind reports which codec (if any) this entry's payload is decoded
// with.
func (e *Entry) Kind() Kind { return e.rec.kind }

// TextureDims reports the width, height, and FourCC recorded for a
// KindTexture entry in the MFT, for callers that want to route a
// texture's raw bytes through InflateTextureBlock directly (e.g. to
// decode straight into a pre-sized atlas) instead of through the
// self-describing InflateTexture header path WriteTo/Read use.
func (e *Entry) TextureDims() (width, height uint16, fourCC uint32) {
	return e.rec.width, e.rec.height, e.rec.fourCC
}

func (e *Entry) ensureDecoded() error {
	if e.section != nil {
		return nil
	}

	if hash, ok := e.a.cache.Lookup(e.idx); ok {
		if sec, ok := paycache.Section(hash); ok {
			e.section = sec
			return nil
		}
	}

	raw := make([]byte, e.rec.compressedSize)
	if _, err := sectionreader.Section(e.a.ra, int64(e.rec.dataOffset), int64(e.rec.compressedSize)).ReadAt(raw, 0); err != nil && err != io.EOF {
		return fmt.Errorf("gw2fs: reading entry %d: %w", e.idx, err)
	}

	decoded, err := e.decode(raw)
	if err != nil {
		return fmt.Errorf("gw2fs: decoding entry %d: %w", e.idx, err)
	}

	var h xxhash.Digest
	h.Write(decoded)
	hash := h.Sum64()

	paycache.Set(hash, decoded)
	e.a.cache.Remember(e.idx, hash)

	sec, _ := paycache.Section(hash)
	e.section = sec
	return nil
}

func (e *Entry) decode(raw []byte) ([]byte, error) {
	switch e.rec.kind {
	case KindDat:
		hint := int(e.rec.uncompressedSize)
		return datcodec.InflateDat(raw, hint)
	case KindTexture:
		_, pixels, err := texcodec.InflateTexture(raw)
		return pixels, err
	default:
		return raw, nil
	}
}

type entryInfo struct {
	name string
	rec  record
}

func (i entryInfo) Name() string       { return i.name }
func (i entryInfo) Size() int64        { return int64(i.rec.uncompressedSize) }
func (i entryInfo) Mode() fs.FileMode  { return 0o444 }
func (i entryInfo) ModTime() time.Time { return time.Time{} }
func (i entryInfo) IsDir() bool        { return false }
func (i entryInfo) Sys() any           { return i.rec }

func (i entryInfo) Type() fs.FileMode          { return i.Mode().Type() }
func (i entryInfo) Info() (fs.FileInfo, error) { return i, nil }
