// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	bufra "github.com/avvmoto/buf-readerat"
	"github.com/cockroachdb/pebble/v2"
	"github.com/therootcompany/xz"

	"github.com/gw2dat/gw2dat/internal/entrycache"
	"github.com/gw2dat/gw2dat/internal/reader2readerat"
)

// Archive is an fs.FS view over one .dat file: fs.FS, fs.ReadDirFS, and
// fs.StatFS are all implemented directly on it, the same shape as the
// teacher's own *FS (open.go, stat.go), just without the burrow/mount
// machinery those serve a recursive archive-of-archives model this
// module has no use for — a GW2 archive is one flat entry table.
type Archive struct {
	path     string
	f        *os.File
	ra       io.ReaderAt // buffered random access over f, via buf-readerat
	header   header
	entries  []record
	cache    *entrycache.Cache
	mftStore *pebble.DB // persists the parsed entry table across opens; nil if unavailable
	manifest io.ReaderAt
}

// Open opens name as a GW2 archive. A free-space check runs first
// (best-effort; logged, never fatal) before the archive is buffered for
// random access.
func Open(name string) (*Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	if ok, free, need := enoughFreeSpace(name, f); !ok {
		slog.Warn("gw2fs: low free space opening archive",
			"path", name, "freeBytes", free, "fileBytes", need)
	}

	buffered := bufra.NewBufReaderAt(f, 32*1024)

	a := &Archive{
		path:  name,
		f:     f,
		ra:    buffered,
		cache: entrycache.New(),
	}

	if err := a.loadMFT(); err != nil {
		f.Close()
		return nil, err
	}

	a.manifest = openSidecarManifest(name)

	return a, nil
}

// Close releases the archive's file handle and any persistence store.
func (a *Archive) Close() error {
	if a.mftStore != nil {
		a.mftStore.Close()
	}
	return a.f.Close()
}

// loadMFT loads the entry table, preferring a pebble-backed cache from
// a previous open (keyed by file size + mtime as a cheap staleness
// fingerprint) over re-reading the header and table from the archive.
func (a *Archive) loadMFT() error {
	fi, err := a.f.Stat()
	if err != nil {
		return err
	}
	fingerprint := fmt.Sprintf("%d:%d", fi.Size(), fi.ModTime().UnixNano())

	db, err := pebble.Open(mftStorePath(a.path), &pebble.Options{})
	if err != nil {
		slog.Warn("gw2fs: mft cache unavailable, parsing fresh", "path", a.path, "err", err)
	} else {
		a.mftStore = db
		if entries, ok := a.loadMFTFromStore(fingerprint); ok {
			a.entries = entries
			a.header = header{entryCount: uint32(len(entries))}
			return nil
		}
	}

	h, err := readHeader(a.ra)
	if err != nil {
		return err
	}
	entries, err := readMFT(a.ra, h)
	if err != nil {
		return err
	}
	a.header = h
	a.entries = entries

	if a.mftStore != nil {
		a.storeMFT(fingerprint)
	}
	return nil
}

func (a *Archive) loadMFTFromStore(fingerprint string) ([]record, bool) {
	stored, closer, err := a.mftStore.Get([]byte("fingerprint"))
	if err != nil {
		return nil, false
	}
	match := string(stored) == fingerprint
	closer.Close()
	if !match {
		return nil, false
	}

	countBytes, closer, err := a.mftStore.Get([]byte("count"))
	if err != nil {
		return nil, false
	}
	count := binary.LittleEndian.Uint32(countBytes)
	closer.Close()

	entries := make([]record, count)
	for i := range entries {
		row, closer, err := a.mftStore.Get(recordKey(uint32(i)))
		if err != nil {
			return nil, false
		}
		entries[i] = decodeRecord(row)
		closer.Close()
	}
	return entries, true
}

func (a *Archive) storeMFT(fingerprint string) {
	batch := a.mftStore.NewBatch()
	defer batch.Close()

	batch.Set([]byte("fingerprint"), []byte(fingerprint), nil)
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(a.entries)))
	batch.Set([]byte("count"), countBuf[:], nil)

	for i, rec := range a.entries {
		row := rec.encode()
		batch.Set(recordKey(uint32(i)), row[:], nil)
	}
	if err := batch.Commit(pebble.NoSync); err != nil {
		slog.Warn("gw2fs: failed to persist mft cache", "path", a.path, "err", err)
	}
}

func recordKey(i uint32) []byte {
	return []byte("entry:" + strconv.FormatUint(uint64(i), 10))
}

func decodeRecord(row []byte) record {
	return record{
		dataOffset:       binary.LittleEndian.Uint64(row[0:8]),
		compressedSize:   binary.LittleEndian.Uint32(row[8:12]),
		uncompressedSize: binary.LittleEndian.Uint32(row[12:16]),
		kind:             Kind(row[16]),
		width:            binary.LittleEndian.Uint16(row[18:20]),
		height:           binary.LittleEndian.Uint16(row[20:22]),
		fourCC:           binary.LittleEndian.Uint32(row[22:26]),
	}
}

func mftStorePath(archivePath string) string {
	return archivePath + ".mftcache"
}

// openSidecarManifest decodes an optional manifest.xz sitting next to
// the archive, exposed as a seekable io.ReaderAt through
// reader2readerat. Absence is not an error: most archives have no
// sidecar, and Manifest returns nil in that case.
func openSidecarManifest(archivePath string) io.ReaderAt {
	sidecar := filepath.Join(filepath.Dir(archivePath), "manifest.xz")
	if _, err := os.Stat(sidecar); err != nil {
		return nil
	}
	return reader2readerat.New(func() (io.Reader, error) {
		f, err := os.Open(sidecar)
		if err != nil {
			return nil, err
		}
		return xz.NewReader(f, xz.DefaultDictMax)
	})
}

// Manifest returns the decoded sidecar manifest, if one was found next
// to the archive when it was opened.
func (a *Archive) Manifest() (io.ReaderAt, bool) {
	return a.manifest, a.manifest != nil
}

// --- io/fs surface ---

func (a *Archive) Open(name string) (fs.File, error) {
	if name == "." {
		return &rootDir{a: a}, nil
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	idx, err := entryIndexFromName(name)
	if err != nil || idx >= uint32(len(a.entries)) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &Entry{a: a, idx: idx, rec: a.entries[idx]}, nil
}

func (a *Archive) Stat(name string) (fs.FileInfo, error) {
	f, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Stat()
}

func (a *Archive) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]fs.DirEntry, len(a.entries))
	for i, rec := range a.entries {
		out[i] = entryInfo{name: entryName(uint32(i)), rec: rec}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func entryName(idx uint32) string {
	return fmt.Sprintf("%08d", idx)
}

func entryIndexFromName(name string) (uint32, error) {
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

type rootDir struct {
	a      *Archive
	list   []fs.DirEntry
	listAt int
}

func (d *rootDir) Stat() (fs.FileInfo, error) { return rootInfo{}, nil }
func (d *rootDir) Read([]byte) (int, error)   { return 0, io.EOF }
func (d *rootDir) Close() error               { return nil }

func (d *rootDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.list == nil {
		list, err := d.a.ReadDir(".")
		if err != nil {
			return nil, err
		}
		d.list = list
	}
	remaining := d.list[d.listAt:]
	if n <= 0 {
		d.listAt = len(d.list)
		return remaining, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	d.listAt += n
	return remaining[:n], nil
}

type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }
