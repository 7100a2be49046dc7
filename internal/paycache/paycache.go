// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package paycache caches whole decoded archive entries in a
// process-wide bigcache instance, keyed by the content hash of the
// decoded payload.
//
// This is an adaptation of the teacher's Stepper-based
// internal/decompressioncache, which served incrementally-decompressed
// byte ranges out of a stream that could be resumed from an arbitrary
// checkpoint. The GW2 codec has no resumable block boundaries reachable
// from an arbitrary offset (a DAT block's tokens and a texture chunk's
// passes must be decoded from their start), so there is nothing to
// checkpoint: each entry is decoded once, in full, and the result cached
// whole. Repeat reads of an entry whose content hash is already known
// are served from this cache without touching the codec again; two
// different MFT entries that happen to decode to identical bytes share
// one cached copy, although each is decoded once to learn its hash.
package paycache

import (
	"context"
	"encoding/binary"
	"io"
	"sync"

	"github.com/allegro/bigcache/v3"
)

var (
	once  sync.Once
	cache *bigcache.BigCache
)

func get() *bigcache.BigCache {
	once.Do(func() {
		c, err := bigcache.New(context.Background(), bigcache.Config{
			HardMaxCacheSize: 512, // megabytes
			Shards:           1024,
		})
		if err != nil {
			panic(err)
		}
		cache = c
	})
	return cache
}

// Get returns the cached payload for contentHash, if present.
func Get(contentHash uint64) ([]byte, bool) {
	b, err := get().Get(keyFor(contentHash))
	if err != nil {
		return nil, false
	}
	return b, true
}

// Set stores payload under contentHash, replacing any prior entry.
func Set(contentHash uint64, payload []byte) {
	_ = get().Set(keyFor(contentHash), payload)
}

// Section returns an io.SectionReader over the cached payload for
// contentHash, or ok=false if it is not cached.
func Section(contentHash uint64) (r *io.SectionReader, ok bool) {
	payload, ok := Get(contentHash)
	if !ok {
		return nil, false
	}
	return io.NewSectionReader(byteReaderAt(payload), 0, int64(len(payload))), true
}

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func keyFor(h uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h)
	return string(buf[:])
}
