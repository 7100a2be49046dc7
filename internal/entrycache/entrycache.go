// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package entrycache maps archive entry indices to the content hash of
// their decoded payload, in an admission-aware LFU cache.
//
// This is grounded on internal/spinner's use of tinylfu.T as a
// fixed-size, popularity-weighted cache in front of an expensive
// resource (there, open file descriptors and file blocks; here, a
// decode through datcodec/texcodec). It deliberately does not carry
// over spinner's sequential-file multiplexer: that machinery exists to
// make random access possible over a source that can only be read
// forward from its current position, which does not describe a GW2
// archive opened through a regular, seekable os.File. A single mutex
// around the tinylfu.T is enough here; spinner's goroutine-and-channel
// design solves a concurrency problem entrycache does not have.
package entrycache

import (
	"hash/maphash"
	"sync"

	"github.com/dgryski/go-tinylfu"
)

const (
	size    = 4096
	samples = size * 10
)

var seed = maphash.MakeSeed()

// Cache maps entry index -> content hash of that entry's decoded
// payload. The payload itself lives in internal/paycache, keyed by that
// hash; entrycache only remembers which hash a given entry maps to, so
// that repeat reads of the same entry skip straight to the payload
// cache without recomputing anything.
type Cache struct {
	mu  sync.Mutex
	lfu *tinylfu.T[uint32, uint64]
}

func New() *Cache {
	return &Cache{lfu: tinylfu.New[uint32, uint64](size, samples, hashKey)}
}

func hashKey(k uint32) uint64 { return maphash.Comparable(seed, k) }

// Lookup returns the content hash remembered for entryIndex, if any.
func (c *Cache) Lookup(entryIndex uint32) (contentHash uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.Get(entryIndex)
}

// Remember records that entryIndex currently decodes to contentHash.
func (c *Cache) Remember(entryIndex uint32, contentHash uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lfu.Add(entryIndex, contentHash)
}
