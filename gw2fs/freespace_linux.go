// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2fs

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// enoughFreeSpace reports whether the filesystem holding name has at
// least as much free space as f is large, the same raw-syscall
// diagnostic role internal/fileid/fileid_linux.go plays for file
// identity. This is advisory only: the archive is opened either way.
func enoughFreeSpace(name string, f *os.File) (ok bool, freeBytes, fileBytes int64) {
	fi, err := f.Stat()
	if err != nil {
		return true, 0, 0
	}
	fileBytes = fi.Size()

	var st unix.Statfs_t
	if err := unix.Statfs(filepath.Dir(name), &st); err != nil {
		return true, 0, fileBytes
	}
	freeBytes = int64(st.Bavail) * int64(st.Bsize)
	return freeBytes >= fileBytes, freeBytes, fileBytes
}
