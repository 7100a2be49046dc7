// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2fs

import "io/fs"

var (
	_ fs.FS        = (*Archive)(nil)
	_ fs.StatFS    = (*Archive)(nil)
	_ fs.ReadDirFS = (*Archive)(nil)

	_ fs.File     = (*Entry)(nil)
	_ fs.DirEntry = entryInfo{}
)
