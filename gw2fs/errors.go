// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package gw2fs

import "errors"

var errNotAnArchive = errors.New("gw2fs: not a recognised archive")
