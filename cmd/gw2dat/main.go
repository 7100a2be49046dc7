// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Command gw2dat lists or extracts entries from a GW2 .dat archive.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gw2dat/gw2dat/gw2fs"
)

var memLimit = calcMemLimit()

// calcMemLimit reuses the teacher's BEGB-environment-variable pattern
// for a soft, informational memory budget; gw2dat does not itself
// enforce it (there is nothing here analogous to the teacher's
// in-memory burrow cache to cap), it is only reported with -memlimit.
func calcMemLimit() int {
	if e := os.Getenv("BEGB"); e != "" {
		f, err := strconv.ParseFloat(e, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			panic("malformed BEGB environment variable, should be a number of gigabytes: " + e)
		}
		return int(f * 1024 * 1024 * 1024)
	}
	return 1024 * 1024 * 1024
}

func main() {
	glob := flag.String("glob", "**", "only list/extract entries whose name matches this doublestar pattern")
	extract := flag.String("extract", "", "directory to extract matching entries into; if empty, entries are only listed")
	showMemLimit := flag.Bool("memlimit", false, "print the configured memory budget (BEGB environment variable, GiB) and exit")
	flag.Parse()

	if *showMemLimit {
		fmt.Printf("%.2f GiB\n", float64(memLimit)/(1024*1024*1024))
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gw2dat [-glob pattern] [-extract dir] <archive.dat>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *glob, *extract); err != nil {
		slog.Error("gw2dat failed", "err", err)
		os.Exit(1)
	}
}

func run(archivePath, glob, extractDir string) error {
	a, err := gw2fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.ReadDir(".")
	if err != nil {
		return err
	}

	for _, e := range entries {
		matched, err := doublestar.Match(glob, e.Name())
		if err != nil {
			return fmt.Errorf("bad -glob pattern %q: %w", glob, err)
		}
		if !matched {
			continue
		}

		if extractDir == "" {
			info, err := e.Info()
			if err != nil {
				return err
			}
			f, err := a.Open(e.Name())
			if err != nil {
				return err
			}
			kind := f.(*gw2fs.Entry).Kind()
			f.Close()
			fmt.Printf("%s\t%d\t%s\n", e.Name(), info.Size(), kind)
			continue
		}

		if err := extractOne(a, e.Name(), extractDir); err != nil {
			return err
		}
	}
	return nil
}

func extractOne(a *gw2fs.Archive, name, dir string) error {
	f, err := a.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer out.Close()

	if wt, ok := f.(io.WriterTo); ok {
		_, err = wt.WriteTo(out)
	} else {
		_, err = io.Copy(out, f)
	}
	return err
}
