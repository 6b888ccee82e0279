package codexwatch

import (
	"io/fs"
	"time"
)

// pastCutoff returns a bootstrap cutoff far enough in the past that any
// freshly-written test fixture file counts as eligible for bootstrap.
func pastCutoff() time.Time {
	return time.Now().Add(-1 * time.Hour)
}

// statDirEntry adapts an fs.FileInfo (from os.Stat) to fs.DirEntry so tests
// can call Watcher.handleFile directly without a full directory walk.
type statDirEntry struct {
	info fs.FileInfo
}

func dirEntryFromStat(_ string, info fs.FileInfo) fs.DirEntry {
	return statDirEntry{info: info}
}

func (e statDirEntry) Name() string               { return e.info.Name() }
func (e statDirEntry) IsDir() bool                 { return e.info.IsDir() }
func (e statDirEntry) Type() fs.FileMode           { return e.info.Mode().Type() }
func (e statDirEntry) Info() (fs.FileInfo, error)  { return e.info, nil }
