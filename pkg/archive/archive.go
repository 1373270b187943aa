// Package archive provides random access to the entries of a downloaded
// distribution archive.
//
// A distribution is only ever read through the [Archive] interface: list the
// entries, then open the ones that are wanted. [OpenZip] implements it for zip
// files using github.com/klauspost/compress/zip.
package archive

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/klauspost/compress/zip"
)

// ErrNoEntry is returned by [Archive.Open] when the archive has no entry with the given name.
var ErrNoEntry = errors.New("archive entry not found")

// Entry describes one file inside an archive.
type Entry struct {
	Name string // Full entry name including any directory prefix
	Size int64  // Uncompressed size in bytes
}

// Base returns the entry name without its directory prefix.
func (e Entry) Base() string { return path.Base(e.Name) }

// Archive is an open, randomly accessible archive.
type Archive interface {
	// Entries lists the file entries sorted by name. Directories are omitted.
	Entries() []Entry
	// Open returns a stream over the uncompressed bytes of the named entry.
	Open(name string) (io.ReadCloser, error)
	// Close releases the underlying file.
	Close() error
}

// Zip is an [Archive] backed by a zip file on disk.
type Zip struct {
	rc      *zip.ReadCloser
	files   map[string]*zip.File
	entries []Entry
}

// OpenZip opens the zip file at path.
// It fails if the file is missing or is not a valid zip archive.
func OpenZip(path string) (*Zip, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}

	z := &Zip{rc: rc, files: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		z.files[f.Name] = f
		z.entries = append(z.entries, Entry{Name: f.Name, Size: int64(f.UncompressedSize64)})
	}
	sort.Slice(z.entries, func(i, j int) bool { return z.entries[i].Name < z.entries[j].Name })
	return z, nil
}

// Entries implements [Archive].
func (z *Zip) Entries() []Entry { return z.entries }

// Open implements [Archive].
func (z *Zip) Open(name string) (io.ReadCloser, error) {
	f, ok := z.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEntry, name)
	}
	return f.Open()
}

// Close implements [Archive].
func (z *Zip) Close() error { return z.rc.Close() }

var _ Archive = (*Zip)(nil)
