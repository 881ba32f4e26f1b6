// Package archive manages the on-disk emoji backup: one flat directory
// holding one image file per emoji, with the emoji name recoverable from
// the filename alone. No sidecar metadata is kept.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauern/slackmoji/internal/logging"
	"github.com/klauern/slackmoji/internal/model"
)

// defaultExt is used when the image URL carries no recognizable path
// extension.
const defaultExt = ".png"

// Dir is one archive directory, the unit of storage for a backup.
type Dir struct {
	path string
}

// New creates a handle for the archive directory at path. The directory
// itself may or may not exist yet.
func New(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// Exists reports whether the archive directory is present. A path that
// exists but is not a directory counts as absent. I/O faults other than
// non-existence are returned as errors so callers can tell "missing"
// apart from "inaccessible".
func (d *Dir) Exists() (bool, error) {
	info, err := os.Stat(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", d.path, err)
	}
	return info.IsDir(), nil
}

// EnsureExists creates the directory and any missing parents. Idempotent.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.path, 0o750); err != nil {
		return fmt.Errorf("create archive directory %s: %w", d.path, err)
	}
	return nil
}

// Entry is one archived emoji file. It carries the recovered emoji name
// so import callers never re-derive it from the filename.
type Entry struct {
	// Name is the emoji short code encoded in the filename.
	Name string
	// Filename is the file's name within the archive directory.
	Filename string
	// Path is the full path to the file.
	Path string
}

// Filename returns the deterministic archive filename for an emoji
// record: the emoji name plus the extension inferred from the image URL's
// path. Stable across runs, so a re-export overwrites rather than
// duplicates.
func Filename(e model.Emoji) string {
	ext := defaultExt
	if u, err := url.Parse(e.ImageURL); err == nil {
		if urlExt := path.Ext(u.Path); urlExt != "" {
			ext = urlExt
		}
	}
	return e.Name + ext
}

// Write streams r into the archive file for e, overwriting any previous
// file of that name. The content is synced to disk before Write returns,
// so a subsequent scan observes complete data.
func (d *Dir) Write(e model.Emoji, r io.Reader) (Entry, error) {
	filename := Filename(e)
	full := filepath.Join(d.path, filename)

	f, err := os.Create(full)
	if err != nil {
		return Entry{}, fmt.Errorf("create %s: %w", full, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return Entry{}, fmt.Errorf("write %s: %w", full, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return Entry{}, fmt.Errorf("sync %s: %w", full, err)
	}
	if err := f.Close(); err != nil {
		return Entry{}, fmt.Errorf("close %s: %w", full, err)
	}
	return Entry{Name: e.Name, Filename: filename, Path: full}, nil
}

// Scan returns a lazy, finite, single-pass sequence over the archive's
// files in directory order (lexical by filename). Directory entries that
// do not fit the naming scheme — subdirectories, dotfiles, and files
// without an extension — are skipped with a debug log rather than
// surfaced as errors, so stray editor droppings don't break an import.
//
// A failure to read the directory itself yields a single error and ends
// the sequence.
func (d *Dir) Scan() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		entries, err := os.ReadDir(d.path)
		if err != nil {
			yield(Entry{}, fmt.Errorf("read archive directory %s: %w", d.path, err))
			return
		}
		for _, de := range entries {
			name := de.Name()
			if de.IsDir() || strings.HasPrefix(name, ".") {
				logging.Debug("skipping non-archive entry", logging.Path(name))
				continue
			}
			ext := filepath.Ext(name)
			if ext == "" || ext == name {
				logging.Debug("skipping file without extension", logging.Path(name))
				continue
			}
			entry := Entry{
				Name:     strings.TrimSuffix(name, ext),
				Filename: name,
				Path:     filepath.Join(d.path, name),
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}
