// SPDX-License-Identifier: MPL-2.0

package localedata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/keylens/keylens/pkg/cueutil"

	"github.com/charmbracelet/log"
)

// Repository reads locale files from disk. Every call reads the file again,
// so edits made between two calls are always visible to the second one.
type Repository struct {
	logger *log.Logger
}

// NewRepository creates a Repository. A nil logger discards output.
func NewRepository(logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Repository{logger: logger.With("component", "localedata")}
}

// Exists reports whether path names a regular file. It does not parse it.
func (r *Repository) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read loads and decodes the file at path. Missing files yield a
// *NotFoundError; undecodable files yield a *MalformedDataError.
func (r *Repository) Read(path string) (obj *Object, err error) {
	format := FormatFor(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read locale file %s: %w", path, err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, &MalformedDataError{Path: path, Format: format, Cause: err}
	}

	defer func() {
		if rec := recover(); rec != nil {
			obj = nil
			err = &MalformedDataError{Path: path, Format: format, Cause: fmt.Errorf("decoder panic: %v", rec)}
		}
	}()

	obj, err = format.decode(data, path)
	if err != nil {
		return nil, &MalformedDataError{Path: path, Format: format, Cause: err}
	}
	return obj, nil
}

// Load is Read with every failure turned into nil. The locale is only used
// for log context.
func (r *Repository) Load(path, locale string) *Object {
	obj, err := r.Read(path)
	switch {
	case err == nil:
		return obj
	case errors.Is(err, ErrNotFound):
		r.logger.Debug("locale file missing", "locale", locale, "path", path)
	case errors.Is(err, ErrMalformedData):
		r.logger.Warn("locale file malformed", "locale", locale, "path", path, "err", err)
	default:
		r.logger.Warn("locale file unreadable", "locale", locale, "path", path, "err", err)
	}
	return nil
}

// SetEntry writes value under key in the file at path, creating the file and
// any intermediate mappings it needs. An existing literal top-level key wins
// over a dotted path. Key order in the file is preserved.
func (r *Repository) SetEntry(path, key, value string) error {
	format := FormatFor(path)
	if format == FormatCUE {
		return fmt.Errorf("set %q in %s: %w", key, path, ErrReadOnlyFormat)
	}

	obj, err := r.Read(path)
	switch {
	case errors.Is(err, ErrNotFound):
		obj = NewObject()
	case err != nil:
		return err
	}

	if err := setPath(obj, key, value); err != nil {
		return err
	}

	data, err := format.encode(obj)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	r.logger.Debug("locale entry written", "path", path, "key", key)
	return nil
}

func setPath(obj *Object, key, value string) error {
	if _, ok := obj.Get(key); ok || !strings.Contains(key, ".") {
		obj.Set(key, value)
		return nil
	}

	segments := strings.Split(key, ".")
	current := obj
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current.Get(seg)
		if !ok {
			child := NewObject()
			current.Set(seg, child)
			current = child
			continue
		}
		child, isObj := next.(*Object)
		if !isObj {
			return &KeyConflictError{Key: key, Segment: seg}
		}
		current = child
	}
	current.Set(segments[len(segments)-1], value)
	return nil
}

// writeFileAtomic replaces path via a temp file in the same directory so a
// concurrent reader never observes a half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create locale directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        //nolint:errcheck // already failing
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
