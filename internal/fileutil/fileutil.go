package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds the write lock for a target.
var ErrLocked = errors.New("target is locked by another writer")

// MaxInputBytes bounds documents read by ReadInput.
const MaxInputBytes = 16 << 20

// LockPath returns the lock file guarding writes to path.
func LockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// WriteAtomic replaces path with data via a temp file and rename. A flock on
// LockPath(path) keeps concurrent bisub processes from interleaving exports of
// the same file; if the lock is held ErrLocked is returned immediately.
func WriteAtomic(path string, data []byte, mode os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	lock := flock.New(LockPath(path))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	tmp, err := os.CreateTemp(dir, ".bisub-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadInput returns the text at path, or all of stdin when path is "-".
// Input must be valid UTF-8; a leading byte order mark is dropped.
func ReadInput(path string, stdin io.Reader) (string, error) {
	var reader io.Reader
	if path == "-" {
		if stdin == nil {
			return "", errors.New("stdin unavailable")
		}
		reader = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer file.Close()
		reader = file
	}
	data, err := io.ReadAll(io.LimitReader(reader, MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if len(data) > MaxInputBytes {
		return "", fmt.Errorf("input exceeds %d bytes", MaxInputBytes)
	}
	if !utf8.Valid(data) {
		return "", errors.New("input is not valid UTF-8 text")
	}
	return StripBOM(string(data)), nil
}

// StripBOM removes a leading UTF-8 byte order mark. Line-anchored grammars
// such as LRC would otherwise miss the first line.
func StripBOM(text string) string {
	return strings.TrimPrefix(text, "\ufeff")
}
