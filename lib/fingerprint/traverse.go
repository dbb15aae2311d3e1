// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
)

// Order selects how entries within one directory are sequenced during
// traversal.
type Order uint8

const (
	// OrderSorted visits entries in byte-wise name order. Fingerprints
	// are reproducible across platforms and filesystems.
	OrderSorted Order = 0

	// OrderListing visits entries in the order the directory read
	// returns them, with no sorting. On most Linux filesystems this is
	// hash or creation order. Fingerprints computed this way are only
	// comparable with others computed on the same directory on the
	// same filesystem.
	OrderListing Order = 1
)

// String returns the configuration name of the order.
func (order Order) String() string {
	switch order {
	case OrderSorted:
		return "sorted"
	case OrderListing:
		return "listing"
	default:
		return fmt.Sprintf("unknown(%d)", order)
	}
}

// ParseOrder parses a traversal order from its configuration name. The
// empty string selects [OrderSorted].
func ParseOrder(name string) (Order, error) {
	switch name {
	case "sorted", "":
		return OrderSorted, nil
	case "listing":
		return OrderListing, nil
	default:
		return 0, fmt.Errorf("unknown traversal order: %q", name)
	}
}

// File is one traversal event: a regular file's slash-separated path
// relative to the filesystem root, and its full contents.
type File struct {
	Path    string
	Content []byte
}

// Collect walks dir within fsys depth-first and returns every file in
// visit order. A subdirectory is descended at the point it appears in
// its parent's listing, before the parent's later entries. Directories
// are always descended regardless of their names. Symbolic links are
// followed.
//
// The first unlistable directory or unreadable file aborts the walk and
// is returned as an *fs.PathError.
func Collect(fsys fs.FS, dir string, order Order) ([]File, error) {
	var files []File
	if err := collect(fsys, dir, order, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func collect(fsys fs.FS, dir string, order Order, files *[]File) error {
	entries, err := listDirectory(fsys, dir, order)
	if err != nil {
		return pathError("readdir", dir, err)
	}

	for _, entry := range entries {
		entryPath := path.Join(dir, entry.Name())

		isDirectory, err := entryIsDirectory(fsys, entryPath, entry)
		if err != nil {
			return err
		}
		if isDirectory {
			if err := collect(fsys, entryPath, order, files); err != nil {
				return err
			}
			continue
		}

		content, err := fs.ReadFile(fsys, entryPath)
		if err != nil {
			return pathError("read", entryPath, err)
		}
		*files = append(*files, File{Path: entryPath, Content: content})
	}
	return nil
}

// listDirectory returns the entries of dir in the requested order.
// fs.ReadDir already returns entries sorted by filename.
// OrderListing opens the directory itself instead of going through
// fs.ReadDir, because fs.ReadDirFS implementations (os.DirFS included)
// sort their results.
func listDirectory(fsys fs.FS, dir string, order Order) ([]fs.DirEntry, error) {
	if order == OrderSorted {
		return fs.ReadDir(fsys, dir)
	}

	file, err := fsys.Open(dir)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	directory, ok := file.(fs.ReadDirFile)
	if !ok {
		return nil, errors.New("not a directory")
	}
	return directory.ReadDir(-1)
}

func entryIsDirectory(fsys fs.FS, entryPath string, entry fs.DirEntry) (bool, error) {
	if entry.IsDir() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := fs.Stat(fsys, entryPath)
	if err != nil {
		return false, pathError("stat", entryPath, err)
	}
	return info.IsDir(), nil
}

// pathError ensures err carries the failing path. Errors that already
// are (or wrap) an *fs.PathError pass through unchanged.
func pathError(op, name string, err error) error {
	var existing *fs.PathError
	if errors.As(err, &existing) {
		return err
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}

// fsPath converts a caller-supplied relative directory into an fs.FS
// path, rejecting anything that would escape the root.
func fsPath(relativeDir string) (string, error) {
	cleaned := path.Clean(filepath.ToSlash(relativeDir))
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("directory %q is not a path inside the root", relativeDir)
	}
	return cleaned, nil
}
