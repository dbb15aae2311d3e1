// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind distinguishes files from directories during the walk.
type Kind uint8

const (
	KindFile      Kind = 0
	KindDirectory Kind = 1
)

// Entry is one directory entry seen during the walk.
type Entry struct {
	// Name is the entry's base name.
	Name string

	// Kind is KindDirectory for directories (and links to them),
	// KindFile otherwise.
	Kind Kind

	// Path is the entry's absolute path on disk.
	Path string
}

// BuildDescriptorMarker is the substring that marks a file as a build
// descriptor. Files whose name contains it are always packaged,
// whatever their extension ("Dockerfile", "Dockerfile.build",
// "app.Dockerfile").
const BuildDescriptorMarker = "Dockerfile"

// allowedExtensions is the fixed set of source and configuration
// extensions that are packaged. Matching is case-sensitive.
var allowedExtensions = map[string]struct{}{
	".go":   {},
	".yaml": {},
	".json": {},
	".c":    {},
	".h":    {},
}

// AllowedExtensions returns the packaged file extensions in sorted
// order.
func AllowedExtensions() []string {
	extensions := make([]string, 0, len(allowedExtensions))
	for extension := range allowedExtensions {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

// Include decides whether entry is packaged. Directories are always
// included so their contents can be examined.
func Include(entry Entry) bool {
	if entry.Kind == KindDirectory {
		return true
	}
	if strings.Contains(entry.Name, BuildDescriptorMarker) {
		return true
	}
	_, ok := allowedExtensions[filepath.Ext(entry.Name)]
	return ok
}
