// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
)

// Member describes one entry of an existing archive.
type Member struct {
	Name      string `json:"name"`
	Directory bool   `json:"directory"`
	Size      int64  `json:"size"`
	Mode      int64  `json:"mode"`
}

// ReadMembers lists the entries of an archive stream produced by
// [Build]. If the archive was encrypted, identities must include a key
// for one of its recipients.
func ReadMembers(r io.Reader, codec Codec, identities ...age.Identity) ([]Member, error) {
	if len(identities) > 0 {
		decrypted, err := age.Decrypt(r, identities...)
		if err != nil {
			return nil, fmt.Errorf("decrypting archive: %w", err)
		}
		r = decrypted
	}

	decompressed, err := codec.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening %s stream: %w", codec, err)
	}
	defer decompressed.Close()

	var members []Member
	reader := tar.NewReader(decompressed)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return members, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		members = append(members, Member{
			Name:      header.Name,
			Directory: header.Typeflag == tar.TypeDir,
			Size:      header.Size,
			Mode:      header.Mode,
		})
	}
}

// ReadMembersFile is [ReadMembers] for an archive on disk, with the
// codec inferred from the file name.
func ReadMembersFile(name string, identities ...age.Identity) ([]Member, error) {
	codec, err := DetectCodec(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadMembers(file, codec, identities...)
}
