// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"os"
	"strings"
	"time"

	"filippo.io/age"
)

// ParseRecipients parses age X25519 public keys ("age1...") into
// recipients for [WithRecipients]. Empty entries are ignored.
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	recipients := make([]age.Recipient, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing archive recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

// WriteIdentity generates a new age X25519 identity, writes it to name
// in the standard age identity file format with mode 0600, and returns
// the public key to list in archive.recipients. An existing file is
// never overwritten.
func WriteIdentity(name string) (string, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", fmt.Errorf("generating age identity: %w", err)
	}
	publicKey := identity.Recipient().String()

	file, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	_, err = fmt.Fprintf(file, "# created: %s\n# public key: %s\n%s\n",
		time.Now().UTC().Format(time.RFC3339), publicKey, identity.String())
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("writing identity %s: %w", name, err)
	}
	return publicKey, nil
}
