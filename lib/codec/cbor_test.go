// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
)

type sampleManifest struct {
	Provider    string             `cbor:"provider"`
	Fingerprint cryptosuite.Digest `cbor:"fingerprint"`
	Files       int64              `cbor:"files"`
	Prefix      string             `cbor:"prefix,omitempty"`
}

type sampleOutput struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

func sampleDigest(t testing.TB) cryptosuite.Digest {
	t.Helper()
	digest, err := cryptosuite.Default().MustLookup(cryptosuite.SHA256).Digest([]byte("unit"))
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	return digest
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleManifest{
		Provider:    "sha256",
		Fingerprint: sampleDigest(t),
		Files:       3,
		Prefix:      "src/chaincode",
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleManifest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Provider != original.Provider || decoded.Files != original.Files || decoded.Prefix != original.Prefix {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
	if !decoded.Fingerprint.Equal(original.Fingerprint) {
		t.Errorf("fingerprint roundtrip: got %s, want %s", decoded.Fingerprint, original.Fingerprint)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(map[string]any{"zeta": 1, "alpha": 2, "mid": "x"})
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(map[string]any{"mid": "x", "alpha": 2, "zeta": 1})
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestDigestEncodesAsText(t *testing.T) {
	digest := sampleDigest(t)
	data, err := Marshal(sampleManifest{Provider: "sha256", Fingerprint: digest})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"`+digest.String()+`"`) {
		t.Errorf("notation %s should carry the digest as hex text", notation)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	outputs := []sampleOutput{
		{Path: "a.tar.gz", Digest: "00"},
		{Path: "b.tar.zst", Digest: "ff"},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, output := range outputs {
		if err := encoder.Encode(output); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range outputs {
		var got sampleOutput
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if got != want {
			t.Errorf("output %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	data, err := Marshal(sampleOutput{Path: "unit.tar.gz", Digest: "ab"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if generic["path"] != "unit.tar.gz" {
		t.Errorf("json tag name not used as CBOR key: %v", generic)
	}
}

func TestOmitemptyRespected(t *testing.T) {
	with, err := Marshal(sampleManifest{Provider: "sha256", Prefix: "src"})
	if err != nil {
		t.Fatal(err)
	}
	without, err := Marshal(sampleManifest{Provider: "sha256"})
	if err != nil {
		t.Fatal(err)
	}

	if len(without) >= len(with) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes", len(without), len(with))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var manifest sampleManifest
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &manifest); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func BenchmarkMarshal(b *testing.B) {
	manifest := sampleManifest{
		Provider:    "sha256",
		Fingerprint: sampleDigest(b),
		Files:       42,
	}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(manifest)
	}
}
