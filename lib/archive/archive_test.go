// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"filippo.io/age"

	"github.com/jeisc/fabric-sdk-node/lib/testutil"
)

// fileNames returns the sorted names of the non-directory members.
func fileNames(members []Member) []string {
	var names []string
	for _, member := range members {
		if !member.Directory {
			names = append(names, member.Name)
		}
	}
	sort.Strings(names)
	return names
}

func directoryNames(members []Member) []string {
	var names []string
	for _, member := range members {
		if member.Directory {
			names = append(names, member.Name)
		}
	}
	sort.Strings(names)
	return names
}

func requireNames(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func buildMembers(t *testing.T, sourceDir string, options ...Option) []Member {
	t.Helper()
	var buffer bytes.Buffer
	if _, err := Build(context.Background(), sourceDir, &buffer, options...); err != nil {
		t.Fatalf("Build: %v", err)
	}
	codec := newOptions(options).Codec
	members, err := ReadMembers(&buffer, codec)
	if err != nil {
		t.Fatalf("ReadMembers: %v", err)
	}
	return members
}

func TestInclude(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"go source", Entry{Name: "main.go", Kind: KindFile}, true},
		{"yaml", Entry{Name: "config.yaml", Kind: KindFile}, true},
		{"json", Entry{Name: "package.json", Kind: KindFile}, true},
		{"c source", Entry{Name: "lib.c", Kind: KindFile}, true},
		{"c header", Entry{Name: "lib.h", Kind: KindFile}, true},
		{"dockerfile", Entry{Name: "Dockerfile", Kind: KindFile}, true},
		{"dockerfile variant", Entry{Name: "build.Dockerfile.txt", Kind: KindFile}, true},
		{"text", Entry{Name: "notes.txt", Kind: KindFile}, false},
		{"markdown", Entry{Name: "skip.md", Kind: KindFile}, false},
		{"yml is not yaml", Entry{Name: "config.yml", Kind: KindFile}, false},
		{"case sensitive extension", Entry{Name: "MAIN.GO", Kind: KindFile}, false},
		{"case sensitive marker", Entry{Name: "dockerfile", Kind: KindFile}, false},
		{"no extension", Entry{Name: "Makefile", Kind: KindFile}, false},
		{"directory with excluded name", Entry{Name: "notes.txt", Kind: KindDirectory}, true},
		{"plain directory", Entry{Name: "vendor", Kind: KindDirectory}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Include(test.entry); got != test.want {
				t.Errorf("Include(%+v) = %v, want %v", test.entry, got, test.want)
			}
		})
	}
}

func TestAllowedExtensions(t *testing.T) {
	requireNames(t, AllowedExtensions(), []string{".c", ".go", ".h", ".json", ".yaml"})
}

func TestCodecNames(t *testing.T) {
	for _, name := range []string{"gzip", "zstd", "lz4"} {
		t.Run(name, func(t *testing.T) {
			codec, err := ParseCodec(name)
			if err != nil {
				t.Fatalf("ParseCodec(%q): %v", name, err)
			}
			if codec.String() != name {
				t.Errorf("roundtrip: ParseCodec(%q).String() = %q", name, codec.String())
			}
			detected, err := DetectCodec("unit" + codec.Extension())
			if err != nil {
				t.Fatalf("DetectCodec: %v", err)
			}
			if detected != codec {
				t.Errorf("DetectCodec(%s) = %s, want %s", codec.Extension(), detected, codec)
			}
		})
	}

	if codec, err := ParseCodec(""); err != nil || codec != CodecGzip {
		t.Errorf("ParseCodec(\"\") = %s, %v; want gzip", codec, err)
	}
	if _, err := ParseCodec("bzip2"); err == nil {
		t.Error("ParseCodec(bzip2) should fail")
	}
	if _, err := DetectCodec("unit.zip"); err == nil {
		t.Error("DetectCodec(unit.zip) should fail")
	}
	if got := Codec(9).String(); got != "unknown(9)" {
		t.Errorf("Codec(9).String() = %q", got)
	}
}

func TestCodecText(t *testing.T) {
	text, err := CodecZstd.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "zstd" {
		t.Errorf("MarshalText = %q, want zstd", text)
	}

	var codec Codec
	if err := codec.UnmarshalText([]byte("lz4")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if codec != CodecLZ4 {
		t.Errorf("UnmarshalText(lz4) = %s", codec)
	}

	if _, err := Codec(9).MarshalText(); err == nil {
		t.Error("MarshalText should reject an unknown codec")
	}
	if err := codec.UnmarshalText([]byte("bzip2")); err == nil {
		t.Error("UnmarshalText should reject an unknown name")
	}
}

func TestBuildFiltersFiles(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{
		"main.go":     "package main",
		"config.yaml": "key: value",
		"notes.txt":   "not packaged",
		"Dockerfile":  "FROM scratch",
	})

	requireNames(t, fileNames(buildMembers(t, source)), []string{"Dockerfile", "config.yaml", "main.go"})
}

func TestBuildDescendsDirectoryNamedLikeExcludedFile(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{
		"notes.txt/inner.go": "package inner",
		"notes.txt/skip.md":  "# skip",
	})

	members := buildMembers(t, source)
	requireNames(t, fileNames(members), []string{"notes.txt/inner.go"})
	requireNames(t, directoryNames(members), []string{"notes.txt/"})
}

func TestBuildKeepsEmptyDirectories(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{
		"empty/":       "",
		"lib/a.c":      "int a;",
		"lib/a.h":      "int a;",
		"lib/README":   "skip",
		"lib/data.bin": "skip",
	})

	members := buildMembers(t, source)
	requireNames(t, fileNames(members), []string{"lib/a.c", "lib/a.h"})
	requireNames(t, directoryNames(members), []string{"empty/", "lib/"})
}

func TestBuildPrefix(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{"cc/main.go": "package main"})

	members := buildMembers(t, source, WithPrefix("src/github.com/example"))
	requireNames(t, fileNames(members), []string{"src/github.com/example/cc/main.go"})
}

func TestBuildRejectsEscapingPrefix(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{"main.go": "package main"})
	var buffer bytes.Buffer
	if _, err := Build(context.Background(), source, &buffer, WithPrefix("../escape")); err == nil {
		t.Error("Build with an escaping prefix should fail")
	}
}

func TestBuildStats(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{
		"main.go":    "package main",
		"lib/x.json": "{}",
		"skip.md":    "# skip",
	})

	var buffer bytes.Buffer
	stats, err := Build(context.Background(), source, &buffer)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.Files != 2 || stats.Directories != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 2 files, 1 directory, 1 skipped", stats)
	}
	if stats.Bytes != int64(len("package main")+len("{}")) {
		t.Errorf("stats.Bytes = %d", stats.Bytes)
	}
	if stats.Written != int64(buffer.Len()) {
		t.Errorf("stats.Written = %d, buffer holds %d", stats.Written, buffer.Len())
	}
}

func TestBuildCodecsRoundTrip(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{
		"main.go":       strings.Repeat("package main\n", 100),
		"sub/conf.yaml": "a: b",
	})

	for _, codec := range []Codec{CodecGzip, CodecZstd, CodecLZ4} {
		t.Run(codec.String(), func(t *testing.T) {
			members := buildMembers(t, source, WithCodec(codec))
			requireNames(t, fileNames(members), []string{"main.go", "sub/conf.yaml"})
		})
	}
}

func TestBuildNormalizeIsReproducible(t *testing.T) {
	files := map[string]string{
		"main.go":     "package main",
		"lib/util.go": "package lib",
		"Dockerfile":  "FROM scratch",
	}
	first := testutil.TempTree(t, files)
	second := testutil.TempTree(t, files)

	// Give the second tree different timestamps.
	later := time.Now().Add(48 * time.Hour)
	for _, name := range []string{"main.go", "lib/util.go", "Dockerfile", "lib"} {
		if err := os.Chtimes(filepath.Join(second, name), later, later); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}

	var firstBuffer, secondBuffer bytes.Buffer
	if _, err := Build(context.Background(), first, &firstBuffer, WithNormalize(true)); err != nil {
		t.Fatalf("Build(first): %v", err)
	}
	if _, err := Build(context.Background(), second, &secondBuffer, WithNormalize(true)); err != nil {
		t.Fatalf("Build(second): %v", err)
	}
	if !bytes.Equal(firstBuffer.Bytes(), secondBuffer.Bytes()) {
		t.Error("normalized archives of identical trees should be byte-identical")
	}

	members, err := ReadMembers(&firstBuffer, CodecGzip)
	if err != nil {
		t.Fatalf("ReadMembers: %v", err)
	}
	for _, member := range members {
		want := int64(0o644)
		if member.Directory {
			want = 0o755
		}
		if member.Mode != want {
			t.Errorf("%s mode = %o, want %o", member.Name, member.Mode, want)
		}
	}
}

func TestBuildEncrypted(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity: %v", err)
	}
	recipients, err := ParseRecipients([]string{identity.Recipient().String(), ""})
	if err != nil {
		t.Fatalf("ParseRecipients: %v", err)
	}
	if len(recipients) != 1 {
		t.Fatalf("ParseRecipients returned %d recipients, want 1", len(recipients))
	}

	source := testutil.TempTree(t, map[string]string{"main.go": "package main", "skip.md": "x"})

	var buffer bytes.Buffer
	if _, err := Build(context.Background(), source, &buffer, WithRecipients(recipients...)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	ciphertext := buffer.Bytes()

	if _, err := ReadMembers(bytes.NewReader(ciphertext), CodecGzip); err == nil {
		t.Error("reading an encrypted archive without an identity should fail")
	}

	members, err := ReadMembers(bytes.NewReader(ciphertext), CodecGzip, identity)
	if err != nil {
		t.Fatalf("ReadMembers with identity: %v", err)
	}
	requireNames(t, fileNames(members), []string{"main.go"})
}

func TestParseRecipientsInvalid(t *testing.T) {
	if _, err := ParseRecipients([]string{"age1notakey"}); err == nil {
		t.Error("ParseRecipients should reject a malformed key")
	}
}

// failingWriter accepts limit bytes and then fails every write.
type failingWriter struct {
	limit int
	err   error
}

func (w *failingWriter) Write(data []byte) (int, error) {
	if len(data) <= w.limit {
		w.limit -= len(data)
		return len(data), nil
	}
	accepted := w.limit
	w.limit = 0
	return accepted, w.err
}

func TestWriteIdentity(t *testing.T) {
	name := filepath.Join(t.TempDir(), "identity.txt")
	publicKey, err := WriteIdentity(name)
	if err != nil {
		t.Fatalf("WriteIdentity: %v", err)
	}

	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("identity mode = %v, want 0600", info.Mode().Perm())
	}

	file, err := os.Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer file.Close()
	identities, err := age.ParseIdentities(file)
	if err != nil {
		t.Fatalf("ParseIdentities: %v", err)
	}

	recipients, err := ParseRecipients([]string{publicKey})
	if err != nil {
		t.Fatalf("ParseRecipients: %v", err)
	}
	source := testutil.TempTree(t, map[string]string{"main.go": "package main"})
	var encrypted bytes.Buffer
	if _, err := Build(context.Background(), source, &encrypted, WithRecipients(recipients...)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	members, err := ReadMembers(&encrypted, CodecGzip, identities...)
	if err != nil {
		t.Fatalf("ReadMembers with generated identity: %v", err)
	}
	if len(members) != 1 || members[0].Name != "main.go" {
		t.Errorf("members = %+v", members)
	}

	if _, err := WriteIdentity(name); !errors.Is(err, fs.ErrExist) {
		t.Errorf("second WriteIdentity error = %v, want ErrExist", err)
	}
}

func TestBuildSinkFailureIsWriteStage(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{
		"main.go": strings.Repeat("incompressible? no, but long enough\n", 4096),
	})
	failure := errors.New("disk full")

	_, err := Build(context.Background(), source, &failingWriter{limit: 16, err: failure})
	if err == nil {
		t.Fatal("Build should fail when the sink fails")
	}
	var pipelineErr *PipelineError
	if !errors.As(err, &pipelineErr) {
		t.Fatalf("error = %T %v, want *PipelineError", err, err)
	}
	if pipelineErr.Stage != StageWrite {
		t.Errorf("stage = %s, want %s", pipelineErr.Stage, StageWrite)
	}
	if !errors.Is(err, failure) {
		t.Errorf("error should wrap the sink error: %v", err)
	}
}

func TestBuildMissingSource(t *testing.T) {
	var buffer bytes.Buffer
	_, err := Build(context.Background(), filepath.Join(t.TempDir(), "missing"), &buffer)
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("error = %T %v, want *fs.PathError", err, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist: %v", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{"main.go": "package main"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buffer bytes.Buffer
	_, err := Build(ctx, source, &buffer)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build error = %v, want context.Canceled", err)
	}
}

func TestWriteFileLeavesNoPartialOutput(t *testing.T) {
	outputDir := t.TempDir()
	destination := filepath.Join(outputDir, "unit.tar.gz")

	_, err := WriteFile(context.Background(), filepath.Join(t.TempDir(), "missing"), destination)
	if err == nil {
		t.Fatal("WriteFile should fail for a missing source")
	}

	entries, readErr := os.ReadDir(outputDir)
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("output directory should be empty after failure, has %d entries", len(entries))
	}
}

func TestWriteFileUnwritableDestination(t *testing.T) {
	source := testutil.TempTree(t, map[string]string{"main.go": "package main"})
	destination := filepath.Join(t.TempDir(), "no-such-dir", "unit.tar.gz")

	_, err := WriteFile(context.Background(), source, destination)
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("error = %T %v, want *fs.PathError", err, err)
	}
}

func TestWriteFileUnreadableSource(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	source := testutil.TempTree(t, map[string]string{"main.go": "package main", "locked.go": "package main"})
	locked := filepath.Join(source, "locked.go")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o644) })

	destination := filepath.Join(t.TempDir(), "unit.tar.gz")
	_, err := WriteFile(context.Background(), source, destination)
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("WriteFile error = %v, want permission error", err)
	}
	if _, statErr := os.Stat(destination); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("destination should not exist after failure: %v", statErr)
	}
}

func TestGenerateTarGzEndToEnd(t *testing.T) {
	root := testutil.TempTree(t, map[string]string{
		"chaincode/main.go": "package main",
		"chaincode/skip.md": "# readme",
	})
	destination := filepath.Join(t.TempDir(), "chaincode.tar.gz")

	job := GenerateTarGz(root, destination)
	testutil.RequireClosed(t, job.Done(), 10*time.Second, "archive job")

	resolved, err := job.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if resolved != destination {
		t.Errorf("job resolved to %q, want %q", resolved, destination)
	}
	if stats := job.Stats(); stats.Files != 1 {
		t.Errorf("stats.Files = %d, want 1", stats.Files)
	}

	info, err := os.Stat(destination)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("archive mode = %o, want 644", info.Mode().Perm())
	}

	members, err := ReadMembersFile(destination)
	if err != nil {
		t.Fatalf("ReadMembersFile: %v", err)
	}
	requireNames(t, fileNames(members), []string{"chaincode/main.go"})
}

func TestStartFailureResolvesWithError(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "unit.tar.zst")
	job := Start(context.Background(), filepath.Join(t.TempDir(), "missing"), destination, WithCodec(CodecZstd))

	path, err := job.Wait()
	if err == nil {
		t.Fatal("Wait should report the build failure")
	}
	if path != "" {
		t.Errorf("failed job resolved to %q, want empty", path)
	}
	if stats := job.Stats(); stats != (Stats{}) {
		t.Errorf("failed job stats = %+v, want zero", stats)
	}
}
