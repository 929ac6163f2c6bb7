// Package libarchive reads and writes cobalt library archives: zip files
// holding a manifest, the serialized symbol table and the compiled object.
package libarchive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cobalt-lang/cobalt/internal/config"
	"github.com/cobalt-lang/cobalt/internal/scope"
)

const (
	Extension = ".colib"

	manifestEntry = "manifest"
	symbolsEntry  = "symbols"
	objectEntry   = "object"
)

var ErrInvalidManifest = errors.New("invalid library manifest")

type Library struct {
	Name    string
	Version *semver.Version
	Links   []string // native libraries the object must be linked against
	Symbols scope.Module
	Object  []byte
}

// FileName is the name a library is stored under: NAME-VERSION.colib.
func (lib *Library) FileName() string {
	return fmt.Sprintf("%s-%s%s", lib.Name, lib.Version, Extension)
}

func Marshal(lib *Library) ([]byte, error) {
	if lib.Name == "" || strings.ContainsAny(lib.Name, "-/\\") {
		return nil, fmt.Errorf("%w: bad library name %q", ErrInvalidManifest, lib.Name)
	}
	if lib.Version == nil {
		return nil, fmt.Errorf("%w: library %s has no version", ErrInvalidManifest, lib.Name)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	if err := writeZipEntry(zw, manifestEntry, marshalManifest(lib)); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, symbolsEntry, scope.Encode(lib.Symbols)); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, objectEntry, lib.Object); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte) (*Library, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	manifest, err := readZipEntry(fileMap, manifestEntry)
	if err != nil {
		return nil, err
	}
	lib, err := unmarshalManifest(manifest)
	if err != nil {
		return nil, err
	}

	symbols, err := readZipEntry(fileMap, symbolsEntry)
	if err != nil {
		return nil, err
	}
	if lib.Symbols, err = scope.Decode(symbols); err != nil {
		return nil, fmt.Errorf("library %s: %w", lib.Name, err)
	}

	if lib.Object, err = readZipEntry(fileMap, objectEntry); err != nil {
		return nil, err
	}
	return lib, nil
}

// Save writes lib to path.
func Save(path string, lib *Library) error {
	data, err := Marshal(lib)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Open reads the library stored at path.
func Open(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lib, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// The manifest uses the env file syntax: one KEY=VALUE per line.
func marshalManifest(lib *Library) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name=%s\n", lib.Name)
	fmt.Fprintf(&sb, "version=%s\n", lib.Version)
	if len(lib.Links) > 0 {
		fmt.Fprintf(&sb, "links=%s\n", strings.Join(lib.Links, ","))
	}
	return []byte(sb.String())
}

func unmarshalManifest(data []byte) (*Library, error) {
	fields, err := config.ParseEnv(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	name := fields["name"]
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidManifest)
	}
	version, err := semver.NewVersion(fields["version"])
	if err != nil {
		return nil, fmt.Errorf("%w: library %s: version %q: %w", ErrInvalidManifest, name, fields["version"], err)
	}

	lib := &Library{Name: name, Version: version}
	if links := fields["links"]; links != "" {
		lib.Links = strings.Split(links, ",")
	}
	return lib, nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
