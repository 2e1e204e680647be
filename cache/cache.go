package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

// SchemaVersion is the supported cache format version. A cache file whose
// embedded version does not compare equal under semver is rejected
// outright rather than migrated, per spec.md §9's cache format note.
const SchemaVersion = "v1.0.0"

// Read loads and validates a cache file at path. Any I/O, decode, or
// version-mismatch error is returned as-is; the caller (the root psf
// package) is responsible for logging it and falling back to a slow
// parse, per spec.md §4.5's "any I/O or deserialization error is
// swallowed (logged)" contract — this package itself never logs, keeping
// it silent like the rest of the core.
func Read(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	d, err := Unmarshal(raw)
	if err != nil {
		return nil, err
	}

	if !semver.IsValid(d.SchemaVersion) || semver.Compare(d.SchemaVersion, SchemaVersion) != 0 {
		return nil, fmt.Errorf("cache: unsupported schema version %q (want %q)", d.SchemaVersion, SchemaVersion)
	}

	return d, nil
}

// Write atomically replaces the cache file at path with d's encoding: the
// snapshot is written to a sibling temp file named with a random uuid and
// then renamed into place, so a reader racing a writer for the same path
// never observes a partially written cache.
func Write(path string, d *Dataset) error {
	d.SchemaVersion = SchemaVersion

	data := Marshal(d)

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	return nil
}
