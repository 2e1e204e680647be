package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/psflib/psf"
)

func TestDatasetSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.psf")

	content := `HEADER
"PSFversion" "1.00"
TYPE
"float" FLOAT
SWEEP
"time" "float"
TRACE
"v1" "float"
"v2" "float"
VALUE
"time" 0.0
"v1" 1.0
"v2" 2.0
"time" 1.0
"v1" 1.1
"v2" 2.1
END
`

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ds, err := psf.Load(path, psf.WithCache(false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := datasetSize(ds); got <= 0 {
		t.Errorf("datasetSize = %d, want a positive estimate", got)
	}
}
