// Package testutil provides small helpers shared by this module's
// round-trip tests: unique on-disk fixture paths and readable diffs when a
// decoded value disagrees with its input.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// TempFile creates a new, uniquely named file under t.TempDir() and returns
// it open for reading and writing. The file and its directory are removed
// automatically when the test completes.
func TempFile(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), uuid.NewString()+".native")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		t.Fatalf("testutil: creating fixture file: %s", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// Diff renders a unified diff between want and got, for failure messages
// comparing two textual dumps (e.g. two %#v or %v renderings) where a raw
// string comparison would be unreadable.
func Diff(name string, want, got string) string {
	edits := myers.ComputeEdits(span.URIFromPath(name), want, got)
	return fmt.Sprint(gotextdiff.ToUnified("want/"+name, "got/"+name, want, edits))
}
