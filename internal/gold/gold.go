// Package gold implements golden files.
package gold

import (
	"encoding/hex"
	"flag"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const defaultDir = "_golden"

// Update reports whether golden files update is requested.
//
// Call Init() in TestMain to propagate.
var Update bool

// Init should be called in TestMain.
func Init() {
	flag.BoolVar(&Update, "update", false, "update golden files")
}

// Path returns path to golden file.
func Path(elems ...string) string {
	return filepath.Join(
		append([]string{defaultDir}, elems...)...,
	)
}

// ReadFile reads golden file.
func ReadFile(t testing.TB, elems ...string) []byte {
	t.Helper()

	p := Path(elems...)
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("golden file %s: %+v", path.Join(elems...), err)
	}

	return data
}

// Str checks text golden file.
func Str(t testing.TB, s string, name ...string) {
	t.Helper()

	if len(name) == 0 {
		name = []string{"file.txt"}
	}
	check(t, []byte(s), name...)
}

// Bytes checks binary golden file. Data is stored as hex dump, so
// diffs stay readable.
func Bytes(t testing.TB, data []byte, name ...string) {
	t.Helper()

	if len(name) == 0 {
		name = []string{"file"}
	}
	name = append([]string(nil), name...)
	name[len(name)-1] += ".hex"
	check(t, []byte(hex.Dump(data)), name...)
}

func check(t testing.TB, data []byte, elems ...string) {
	t.Helper()

	if Update {
		p := Path(elems...)
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			t.Fatalf("mkdir: %+v", err)
		}
		if err := os.WriteFile(p, data, 0o600); err != nil {
			t.Fatalf("write golden file %s: %+v", p, err)
		}
	}

	require.Equal(t, string(ReadFile(t, elems...)), string(data),
		"golden file %s mismatch", path.Join(elems...),
	)
}
