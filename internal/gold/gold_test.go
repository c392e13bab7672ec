package gold_test

import (
	"os"
	"testing"

	"github.com/go-faster/cstr/internal/gold"
)

func TestStr(t *testing.T) {
	gold.Str(t, "Hello, world!\n", "hello.txt")
}

func TestBytes(t *testing.T) {
	gold.Bytes(t, append([]byte{1, 2, 3}, "Hi!"...))
}

func TestBytesName(t *testing.T) {
	name := []string{"file"}
	gold.Bytes(t, append([]byte{1, 2, 3}, "Hi!"...), name...)
	gold.Bytes(t, append([]byte{1, 2, 3}, "Hi!"...), name...)
	if name[0] != "file" {
		t.Fatalf("name changed to %q", name[0])
	}
}

func TestMain(m *testing.M) {
	// Explicitly registering flags for golden files.
	gold.Init()

	os.Exit(m.Run())
}
