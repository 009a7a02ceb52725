package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DMarby/placeholder/internal/cache"
)

func TestFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	provider, err := New(filepath.Join(dir, "cache"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("get item", func(t *testing.T) {
		if err := provider.Set(ctx, "200.100.PNG", []byte("bar")); err != nil {
			t.Fatal(err)
		}

		data, err := provider.Get(ctx, "200.100.PNG")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "bar" {
			t.Fatal("wrong data")
		}
	})

	t.Run("get nonexistant item", func(t *testing.T) {
		if _, err := provider.Get(ctx, "notfound"); err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	t.Run("expired item is removed", func(t *testing.T) {
		provider.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { provider.now = time.Now }()

		if _, err := provider.Get(ctx, "200.100.PNG"); err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "cache", "200.100.PNG")); !os.IsNotExist(err) {
			t.Fatal("expired file still exists")
		}
	})

	t.Run("rejects keys with path separators", func(t *testing.T) {
		for _, key := range []string{"", "..", "../escape", "a/b"} {
			if err := provider.Set(ctx, key, []byte("x")); err != cache.ErrInvalidKey {
				t.Errorf("%q: wrong error %s", key, err)
			}
		}
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(dir, "cache"))
		if err != nil {
			t.Fatal(err)
		}

		for _, entry := range entries {
			if filepath.Ext(entry.Name()) != ".PNG" {
				t.Errorf("unexpected file %s", entry.Name())
			}
		}
	})
}

func TestNewWithoutPath(t *testing.T) {
	if _, err := New("", time.Hour); err == nil {
		t.Fatal("no error")
	}
}
