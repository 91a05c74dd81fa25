package sharded

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gosimple/unidecode"
)

// Writer persists one JSON document per package under
// <root>/<shard>/<name>.json, where the shard is the first width
// characters of the ASCII-transliterated package name.
type Writer struct {
	root  string
	width int
}

func NewWriter(root string, width int) (*Writer, error) {
	if width <= 0 {
		width = 1
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data root: %w", err)
	}
	return &Writer{root: root, width: width}, nil
}

func (w *Writer) Root() string {
	return w.root
}

// Path returns the location a package would be written to.
func (w *Writer) Path(name string) string {
	name = Filename(name)
	return filepath.Join(w.root, w.shard(name), name+".json")
}

// Filename transliterates a package name to ASCII so it is safe to use
// as a path component.
func Filename(name string) string {
	return unidecode.Unidecode(name)
}

func (w *Writer) shard(name string) string {
	if len(name) > w.width {
		name = name[:w.width]
	}
	if name == "" {
		return "_"
	}
	return name
}

// Write marshals v with stable key ordering and atomically replaces the
// package's file. A reader never observes a partially written document.
func (w *Writer) Write(ctx context.Context, name string, v any) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("pkg", name)

	dst := w.Path(name)
	// concurrent writers may race on shard creation, MkdirAll is
	// idempotent so whoever loses simply carries on
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("creating shard dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling record: %w", err)
	}
	data = append(data, '\n')

	tmp := fmt.Sprintf("%s.tmp-%s", dst, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("writing record: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replacing record: %w", err)
	}

	log.V(3).Info("wrote record", "path", dst, "bytes", len(data))
	return dst, nil
}
