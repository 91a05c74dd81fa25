package mirror

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CursorFile is the name of the watermark file at the data root.
const CursorFile = "timestamp"

// LoadCursor reads the stored watermark. A missing file means no
// previous run and yields zero.
func LoadCursor(root string) (int64, error) {
	data, err := os.ReadFile(filepath.Join(root, CursorFile))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading cursor: %w", err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing cursor: %w", err)
	}
	return v, nil
}

// SaveCursor atomically replaces the stored watermark.
func SaveCursor(root string, v int64) error {
	dst := filepath.Join(root, CursorFile)
	tmp := fmt.Sprintf("%s.tmp-%s", dst, uuid.NewString())
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(v, 10)+"\n"), 0644); err != nil {
		return fmt.Errorf("writing cursor: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing cursor: %w", err)
	}
	return nil
}
