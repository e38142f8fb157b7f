// Package inbox stores uploaded producer databases as received and later
// imports their weather rows into telemetry.
package inbox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"energy-report-service/pkg/common"
)

var ErrEmptyUpload = errors.New("empty upload")

type FileDrop struct {
	Dir string
}

func NewFileDrop(dir string) *FileDrop {
	return &FileDrop{Dir: dir}
}

// Store copies r into Dir under "<uuid>_<base name>" and returns the stored
// path. The file only appears under its final name once fully written.
func (d *FileDrop) Store(name string, r io.Reader) (string, error) {
	logger := common.GetLoggerWith(common.LoggerNameInbox)

	if err := os.MkdirAll(d.Dir, 0o775); err != nil {
		return "", fmt.Errorf("create inbox dir: %w", err)
	}

	base := sanitize(name)
	target := filepath.Join(d.Dir, uuid.NewString()+"_"+base)

	tmp, err := os.CreateTemp(d.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written == 0 {
		return "", ErrEmptyUpload
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move upload: %w", err)
	}

	logger.Info("Stored upload", zap.String("name", base), zap.String("path", target), zap.Int64("bytes", written))
	return target, nil
}

func sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		return "upload.sqlite"
	}
	return base
}
