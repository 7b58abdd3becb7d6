package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBasename is the file name used when none is given
const DefaultBasename = "export"

// FileSink writes export documents into one directory
type FileSink struct {
	dir string
	log zerolog.Logger
}

// NewFileSink creates a sink writing into dir, creating it if needed
func NewFileSink(dir string, log zerolog.Logger) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &FileSink{
		dir: dir,
		log: log.With().Str("component", "export_sink").Logger(),
	}, nil
}

// Dir returns the target directory
func (s *FileSink) Dir() string {
	return s.dir
}

// Write stores data as fileName inside the sink directory, replacing any
// previous file of that name. It returns the full path written.
func (s *FileSink) Write(fileName string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(fileName))
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}

	s.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Export written")
	return path, nil
}

// FileName builds <basename>.<ext>. The basename is reduced to letters, digits,
// dot, dash and underscore; an empty result falls back to DefaultBasename.
func FileName(basename string, f Format) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '-'
	}, strings.TrimSpace(basename))
	clean = strings.Trim(clean, ".")
	if clean == "" {
		clean = DefaultBasename
	}
	return clean + f.Extension()
}
