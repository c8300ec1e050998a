package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sromeroi/exifdate-folder/internal/config"
	"github.com/sromeroi/exifdate-folder/internal/statistics"
)

var (
	// ErrNotAnImage is returned when a single-file argument does not carry
	// an image extension. The CLI maps it to a distinct exit status.
	ErrNotAnImage = errors.New("not an image file")
	// ErrPathNotFound is returned when the argument is neither a file nor
	// a directory.
	ErrPathNotFound = errors.New("path does not exist")
)

// Candidate describes a single image file queued for renaming.
type Candidate struct {
	Name string // base filename
	Dir  string // containing folder
	Path string // full path
}

// Scanner resolves a command-line argument into a flat list of candidate
// image files.
type Scanner struct {
	config *config.Config
	logger *logrus.Logger
	stats  *statistics.Statistics
}

// NewScanner returns a new Scanner.
func NewScanner(cfg *config.Config, logger *logrus.Logger, stats *statistics.Statistics) *Scanner {
	return &Scanner{
		config: cfg,
		logger: logger,
		stats:  stats,
	}
}

// Resolve builds the candidate list for the given path. A directory is walked
// recursively; a file is validated against the image extension list.
func (s *Scanner) Resolve(path string) ([]Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return s.walkDirectory(path)
	}

	if !s.isImage(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	s.stats.IncrementFilesFound()
	return []Candidate{{
		Name: filepath.Base(abs),
		Dir:  filepath.Dir(abs),
		Path: abs,
	}}, nil
}

// walkDirectory recursively enumerates image files under root.
func (s *Scanner) walkDirectory(root string) ([]Candidate, error) {
	var candidates []Candidate

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Warnf("Error accessing path %s: %v", path, err)
			return nil
		}

		if info.IsDir() {
			s.stats.IncrementDirectoriesScanned()
			return nil
		}

		if !s.isImage(path) {
			return nil
		}

		candidates = append(candidates, Candidate{
			Name: info.Name(),
			Dir:  filepath.Dir(path),
			Path: path,
		})
		s.stats.IncrementFilesFound()

		if s.config.Security.MaxFilesPerRun > 0 && len(candidates) >= s.config.Security.MaxFilesPerRun {
			s.logger.Infof("Reached maximum files limit (%d), stopping discovery", s.config.Security.MaxFilesPerRun)
			return filepath.SkipAll
		}

		return nil
	})

	return candidates, err
}

// isImage reports whether the filename carries a configured image extension.
func (s *Scanner) isImage(path string) bool {
	return s.config.IsImageExtension(strings.ToLower(filepath.Ext(path)))
}
