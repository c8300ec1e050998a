package extractor

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	exiftool "github.com/barasher/go-exiftool"
	"github.com/sirupsen/logrus"
)

// ExiftoolExtractor extracts capture dates by asking the external exiftool
// binary. It covers formats the in-process decoder cannot read, at the cost
// of spawning a process, and is only consulted as a fallback.
type ExiftoolExtractor struct {
	logger     *logrus.Logger
	extensions []string
}

// exiftool reports tags under its own composite names.
var exiftoolTagPriority = []struct {
	key    string
	source DateSource
}{
	{"DateTimeOriginal", DateSourceDateTimeOriginal},
	{"CreateDate", DateSourceDateTimeDigitized},
	{"ModifyDate", DateSourceDateTime},
}

// NewExiftoolExtractor returns a new ExiftoolExtractor supporting the given
// file extensions.
func NewExiftoolExtractor(logger *logrus.Logger, extensions []string) *ExiftoolExtractor {
	return &ExiftoolExtractor{
		logger:     logger,
		extensions: extensions,
	}
}

// ExtractDate returns the capture date reported by the exiftool binary.
func (e *ExiftoolExtractor) ExtractDate(filePath string) (*ExtractedDate, error) {
	if !e.SupportsFile(filePath) {
		return nil, fmt.Errorf("file type not supported by extractor: %s", filePath)
	}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	defer et.Close()

	files := et.ExtractMetadata(filePath)
	if len(files) == 0 {
		return nil, ErrNoMetadata
	}
	if files[0].Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, files[0].Err)
	}
	if len(files[0].Fields) == 0 {
		return nil, ErrNoMetadata
	}

	for _, tag := range exiftoolTagPriority {
		value, err := files[0].GetString(tag.key)
		if err != nil {
			continue
		}
		if date, ok := ParseEXIFDate(value); ok {
			e.logger.Debugf("Extracted %s via exiftool: %v for file %s", tag.source, date, filePath)
			return &ExtractedDate{Date: date, Source: tag.source, Raw: value}, nil
		}
	}

	return nil, ErrNoDateTag
}

// SupportsFile reports whether the file is supported by this extractor.
func (e *ExiftoolExtractor) SupportsFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return slices.Contains(e.extensions, ext)
}

// ChainExtractor tries each extractor in order and returns the first
// successful extraction. The last error is returned when all fail.
type ChainExtractor struct {
	extractors []DateExtractor
}

// NewChainExtractor returns a ChainExtractor over the given extractors.
func NewChainExtractor(extractors ...DateExtractor) *ChainExtractor {
	return &ChainExtractor{extractors: extractors}
}

// ExtractDate tries each extractor in order.
func (c *ChainExtractor) ExtractDate(filePath string) (*ExtractedDate, error) {
	var lastErr error = ErrNoMetadata
	for _, ex := range c.extractors {
		if !ex.SupportsFile(filePath) {
			continue
		}
		date, err := ex.ExtractDate(filePath)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// SupportsFile reports whether any chained extractor supports the file.
func (c *ChainExtractor) SupportsFile(filePath string) bool {
	for _, ex := range c.extractors {
		if ex.SupportsFile(filePath) {
			return true
		}
	}
	return false
}
