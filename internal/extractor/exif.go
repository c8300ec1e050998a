package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/sirupsen/logrus"
)

// EXIFExtractor extracts capture dates from image files by decoding EXIF
// metadata in-process.
type EXIFExtractor struct {
	logger     *logrus.Logger
	extensions []string
}

// dateTagPriority lists the tags scanned for a usable timestamp, most
// specific first. The first tag carrying a well-formed value wins.
var dateTagPriority = []struct {
	field  exif.FieldName
	source DateSource
}{
	{exif.DateTimeOriginal, DateSourceDateTimeOriginal},
	{exif.DateTimeDigitized, DateSourceDateTimeDigitized},
	{exif.DateTime, DateSourceDateTime},
}

// NewEXIFExtractor returns a new EXIFExtractor supporting the given
// file extensions.
func NewEXIFExtractor(logger *logrus.Logger, extensions []string) *EXIFExtractor {
	return &EXIFExtractor{
		logger:     logger,
		extensions: extensions,
	}
}

// ExtractDate returns the capture date of an image file from its EXIF
// metadata. A file without an EXIF block yields ErrNoMetadata; a file whose
// tags hold no well-formed timestamp yields ErrNoDateTag.
func (e *EXIFExtractor) ExtractDate(filePath string) (*ExtractedDate, error) {
	if !e.SupportsFile(filePath) {
		return nil, fmt.Errorf("file type not supported by extractor: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}

	for _, tag := range dateTagPriority {
		field, err := x.Get(tag.field)
		if err != nil {
			continue
		}
		value, err := field.StringVal()
		if err != nil {
			continue
		}
		if date, ok := ParseEXIFDate(value); ok {
			e.logger.Debugf("Extracted %s from EXIF: %v for file %s", tag.source, date, filePath)
			return &ExtractedDate{Date: date, Source: tag.source, Raw: value}, nil
		}
	}

	return nil, ErrNoDateTag
}

// SupportsFile reports whether the file is supported by this extractor.
func (e *EXIFExtractor) SupportsFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return slices.Contains(e.extensions, ext)
}
