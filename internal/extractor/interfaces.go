package extractor

import (
	"errors"
	"regexp"
	"time"
)

// EXIFDateLayout is the timestamp layout used by EXIF date tags.
const EXIFDateLayout = "2006:01:02 15:04:05"

// exifDatePattern matches a well-formed EXIF timestamp value. Tag values not
// matching this pattern are ignored even when the tag itself is present.
var exifDatePattern = regexp.MustCompile(`^\d{4}:\d{2}:\d{2} \d{2}:\d{2}:\d{2}$`)

var (
	// ErrNoMetadata is returned when a file carries no EXIF block at all.
	ErrNoMetadata = errors.New("no EXIF metadata found")
	// ErrNoDateTag is returned when metadata is present but no tag yields a
	// well-formed timestamp.
	ErrNoDateTag = errors.New("no valid EXIF date tag found")
)

// DateExtractor is the interface for extracting capture dates from files.
type DateExtractor interface {
	ExtractDate(filePath string) (*ExtractedDate, error)
	SupportsFile(filePath string) bool
}

// DateSource identifies the tag that supplied the extracted date.
type DateSource int

const (
	DateSourceUnknown DateSource = iota
	DateSourceDateTimeOriginal
	DateSourceDateTimeDigitized
	DateSourceDateTime
)

// ExtractedDate contains the extracted date, its source tag and the raw
// tag value.
type ExtractedDate struct {
	Date   time.Time
	Source DateSource
	Raw    string
}

// String returns a human-readable description of the date source.
func (ds DateSource) String() string {
	switch ds {
	case DateSourceDateTimeOriginal:
		return "EXIF DateTimeOriginal"
	case DateSourceDateTimeDigitized:
		return "EXIF DateTimeDigitized"
	case DateSourceDateTime:
		return "EXIF DateTime"
	default:
		return "Unknown"
	}
}

// ParseEXIFDate validates an EXIF tag value against the expected pattern and
// parses it in local time. Returns the zero time and false for any value that
// does not match.
func ParseEXIFDate(value string) (time.Time, bool) {
	if !exifDatePattern.MatchString(value) {
		return time.Time{}, false
	}
	tm, err := time.ParseInLocation(EXIFDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}
