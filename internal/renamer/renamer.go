package renamer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sromeroi/exifdate-folder/internal/config"
	"github.com/sromeroi/exifdate-folder/internal/extractor"
	"github.com/sromeroi/exifdate-folder/internal/logger"
	"github.com/sromeroi/exifdate-folder/internal/scanner"
	"github.com/sromeroi/exifdate-folder/internal/statistics"
)

// TargetLayout is the filename layout derived from the EXIF timestamp.
const TargetLayout = "20060102_150405"

// canonicalPattern matches filenames already in the desired output format.
var canonicalPattern = regexp.MustCompile(`^\d{8}_\d{6}\.\w+$`)

// Status describes the outcome of processing one candidate.
type Status int

const (
	StatusRenamed Status = iota
	StatusSkipped
	StatusFailed
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case StatusRenamed:
		return "RENAMED"
	case StatusSkipped:
		return "SKIPPED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Result describes the outcome of one rename attempt. A failed raw sibling
// rename is recorded in RawErr without rolling back the completed image
// rename.
type Result struct {
	Source    string
	Target    string
	RawSource string
	RawTarget string
	Status    Status
	Suffix    int
	Date      *extractor.ExtractedDate
	Err       error
	RawErr    error
}

// Renamer processes candidates one at a time: extract a timestamp, derive a
// collision-free target name, rename the image and any matching raw sibling.
type Renamer struct {
	config    *config.Config
	logger    *logrus.Logger
	stats     *statistics.Statistics
	extractor extractor.DateExtractor
	dryRun    bool
}

// NewRenamer returns a new Renamer.
func NewRenamer(
	cfg *config.Config,
	logger *logrus.Logger,
	stats *statistics.Statistics,
	dateExtractor extractor.DateExtractor,
) *Renamer {
	return &Renamer{
		config:    cfg,
		logger:    logger,
		stats:     stats,
		extractor: dateExtractor,
		dryRun:    cfg.Security.DryRun,
	}
}

// IsCanonical reports whether a filename already matches the output format.
func IsCanonical(name string) bool {
	return canonicalPattern.MatchString(name)
}

// Process handles a single candidate and returns its Result. All failures
// are local to the candidate; processing of the batch continues regardless.
func (r *Renamer) Process(cand scanner.Candidate) Result {
	r.stats.IncrementFilesProcessed()
	res := Result{Source: cand.Path}

	if r.config.Processing.SkipCanonical && IsCanonical(cand.Name) {
		r.logger.Debugf("Skipping %s (already in the desired format)", cand.Path)
		r.stats.IncrementFilesSkipped()
		res.Status = StatusSkipped
		return res
	}

	date, err := r.extractor.ExtractDate(cand.Path)
	if err != nil {
		logger.WithFileOperation(r.logger, cand.Path, "date_extraction").Warnf("Could not extract date: %v", err)
		r.stats.IncrementFilesWithoutDates()
		r.stats.AddError(cand.Path, "date_extraction", err.Error())
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Date = date

	stem := date.Date.Format(TargetLayout)
	ext := strings.ToLower(filepath.Ext(cand.Name))

	target, suffix, err := r.resolveTarget(cand.Dir, stem, ext, 0)
	if err != nil {
		logger.WithFileOperation(r.logger, cand.Path, "path_generation").Errorf("Could not derive target name: %v", err)
		r.stats.IncrementFilesWithErrors()
		r.stats.AddError(cand.Path, "path_generation", err.Error())
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Target = target
	res.Suffix = suffix
	if suffix > 0 {
		r.stats.IncrementCollisionsResolved()
	}

	if info, err := os.Stat(cand.Path); err == nil {
		r.stats.AddBytesProcessed(info.Size())
	}

	if err := r.rename(cand.Path, target); err != nil {
		logger.WithFileOperation(r.logger, cand.Path, "rename").Errorf("Could not rename to %s: %v", target, err)
		r.stats.IncrementFilesWithErrors()
		r.stats.AddError(cand.Path, "rename", err.Error())
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	r.stats.IncrementFilesRenamed()
	res.Status = StatusRenamed
	r.logger.Infof("Renamed %s -> %s", cand.Name, filepath.Base(target))

	r.processRawSibling(cand, stem, suffix, &res)
	return res
}

// processRawSibling locates a raw-format file sharing the image's base name
// and renames it with the same derived date and suffix. The image rename has
// already completed and is never rolled back.
func (r *Renamer) processRawSibling(cand scanner.Candidate, stem string, suffix int, res *Result) {
	base := strings.TrimSuffix(cand.Name, filepath.Ext(cand.Name))

	var rawPath string
	for _, rawExt := range r.config.RawExtensions {
		rawPath = FindInsensitive(cand.Dir, base+rawExt)
		if rawPath != "" {
			break
		}
	}
	if rawPath == "" {
		return
	}

	r.stats.IncrementRawSiblingsFound()
	res.RawSource = rawPath

	rawExt := strings.ToLower(filepath.Ext(rawPath))
	rawTarget, _, err := r.resolveTarget(cand.Dir, stem, rawExt, suffix)
	if err != nil {
		logger.WithFileOperation(r.logger, rawPath, "path_generation_raw").Errorf("Could not derive raw target name: %v", err)
		r.stats.IncrementFilesWithErrors()
		r.stats.AddError(rawPath, "path_generation_raw", err.Error())
		res.RawErr = err
		return
	}
	res.RawTarget = rawTarget

	if err := r.rename(rawPath, rawTarget); err != nil {
		logger.WithFileOperation(r.logger, rawPath, "rename_raw").Errorf("Could not rename raw sibling to %s: %v", rawTarget, err)
		r.stats.IncrementFilesWithErrors()
		r.stats.AddError(rawPath, "rename_raw", err.Error())
		res.RawErr = err
		return
	}

	r.stats.IncrementRawSiblingsRenamed()
	r.logger.Infof("Renamed raw sibling %s -> %s", filepath.Base(rawPath), filepath.Base(rawTarget))
}

// resolveTarget probes for a free target path, appending _N (N incrementing
// from startSuffix) while any filesystem entry occupies the candidate name.
// A suffix of 0 means the bare timestamp name. A probe error other than
// not-exist fails the file instead of advancing the suffix.
func (r *Renamer) resolveTarget(dir, stem, ext string, startSuffix int) (string, int, error) {
	suffix := startSuffix
	for {
		name := stem
		if suffix > 0 {
			name = fmt.Sprintf("%s_%d", stem, suffix)
		}
		path := filepath.Join(dir, name+ext)
		_, err := os.Lstat(path)
		if os.IsNotExist(err) {
			return path, suffix, nil
		}
		if err != nil {
			return "", 0, err
		}
		suffix++
	}
}

// rename performs the filesystem rename, or only logs it in dry-run mode.
func (r *Renamer) rename(source, target string) error {
	if r.dryRun {
		r.logger.Infof("DRY-RUN: Would rename %s -> %s", source, target)
		return nil
	}
	return os.Rename(source, target)
}
