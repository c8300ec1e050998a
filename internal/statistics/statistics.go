package statistics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Statistics contains all counters for a rename run.
type Statistics struct {
	FilesFound         int64
	FilesProcessed     int64
	FilesRenamed       int64
	FilesSkipped       int64
	FilesWithoutDates  int64
	FilesWithErrors    int64
	RawSiblingsFound   int64
	RawSiblingsRenamed int64
	CollisionsResolved int64
	DirectoriesScanned int64

	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	FilesPerSecond float64
	BytesProcessed int64

	Errors []RunError

	mutex sync.RWMutex
}

// RunError records a single per-file failure.
type RunError struct {
	FilePath  string
	Operation string
	Error     string
	Timestamp time.Time
}

// NewStatistics returns a new Statistics instance.
func NewStatistics() *Statistics {
	return &Statistics{
		StartTime: time.Now(),
		Errors:    make([]RunError, 0),
	}
}

// IncrementFilesFound increases the count of found files by 1.
func (s *Statistics) IncrementFilesFound() {
	atomic.AddInt64(&s.FilesFound, 1)
}

// IncrementFilesProcessed increases the count of processed files by 1.
func (s *Statistics) IncrementFilesProcessed() {
	atomic.AddInt64(&s.FilesProcessed, 1)
}

// IncrementFilesRenamed increases the count of renamed files by 1.
func (s *Statistics) IncrementFilesRenamed() {
	atomic.AddInt64(&s.FilesRenamed, 1)
}

// IncrementFilesSkipped increases the count of skipped files by 1.
func (s *Statistics) IncrementFilesSkipped() {
	atomic.AddInt64(&s.FilesSkipped, 1)
}

// IncrementFilesWithoutDates increases the count of files without a usable date by 1.
func (s *Statistics) IncrementFilesWithoutDates() {
	atomic.AddInt64(&s.FilesWithoutDates, 1)
}

// IncrementFilesWithErrors increases the count of files with errors by 1.
func (s *Statistics) IncrementFilesWithErrors() {
	atomic.AddInt64(&s.FilesWithErrors, 1)
}

// IncrementRawSiblingsFound increases the count of located raw siblings by 1.
func (s *Statistics) IncrementRawSiblingsFound() {
	atomic.AddInt64(&s.RawSiblingsFound, 1)
}

// IncrementRawSiblingsRenamed increases the count of renamed raw siblings by 1.
func (s *Statistics) IncrementRawSiblingsRenamed() {
	atomic.AddInt64(&s.RawSiblingsRenamed, 1)
}

// IncrementCollisionsResolved increases the count of resolved name collisions by 1.
func (s *Statistics) IncrementCollisionsResolved() {
	atomic.AddInt64(&s.CollisionsResolved, 1)
}

// IncrementDirectoriesScanned increases the count of scanned directories by 1.
func (s *Statistics) IncrementDirectoriesScanned() {
	atomic.AddInt64(&s.DirectoriesScanned, 1)
}

// AddBytesProcessed adds the given number of bytes to the total bytes processed.
func (s *Statistics) AddBytesProcessed(bytes int64) {
	atomic.AddInt64(&s.BytesProcessed, bytes)
}

// AddError records an error that occurred during processing.
func (s *Statistics) AddError(filePath, operation, errorMsg string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Errors = append(s.Errors, RunError{
		FilePath:  filePath,
		Operation: operation,
		Error:     errorMsg,
		Timestamp: time.Now(),
	})
}

// Finalize calculates final statistics such as duration and files per second.
func (s *Statistics) Finalize() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)

	processed := atomic.LoadInt64(&s.FilesProcessed)
	if s.Duration.Seconds() > 0 {
		s.FilesPerSecond = float64(processed) / s.Duration.Seconds()
	}
}

// ErrorCount returns the number of recorded errors.
func (s *Statistics) ErrorCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Errors)
}

// FailedPaths returns the paths of all files that failed during the run.
func (s *Statistics) FailedPaths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	paths := make([]string, 0, len(s.Errors))
	for _, err := range s.Errors {
		paths = append(paths, err.FilePath)
	}
	return paths
}

// Summary returns a formatted summary of all statistics.
func (s *Statistics) Summary() string {
	return fmt.Sprintf(`Exifdate Rename Summary:

Files:
		Found: %d
		Processed: %d
		Renamed: %d
		Skipped (already canonical): %d
		Without Dates: %d
		Errors: %d

Raw Siblings:
		Found: %d
		Renamed: %d

Collisions Resolved: %d

Performance:
		Duration: %v
		Files/Second: %.2f
		Bytes Processed: %s

Directories Scanned: %d`,
		atomic.LoadInt64(&s.FilesFound),
		atomic.LoadInt64(&s.FilesProcessed),
		atomic.LoadInt64(&s.FilesRenamed),
		atomic.LoadInt64(&s.FilesSkipped),
		atomic.LoadInt64(&s.FilesWithoutDates),
		atomic.LoadInt64(&s.FilesWithErrors),
		atomic.LoadInt64(&s.RawSiblingsFound),
		atomic.LoadInt64(&s.RawSiblingsRenamed),
		atomic.LoadInt64(&s.CollisionsResolved),
		s.Duration,
		s.FilesPerSecond,
		formatBytes(atomic.LoadInt64(&s.BytesProcessed)),
		atomic.LoadInt64(&s.DirectoriesScanned))
}

// ErrorSummary returns a listing of every failure recorded during the run.
func (s *Statistics) ErrorSummary() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if len(s.Errors) == 0 {
		return "No errors occurred during processing"
	}

	result := fmt.Sprintf("Failed files (%d total):\n", len(s.Errors))
	for _, err := range s.Errors {
		result += fmt.Sprintf("  [%s] %s: %s - %s\n",
			err.Timestamp.Format("15:04:05"),
			err.Operation,
			err.FilePath,
			err.Error)
	}
	return result
}

// formatBytes returns a human-readable string for a byte count.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
