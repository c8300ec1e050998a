package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.ImageExtensions) != 4 {
		t.Errorf("Expected 4 default image extensions, got %d", len(cfg.ImageExtensions))
	}
	if len(cfg.RawExtensions) != 2 {
		t.Errorf("Expected 2 default raw extensions, got %d", len(cfg.RawExtensions))
	}
	if !cfg.Processing.SkipCanonical {
		t.Error("SkipCanonical should default to true")
	}
	if !cfg.Security.ConfirmBeforeStart {
		t.Error("ConfirmBeforeStart should default to true")
	}
	if cfg.Security.DryRun {
		t.Error("DryRun should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigReadsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "image_extensions:\n" +
		"  - .jpg\n" +
		"security:\n" +
		"  confirm_before_start: false\n" +
		"logging:\n" +
		"  level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.ImageExtensions) != 1 || cfg.ImageExtensions[0] != ".jpg" {
		t.Errorf("ImageExtensions = %v, want [.jpg]", cfg.ImageExtensions)
	}
	if cfg.Security.ConfirmBeforeStart {
		t.Error("ConfirmBeforeStart should be overridden to false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Keys absent from the file keep their defaults.
	if len(cfg.RawExtensions) != 2 {
		t.Errorf("RawExtensions = %v, want defaults", cfg.RawExtensions)
	}
}

func TestValidateNormalizesExtensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImageExtensions = []string{"JPG", ".Jpeg", "png"}
	cfg.RawExtensions = []string{"ORF", "raw"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	wantImages := []string{".jpg", ".jpeg", ".png"}
	for i, want := range wantImages {
		if cfg.ImageExtensions[i] != want {
			t.Errorf("ImageExtensions[%d] = %q, want %q", i, cfg.ImageExtensions[i], want)
		}
	}
	wantRaw := []string{".orf", ".raw"}
	for i, want := range wantRaw {
		if cfg.RawExtensions[i] != want {
			t.Errorf("RawExtensions[%d] = %q, want %q", i, cfg.RawExtensions[i], want)
		}
	}
}

func TestValidateRejectsEmptyExtensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImageExtensions = nil
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty image_extensions")
	}

	cfg = DefaultConfig()
	cfg.RawExtensions = nil
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty raw_extensions")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestValidateClampsNegativeMaxFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Security.MaxFilesPerRun = -5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Security.MaxFilesPerRun != 0 {
		t.Errorf("MaxFilesPerRun = %d, want 0", cfg.Security.MaxFilesPerRun)
	}
}

func TestIsImageExtension(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		ext  string
		want bool
	}{
		{".jpg", true},
		{".JPG", true},
		{".jpeg", true},
		{".png", true},
		{".gif", true},
		{".orf", false},
		{".txt", false},
	}

	for _, tt := range tests {
		if got := cfg.IsImageExtension(tt.ext); got != tt.want {
			t.Errorf("IsImageExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestIsRawExtension(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		ext  string
		want bool
	}{
		{".orf", true},
		{".ORF", true},
		{".raw", true},
		{".jpg", false},
	}

	for _, tt := range tests {
		if got := cfg.IsRawExtension(tt.ext); got != tt.want {
			t.Errorf("IsRawExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
