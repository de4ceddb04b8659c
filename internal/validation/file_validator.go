package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "tabclean/internal/errors"
)

// FileValidator provides the file checks shared by the loader and exporters
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path resolves to a readable regular file.
// Failures are FILE_NOT_FOUND errors attributed to stage.
func (v *FileValidator) ValidateFile(stage, path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewFileNotFoundError(stage, path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewFileNotFoundError(stage, path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewFileNotFoundError(stage, path, fmt.Errorf("%s is a directory", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewFileNotFoundError(stage, path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and is writable. Failures are WRITE errors attributed to stage.
func (v *FileValidator) ValidateOutputDirectory(stage, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(stage, dir, err)
	}

	// Verify it's writable by creating a probe file
	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(stage, dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that path can be created as a file: its
// directory is writable and the path itself is not a directory.
func (v *FileValidator) ValidateOutputFile(stage, path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return apperrors.NewWriteError(stage, path, fmt.Errorf("%s is a directory", path))
	}
	return v.ValidateOutputDirectory(stage, filepath.Dir(path))
}

// ValidateExtension checks that path carries one of the given extensions
func (v *FileValidator) ValidateExtension(stage, path string, extensions ...string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == want {
			return nil
		}
	}
	v.logger.Error("Unexpected file extension",
		slog.String("file", path),
		slog.String("extension", ext))
	return apperrors.NewWriteError(stage, path,
		fmt.Errorf("extension %q is not one of %v", ext, extensions))
}
