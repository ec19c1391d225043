package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles export file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateLoadOutputDir creates a directory for the exports of one dataset load
func (om *OutputManager) CreateLoadOutputDir(loadID string) (string, error) {
	if loadID == "" {
		loadID = "unversioned"
	}
	loadDir := filepath.Join(om.BaseOutputDir, filepath.Base(loadID))

	err := os.MkdirAll(loadDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	return loadDir, nil
}

// GetOutputFilePath generates a full path for an export file
func (om *OutputManager) GetOutputFilePath(loadID, fileName string) (string, error) {
	loadDir, err := om.CreateLoadOutputDir(loadID)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	cleanFileName := filepath.Base(fileName)

	return filepath.Join(loadDir, cleanFileName), nil
}

// GetFileType determines the export format based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".svg":
		return "svg"
	case ".png":
		return "png"
	default:
		return "unknown"
	}
}
