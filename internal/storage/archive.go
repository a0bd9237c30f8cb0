// Package storage keeps an on-disk archive of the documents uploaded to a
// case: the extract PDF and the contract. Uploads are forwarded to the
// calculation backend either way; the archive is the local audit copy.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Archive stores uploaded case documents under baseDir/caseID/filename.
type Archive struct {
	baseDir string
	logger  *zap.Logger
}

// NewArchive creates an archive rooted at baseDir.
func NewArchive(baseDir string, logger *zap.Logger) *Archive {
	return &Archive{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save writes an uploaded document into the case folder, creating it as
// needed. The stored path is returned.
func (a *Archive) Save(caseID, filename string, content []byte) (string, error) {
	if caseID == "" {
		return "", fmt.Errorf("cannot archive document: empty case id")
	}

	dir := a.caseDir(caseID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create case folder: %w", err)
	}

	path := filepath.Join(dir, sanitizeName(filename))
	if err := a.validatePath(path); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	a.logger.Debug("Archived uploaded document",
		zap.String("case_id", caseID),
		zap.String("path", path),
		zap.Int("size", len(content)))

	return path, nil
}

// List returns the filenames archived for a case, in directory order.
func (a *Archive) List(caseID string) ([]string, error) {
	entries, err := os.ReadDir(a.caseDir(caseID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read case folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// DeleteCase removes a case folder and everything in it. Deleting a case
// that never archived anything is not an error.
func (a *Archive) DeleteCase(caseID string) error {
	dir := a.caseDir(caseID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete case folder: %w", err)
	}

	a.logger.Debug("Deleted case archive", zap.String("case_id", caseID))
	return nil
}

func (a *Archive) caseDir(caseID string) string {
	return filepath.Join(a.baseDir, sanitizeName(caseID))
}

// validatePath rejects anything that escapes the archive root.
func (a *Archive) validatePath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(a.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(abs, absBase+string(os.PathSeparator)) {
		return fmt.Errorf("path escapes archive root: %s", path)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeName strips path separators and anything else unsafe for a
// filesystem name. Empty results fall back to a fixed name.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, `\`, "")
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || strings.Trim(name, ".") == "" {
		return "documento"
	}
	return name
}
