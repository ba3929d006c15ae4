// Package pictures locates aircraft pictures and report image assets on the
// local filesystem.
package pictures

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscan/tailscan/internal/reports"
	"github.com/tailscan/tailscan/pkg/logger"
)

var pictureExtensions = []string{".jpg", ".jpeg", ".png"}

// Manager resolves registration-keyed aircraft pictures and answers whether
// the silhouette and operator flag image directories are present. Directory
// checks are performed on demand so directories mounted or removed while the
// process runs are reflected on the next report.
type Manager struct {
	picturesDir      string
	silhouettesDir   string
	operatorFlagsDir string
	logger           *logger.Logger
}

// NewManager creates a picture manager over the configured directories.
// Any directory may be empty, in which case the corresponding lookups
// report nothing available.
func NewManager(picturesDir, silhouettesDir, operatorFlagsDir string, log *logger.Logger) *Manager {
	return &Manager{
		picturesDir:      picturesDir,
		silhouettesDir:   silhouettesDir,
		operatorFlagsDir: operatorFlagsDir,
		logger:           log.Named("pictures"),
	}
}

// FindPicture returns the dimensions of the picture for a registration, or
// nil when no picture exists
func (m *Manager) FindPicture(registration string) *reports.Picture {
	registration = strings.ToUpper(strings.TrimSpace(registration))
	if registration == "" || m.picturesDir == "" {
		return nil
	}

	for _, ext := range pictureExtensions {
		path := filepath.Join(m.picturesDir, registration+ext)
		pic := m.readPicture(path)
		if pic != nil {
			return pic
		}
	}
	return nil
}

func (m *Manager) readPicture(path string) *reports.Picture {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		m.logger.Warn("Unreadable aircraft picture", logger.String("path", path), logger.Error(err))
		return nil
	}
	return &reports.Picture{Width: cfg.Width, Height: cfg.Height}
}

// SilhouettesAvailable reports whether the silhouette image directory exists
func (m *Manager) SilhouettesAvailable() bool {
	return dirExists(m.silhouettesDir)
}

// OperatorFlagsAvailable reports whether the operator flag image directory exists
func (m *Manager) OperatorFlagsAvailable() bool {
	return dirExists(m.operatorFlagsDir)
}

func dirExists(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
