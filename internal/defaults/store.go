package defaults

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mlforge-labs/mlforge-go/internal/platform/fsio"
)

const fileHeader = "# Values are descriptive only; rerun generate to change them.\n"

// Save persists the record under baseDir. The write is whole-file; there is
// no merging with a previous record.
func Save(baseDir string, r *Record) error {
	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	return fsio.WriteFile(filepath.Join(baseDir, ConfigFilePath), append([]byte(fileHeader), body...))
}

// Load reads the record persisted under baseDir.
func Load(baseDir string) (*Record, error) {
	path := filepath.Join(baseDir, ConfigFilePath)
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults %s: %w", path, err)
	}
	var r Record
	if err := yaml.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("parse defaults %s: %w", path, err)
	}
	return &r, nil
}

// UpdateMonitoring replaces the monitoring block of the persisted record,
// leaving every other block untouched. It is the only mutation permitted
// after the record is first written.
func UpdateMonitoring(baseDir string, m *Monitoring) error {
	r, err := Load(baseDir)
	if err != nil {
		return err
	}
	r.Monitoring = m
	return Save(baseDir, r)
}
