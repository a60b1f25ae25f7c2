// Package configutil reads json5 configuration files layered with a git-ignored local override.
package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the override file read alongside name, `config.json5` becomes `config.local.json5`.
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s.local%s", strings.TrimSuffix(name, ext), ext)
}

// readLayer decodes path into a fresh T, found is false when the file does not exist.
func readLayer[T any](path string) (layer T, found bool, err error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return layer, false, nil
	}
	if err != nil {
		return layer, false, err
	}
	if len(contents) == 0 {
		return layer, true, nil
	}
	if err := json5.Unmarshal(contents, &layer); err != nil {
		return layer, true, fmt.Errorf("%s: %w", path, err)
	}
	return layer, true, nil
}

// ReadConfig decodes name and then merges LocalPath(name) over it, non-zero values of the local file win.
// os.ErrNotExist is returned when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	base, baseFound, err := readLayer[T](name)
	if err != nil {
		return base, err
	}

	localPath := LocalPath(name)
	local, localFound, err := readLayer[T](localPath)
	if err != nil {
		return base, err
	}

	if !baseFound && !localFound {
		return base, os.ErrNotExist
	}
	if localFound {
		if err := mergo.Merge(&base, local, mergo.WithOverride); err != nil {
			return base, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Info("merged config with local overrides", "config", name, "local", localPath)
	}
	return base, nil
}
