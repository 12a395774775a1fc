package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigNames are the files that mark a board root, in lookup order.
var ConfigNames = []string{"muralis.yaml", "muralis.yml", "muralis.toml"}

// FindConfig looks upwards from startDir for a muralis config file and
// returns its absolute path.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range ConfigNames {
			if hasFile(dir, name) {
				return filepath.Join(dir, name), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("config not found")
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
