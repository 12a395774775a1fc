package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindConfig(t *testing.T) {
	// baseDir/
	//   board/ (muralis.yaml)
	//     subdir/
	//       nested/
	//   toml/ (muralis.toml)
	//   empty/

	baseDir := t.TempDir()
	boardDir := filepath.Join(baseDir, "board")
	subDir := filepath.Join(boardDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	tomlDir := filepath.Join(baseDir, "toml")
	emptyDir := filepath.Join(baseDir, "empty")

	for _, dir := range []string{nestedDir, tomlDir, emptyDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(boardDir, "muralis.yaml"), []byte("store:\n  adapter: fs\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tomlDir, "muralis.toml"), []byte("[store]\nadapter = \"sqlite\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// A directory with the config name is not a config.
	if err := os.Mkdir(filepath.Join(emptyDir, "muralis.yml"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		want      string
		wantErr   bool
	}{
		{"Start at Root", boardDir, filepath.Join(boardDir, "muralis.yaml"), false},
		{"Start in Subdir", subDir, filepath.Join(boardDir, "muralis.yaml"), false},
		{"Start Nested Deeply", nestedDir, filepath.Join(boardDir, "muralis.yaml"), false},
		{"TOML", tomlDir, filepath.Join(tomlDir, "muralis.toml"), false},
		{"No Config Found", emptyDir, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConfig(tt.startPath)
			if tt.wantErr && err == nil && !strings.HasPrefix(got, baseDir) {
				t.Skipf("config found outside the sandbox: %s", got)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("FindConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && filepath.Clean(got) != filepath.Clean(tt.want) {
				t.Errorf("FindConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}
