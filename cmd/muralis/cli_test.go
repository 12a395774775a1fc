package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/muralis/pkg/core"
)

// buildBinary builds the muralis binary into dir and returns its path.
func buildBinary(t *testing.T, dir string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping CLI build in short mode")
	}
	bin := filepath.Join(dir, "muralis.exe")
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build muralis: %v\n%s", err, string(out))
	}
	return bin
}

// runCmd runs the binary in dir and returns stdout and stderr.
func runCmd(t *testing.T, dir string, stdin string, bin string, args ...string) (string, string) {
	t.Helper()
	cmd := exec.Command(bin, append([]string{"--no-color"}, args...)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1", "GEMINI_API_KEY=", "GOOGLE_API_KEY=")
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("muralis %v failed: %v\nstdout: %s\nstderr: %s", args, err, stdout.String(), stderr.String())
	}
	return stdout.String(), stderr.String()
}

// runFail runs the binary in dir, expects a non-zero exit and returns stdout and stderr.
func runFail(t *testing.T, dir string, bin string, args ...string) (string, string) {
	t.Helper()
	cmd := exec.Command(bin, append([]string{"--no-color"}, args...)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1", "GEMINI_API_KEY=", "GOOGLE_API_KEY=")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err == nil {
		t.Fatalf("muralis %v succeeded, expected failure\nstdout: %s", args, stdout.String())
	}
	return stdout.String(), stderr.String()
}

func listNotes(t *testing.T, dir, bin string, args ...string) []core.Note {
	t.Helper()
	out, _ := runCmd(t, dir, "", bin, append(args, "list", "--json")...)
	var notes []core.Note
	if err := json.Unmarshal([]byte(out), &notes); err != nil {
		t.Fatalf("invalid list output: %v\n%s", err, out)
	}
	return notes
}

func TestCLI_Board(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)

	config := "store:\n  adapter: fs\n  path: " + filepath.Join(dir, "board.json") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "muralis.yaml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	runCmd(t, dir, "", bin, "add", "buy", "milk", "--tag", "home")
	runCmd(t, dir, "", bin, "add", "call mom")

	notes := listNotes(t, dir, bin)
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(notes))
	}
	milk := notes[0]
	if milk.Content != "buy milk" {
		milk = notes[1]
	}

	t.Run("Tags", func(t *testing.T) {
		out, _ := runCmd(t, dir, "", bin, "tags")
		if strings.TrimSpace(out) != "home" {
			t.Errorf("Expected tag list 'home', got %q", out)
		}

		runCmd(t, dir, "", bin, "tag", "add", milk.ID[:8], "errands, home")
		filtered := listNotes(t, dir, bin, "--store", filepath.Join(dir, "board.json"))
		for _, n := range filtered {
			if n.ID == milk.ID && strings.Join(n.Tags, ",") != "home,errands" {
				t.Errorf("Expected tags home,errands, got %v", n.Tags)
			}
		}

		out, _ = runCmd(t, dir, "", bin, "list", "--tag", "errands")
		if !strings.Contains(out, "buy milk") || strings.Contains(out, "call mom") {
			t.Errorf("Tag filter failed:\n%s", out)
		}
	})

	t.Run("Front", func(t *testing.T) {
		out, _ := runCmd(t, dir, "", bin, "front", milk.ID)
		if !strings.Contains(out, "z=3") {
			t.Errorf("Expected z=3, got %q", out)
		}
	})

	t.Run("Edit from stdin", func(t *testing.T) {
		runCmd(t, dir, "buy oat milk\n", bin, "edit", milk.ID, "-")
		out, _ := runCmd(t, dir, "", bin, "show", milk.ID)
		if !strings.Contains(out, "buy oat milk") {
			t.Errorf("Expected edited content, got:\n%s", out)
		}
	})

	t.Run("Resize clamps", func(t *testing.T) {
		out, _ := runCmd(t, dir, "", bin, "resize", milk.ID, "10", "10")
		if !strings.Contains(out, "200x150") {
			t.Errorf("Expected clamped size, got %q", out)
		}
	})

	t.Run("Share and open", func(t *testing.T) {
		link, _ := runCmd(t, dir, "", bin, "share", "--base", "https://muralis.example/")
		link = strings.TrimSpace(link)
		if !strings.HasPrefix(link, "https://muralis.example/#") {
			t.Fatalf("Unexpected link %q", link)
		}

		out, _ := runCmd(t, dir, "", bin, "open", link)
		if !strings.Contains(out, "read-only") || !strings.Contains(out, "call mom") {
			t.Errorf("Unexpected open output:\n%s", out)
		}
	})

	t.Run("Export and import", func(t *testing.T) {
		exported := filepath.Join(dir, "export.yaml")
		runCmd(t, dir, "", bin, "export", "-o", exported)
		b, err := os.ReadFile(exported)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), "content: call mom") {
			t.Errorf("Expected YAML export, got:\n%s", b)
		}

		other := filepath.Join(dir, "other.json")
		runCmd(t, dir, "", bin, "--store", other, "import", exported)
		if got := listNotes(t, dir, bin, "--store", other); len(got) != 2 {
			t.Errorf("Expected 2 imported notes, got %d", len(got))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		runCmd(t, dir, "", bin, "delete", milk.ID)
		if got := listNotes(t, dir, bin); len(got) != 1 {
			t.Errorf("Expected 1 note after delete, got %d", len(got))
		}
	})
}

func TestCLI_CorruptStore(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)
	store := filepath.Join(dir, "board.json")

	if err := os.WriteFile(store, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	out, stderr := runCmd(t, dir, "", bin, "--store", store, "list")
	if !strings.Contains(out, "No notes.") {
		t.Errorf("Expected empty board, got:\n%s", out)
	}
	if !strings.Contains(stderr, "damaged board") {
		t.Errorf("Expected recovery warning, got:\n%s", stderr)
	}
	if _, err := os.Stat(store); !os.IsNotExist(err) {
		t.Errorf("Expected corrupt store to be cleared, stat err = %v", err)
	}
}

func TestCLI_UnsavedChangesFail(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)

	// A non-empty directory where the board file should be: every save fails.
	store := filepath.Join(dir, "board.json")
	if err := os.MkdirAll(filepath.Join(store, "occupied"), 0755); err != nil {
		t.Fatal(err)
	}

	out, stderr := runFail(t, dir, bin, "--store", store, "add", "buy", "milk")
	if strings.Contains(out, "Added note") {
		t.Errorf("Expected no success message, got:\n%s", out)
	}
	if !strings.Contains(stderr, "Failed to save board") {
		t.Errorf("Expected save failure, got:\n%s", stderr)
	}
}

func TestCLI_RejectsNonFiniteNumbers(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)
	store := filepath.Join(dir, "board.json")

	runCmd(t, dir, "", bin, "--store", store, "add", "buy milk")
	note := listNotes(t, dir, bin, "--store", store)[0]

	for _, args := range [][]string{
		{"resize", note.ID, "NaN", "300"},
		{"resize", note.ID, "300", "+Inf"},
		{"move", note.ID, "-Inf", "0"},
	} {
		_, stderr := runFail(t, dir, bin, append([]string{"--store", store}, args...)...)
		if !strings.Contains(stderr, "not a finite number") {
			t.Errorf("%v: expected finite-number error, got:\n%s", args, stderr)
		}
	}

	got := listNotes(t, dir, bin, "--store", store)[0]
	if got.Size != note.Size || got.Position != note.Position {
		t.Errorf("Expected note unchanged, got %+v", got)
	}
}

func TestCLI_FailureClosesStore(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)
	db := filepath.Join(dir, "board.db")

	runCmd(t, dir, "", bin, "--adapter", "sqlite", "--store", db, "add", "first")
	note := listNotes(t, dir, bin, "--adapter", "sqlite", "--store", db)[0]

	runFail(t, dir, bin, "--adapter", "sqlite", "--store", db, "resize", note.ID, "NaN", "300")

	// A cleanly closed database checkpoints and removes its write-ahead log.
	if _, err := os.Stat(db + "-wal"); !os.IsNotExist(err) {
		t.Errorf("Expected the database to be closed on exit, stat err = %v", err)
	}
}

func TestCLI_WatchReportsStoreChanges(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)
	store := filepath.Join(dir, "board.json")
	runCmd(t, dir, "", bin, "--store", store, "add", "first")

	watch := exec.Command(bin, "--no-color", "--store", store, "watch")
	watch.Dir = dir
	watch.Env = append(os.Environ(), "NO_COLOR=1")
	stdout, err := watch.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := watch.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = watch.Process.Kill()
		_ = watch.Wait()
	})

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	// The watcher starts asynchronously; keep writing until it reports.
	for attempt := 0; attempt < 10; attempt++ {
		runCmd(t, dir, "", bin, "--store", store, "add", "from another process")
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("watch exited early")
			}
			if !strings.Contains(line, "store:") || strings.Contains(line, "board:") {
				t.Errorf("Expected a store event, got %q", line)
			}
			return
		case <-time.After(time.Second):
		}
	}
	t.Fatal("watch reported no store change")
}

func TestCLI_SQLiteHistory(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)
	db := filepath.Join(dir, "board.db")

	runCmd(t, dir, "", bin, "--adapter", "sqlite", "--store", db, "add", "first")
	runCmd(t, dir, "", bin, "--adapter", "sqlite", "--store", db, "add", "second")

	out, _ := runCmd(t, dir, "", bin, "--adapter", "sqlite", "--store", db, "history")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 revisions, got:\n%s", out)
	}

	oldest := strings.Fields(lines[1])[0]
	runCmd(t, dir, "", bin, "--adapter", "sqlite", "--store", db, "history", "restore", oldest)
	if got := listNotes(t, dir, bin, "--adapter", "sqlite", "--store", db); len(got) != 1 {
		t.Errorf("Expected 1 note after restore, got %d", len(got))
	}
}

func TestCLI_Version(t *testing.T) {
	dir := t.TempDir()
	bin := buildBinary(t, dir)

	out, _ := runCmd(t, dir, "", bin, "version")
	if !strings.HasPrefix(out, "muralis version ") {
		t.Errorf("Unexpected version output %q", out)
	}
}
