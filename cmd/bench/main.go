package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/muralis"
)

// Every mutation rewrites the whole board, so save cost grows with its size.
// This measures adds and a cold reload per adapter.
func main() {
	count := flag.Int("count", 500, "Number of notes to add")
	keep := flag.Bool("keep", false, "Keep the benchmark stores after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "muralis_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.TODO()

	targets := []struct {
		adapter string
		file    string
	}{
		{"memory", ""},
		{"fs", "board.json"},
		{"fs", "board.yaml"},
		{"sqlite", "board.db"},
	}

	fmt.Printf("Adding %d notes per store in %s...\n", *count, benchDir)
	fmt.Printf("--------------------------------------------------\n")

	for _, tgt := range targets {
		path := ""
		if tgt.file != "" {
			path = filepath.Join(benchDir, tgt.file)
		}
		name := tgt.adapter
		if tgt.file != "" {
			name += " (" + filepath.Ext(tgt.file) + ")"
		}

		session, err := muralis.Open(ctx, path,
			muralis.WithAdapter(tgt.adapter),
			muralis.WithLogger(logger),
			muralis.WithHistoryLimit(-1),
		)
		if err != nil {
			panic(err)
		}

		start := time.Now()
		for i := 0; i < *count; i++ {
			if _, err := session.Engine.AddNote(ctx, fmt.Sprintf("Benchmark note %d", i)); err != nil {
				panic(err)
			}
		}
		adds := time.Since(start)
		if err := session.Engine.PersistErr(); err != nil {
			panic(err)
		}
		session.Close()

		// Reopen to simulate a new CLI command run.
		reload := time.Duration(0)
		loaded := len(session.Engine.Notes())
		if tgt.adapter != "memory" {
			start = time.Now()
			again, err := muralis.Open(ctx, path,
				muralis.WithAdapter(tgt.adapter),
				muralis.WithLogger(logger),
			)
			if err != nil {
				panic(err)
			}
			reload = time.Since(start)
			loaded = len(again.Engine.Notes())
			again.Close()
		}

		fmt.Printf("%-14s adds: %-12v (%v/op)  reload: %-12v items: %d\n",
			name, adds, adds/time.Duration(max(1, *count)), reload, loaded)
	}
	fmt.Printf("--------------------------------------------------\n")
}
