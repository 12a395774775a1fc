package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/core"
)

// shortID is the prefix shown in listings and accepted as an argument.
const shortID = 8

// resolveNote finds a note by ID or unique ID prefix.
func resolveNote(e *board.Engine, ref string) core.Note {
	if n, ok := e.Note(ref); ok {
		return n
	}
	var found []core.Note
	for _, n := range e.Notes() {
		if strings.HasPrefix(n.ID, ref) {
			found = append(found, n)
		}
	}
	switch len(found) {
	case 0:
		fatal("Note not found", fmt.Errorf("no note matches %q", ref))
	case 1:
		return found[0]
	default:
		fatal("Ambiguous note", fmt.Errorf("%d notes start with %q", len(found), ref))
	}
	return core.Note{}
}

func parseFloat(name, s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fatal("Invalid "+name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		fatal("Invalid "+name, fmt.Errorf("%q is not a finite number", s))
	}
	return v
}

func abbrev(id string) string {
	if len(id) > shortID {
		return id[:shortID]
	}
	return id
}

func printNote(n core.Note) {
	idc := color.New(color.FgCyan)
	tagc := color.New(color.FgYellow)
	dim := color.New(color.FgHiBlack)

	content := strings.ReplaceAll(n.Content, "\n", " ")
	if content == "" {
		content = dim.Sprint("(empty)")
	}
	fmt.Printf("%s %s", idc.Sprint(abbrev(n.ID)), content)
	if len(n.Tags) > 0 {
		fmt.Printf(" %s", tagc.Sprint("#"+strings.Join(n.Tags, " #")))
	}
	fmt.Printf(" %s\n", dim.Sprintf("z=%d", n.ZIndex))
}

func printDetail(n core.Note) {
	label := color.New(color.FgHiBlack)
	row := func(k string, v any) { fmt.Printf("%s %v\n", label.Sprintf("%-9s", k+":"), v) }

	row("id", n.ID)
	row("color", n.Color)
	row("position", fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y))
	row("size", fmt.Sprintf("%gx%g", n.Size.Width, n.Size.Height))
	row("z", n.ZIndex)
	row("tags", strings.Join(n.Tags, ", "))
	fmt.Println()
	fmt.Println(n.Content)
}

// mustSave exits when the last mutation never reached the store. Each
// command is a whole session, so an unsaved change is lost at exit.
func mustSave(e *board.Engine) {
	if err := e.PersistErr(); err != nil {
		fatal("Failed to save board", err)
	}
}

func readOnlyGuard(e *board.Engine) {
	if e.ReadOnly() {
		fatal("Cannot modify board", core.ErrReadOnly)
	}
}
