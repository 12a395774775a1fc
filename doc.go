// Package muralis is the Composition Root for the Muralis sticky-note board.
//
// It connects the board engine (Domain Layer) with the storage adapters
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// A board is a free-form canvas of notes. Each note has content, tags, a
// pastel color, a position, a size and a stacking order. The board is loaded
// once per session from exactly one source:
//
//   - **Shared link**: a URL whose fragment carries the whole board. The
//     session is read-only and never touches local storage.
//   - **Local store**: the last saved snapshot. The session is editable and
//     every change is written back as a whole.
//
// Stores:
//
//   - **fs** (default): a JSON or YAML file, optionally versioned with Git,
//     with a watcher that reports external edits.
//   - **sqlite**: a single database file that keeps a bounded snapshot history.
//   - **memory**: nothing is persisted.
//
// Usage:
//
//	s, err := muralis.Open(ctx, "muralis-notes.json",
//		muralis.WithLogger(logger),
//	)
//	defer s.Close()
//
//	note, err := s.Engine.AddNote(ctx, "buy milk")
//	url, err := s.Engine.Share("http://localhost:9002/")
package muralis
