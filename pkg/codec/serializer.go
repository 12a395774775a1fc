package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/muralis/pkg/core"
	"gopkg.in/yaml.v3"
)

// Serializer defines how to read and write a note collection in a specific format.
type Serializer interface {
	// Marshal converts the collection to bytes.
	Marshal(notes []core.Note) ([]byte, error)
	// Unmarshal parses a collection. Any failure wraps core.ErrDecode.
	Unmarshal(data []byte) ([]core.Note, error)
}

// DefaultSerializers returns the standard set of serializers keyed by file extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(false),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// ForExt returns the serializer for a file extension, defaulting to compact JSON.
func ForExt(ext string) Serializer {
	if s, ok := DefaultSerializers()[strings.ToLower(ext)]; ok {
		return s
	}
	return NewJSONSerializer(false)
}

// --- JSON Serializer ---

// JSONSerializer reads and writes the collection as a JSON array.
type JSONSerializer struct {
	// Indent pretty-prints the output.
	Indent bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(indent bool) *JSONSerializer {
	return &JSONSerializer{Indent: indent}
}

func (s *JSONSerializer) Marshal(notes []core.Note) ([]byte, error) {
	out := core.CloneNotes(notes)
	if s.Indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func (s *JSONSerializer) Unmarshal(data []byte) ([]core.Note, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top level is not an array", core.ErrDecode)
	}

	var notes []core.Note
	if err := json.Unmarshal(trimmed, &notes); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", core.ErrDecode, err)
	}
	return validate(notes)
}

// --- YAML Serializer ---

// YAMLSerializer reads and writes the collection as a YAML sequence.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Marshal(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(core.CloneNotes(notes)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *YAMLSerializer) Unmarshal(data []byte) ([]core.Note, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml: %v", core.ErrDecode, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: top level is not a sequence", core.ErrDecode)
	}

	var notes []core.Note
	if err := root.Content[0].Decode(&notes); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml: %v", core.ErrDecode, err)
	}
	return validate(notes)
}

var errMissingID = errors.New("note without id")

// validate rejects structurally broken collections and normalizes nil tags.
func validate(notes []core.Note) ([]core.Note, error) {
	seen := make(map[string]struct{}, len(notes))
	for i, n := range notes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: entry %d: %v", core.ErrDecode, i, errMissingID)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", core.ErrDecode, n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return core.CloneNotes(notes), nil
}
