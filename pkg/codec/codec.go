// Package codec maps a note collection to and from its serialized forms:
// the local-store form (a JSON array) and the link form (the same JSON,
// base64-encoded so it can live in a URL fragment).
package codec

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/muralis/pkg/core"
)

var storeSerializer = NewJSONSerializer(false)

// EncodeStore serializes notes for the local store.
func EncodeStore(notes []core.Note) ([]byte, error) {
	return storeSerializer.Marshal(notes)
}

// DecodeStore parses a local-store snapshot.
func DecodeStore(data []byte) ([]core.Note, error) {
	return storeSerializer.Unmarshal(data)
}

// EncodeLink serializes notes into a text-safe payload for a URL fragment.
// The payload is standard base64 so links stay readable by atob().
func EncodeLink(notes []core.Note) (string, error) {
	data, err := storeSerializer.Marshal(notes)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeLink reverses EncodeLink. URL-safe and unpadded payloads are accepted too.
func DecodeLink(payload string) ([]core.Note, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty link payload", core.ErrDecode)
	}
	if unescaped, err := url.PathUnescape(payload); err == nil {
		payload = unescaped
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", core.ErrDecode, err)
	}
	return storeSerializer.Unmarshal(data)
}

func decodeBase64(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// ShareURL builds base#payload. Any existing fragment on base is replaced.
func ShareURL(base string, notes []core.Note) (string, error) {
	payload, err := EncodeLink(notes)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + payload, nil
}

// FragmentOf extracts the fragment from a URL. Input without a '#' that does
// not parse as an absolute URL is returned as a bare payload.
func FragmentOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[i+1:]
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		return ""
	}
	return raw
}
