package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// EncodeDocument writes the snapshot document: 4-space indent, HTML
// characters left unescaped.
func EncodeDocument(w io.Writer, snap *domain.Snapshot) error {
	snap.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(snap)
}

// MarshalDocument returns the encoded snapshot document
func MarshalDocument(snap *domain.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument decodes a snapshot document
func UnmarshalDocument(data []byte) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot document: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}
