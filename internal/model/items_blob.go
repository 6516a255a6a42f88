package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// maxBlobDepth bounds how many layers of string encoding DecodeLineItems will
// peel off. Blobs written by older clients were stringified twice.
const maxBlobDepth = 3

// EncodeLineItems serialises a cart into the opaque blob stored with an order.
func EncodeLineItems(items []LineItem) (string, error) {
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode line items: %w", err)
	}
	return string(b), nil
}

// DecodeLineItems parses a stored line-item blob. A blob that was JSON-encoded
// more than once decodes to the same list as one encoded once. An empty or
// null blob yields an empty list.
func DecodeLineItems(blob string) ([]LineItem, error) {
	raw := bytes.TrimSpace([]byte(blob))

	for depth := 0; depth < maxBlobDepth; depth++ {
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return []LineItem{}, nil
		}
		if raw[0] != '"' {
			break
		}
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("failed to decode line items: %w", err)
		}
		raw = bytes.TrimSpace([]byte(inner))
	}

	if len(raw) == 0 {
		return []LineItem{}, nil
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}
