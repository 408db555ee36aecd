package storage

import (
	"fmt"

	"github.com/Pxeba/GptMeliWhatsapp/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(document *core.Document) ([]byte, error) {
	buf := make([]byte, core.DocumentMUS.Size(*document))
	core.DocumentMUS.Marshal(*document, buf)
	return buf, nil
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	document, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &document, nil
}
