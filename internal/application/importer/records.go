package importer

import (
	"bytes"
	"encoding/json"

	"github.com/bookstore/backend/internal/domain/shared"
)

// ErrInvalidPayload is returned when the request body is not a non-empty JSON
// array of record objects. The message is part of the import wire contract.
var ErrInvalidPayload = shared.NewDomainError("INVALID_PAYLOAD", "Invalid payload format.")

// BookRecord is a single decoded import record. Fields are optional on the
// wire; defaulting happens in the orchestrator, not here.
type BookRecord struct {
	Title     string
	Author    string
	ISBN      string
	Price     *float64
	Publisher string
	Year      int
	ImageURL  string
}

// bookRecordWire is the schema-tolerant wire shape. Unknown fields are
// ignored; "title" is accepted as an alias for "book_title" because the
// batch clients in the wild send either.
type bookRecordWire struct {
	BookTitle  string   `json:"book_title"`
	TitleAlias string   `json:"title"`
	Author     string   `json:"author"`
	ISBN       string   `json:"isbn"`
	Price      *float64 `json:"price"`
	Publisher  string   `json:"publisher"`
	Year       int      `json:"year"`
	ImageURL   string   `json:"image_url"`
}

// ParseRecords validates the batch shape and decodes the records.
// The body must be a JSON array with at least one element, and every element
// must be an object. Per-field validation is deliberately absent: missing or
// blank fields are tolerated and defaulted later.
func ParseRecords(body []byte) ([]BookRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrInvalidPayload
	}
	if len(raw) == 0 {
		return nil, ErrInvalidPayload
	}

	records := make([]BookRecord, 0, len(raw))
	for _, elem := range raw {
		trimmed := bytes.TrimSpace(elem)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, ErrInvalidPayload
		}

		var wire bookRecordWire
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, ErrInvalidPayload
		}

		title := wire.BookTitle
		if title == "" {
			title = wire.TitleAlias
		}

		records = append(records, BookRecord{
			Title:     title,
			Author:    wire.Author,
			ISBN:      wire.ISBN,
			Price:     wire.Price,
			Publisher: wire.Publisher,
			Year:      wire.Year,
			ImageURL:  wire.ImageURL,
		})
	}

	return records, nil
}
