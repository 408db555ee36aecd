package core

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentIDForOrder derives the stable document ID for an order.
// Ingesting the same order twice resolves to the same ID, so overlapping
// ingestion windows update documents in place instead of duplicating them.
func DocumentIDForOrder(orderID int64) ID {
	return IDFromContent("order:" + strconv.FormatInt(orderID, 10))
}

// OrderItem is a line item of an order. It has no lifecycle of its own.
type OrderItem struct {
	Title     string
	Quantity  int
	UnitPrice float64
}

// Order is a single order fetched from the remote order source.
// Orders are immutable within an ingestion run and are never stored
// directly; only their rendered text survives in the index.
type Order struct {
	ID          int64
	Buyer       string
	TotalAmount float64
	DateCreated time.Time

	// DateCreatedRaw keeps the source's own timestamp string. It is what
	// the rendered text falls back to when DateCreated cannot be parsed,
	// so an odd upstream date never indexes as the zero time.
	DateCreatedRaw string

	Status string
	Items  []OrderItem
}

// Text renders the canonical document blob for the order.
// The format is stable: the same order always produces the same text,
// which is what makes re-ingestion recognizable in the index.
func (o *Order) Text() string {
	titles := make([]string, len(o.Items))
	for i, item := range o.Items {
		titles[i] = item.Title
	}

	date := o.DateCreatedRaw
	if !o.DateCreated.IsZero() {
		date = o.DateCreated.UTC().Format("2006-01-02")
	}

	return fmt.Sprintf("Pedido %d - Cliente: %s - Total: %s - Data: %s - Status: %s - Itens: %s",
		o.ID,
		o.Buyer,
		strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
		date,
		o.Status,
		strings.Join(titles, ", "))
}

// Document is the unit stored in the vector index: a rendered order text
// plus its embedding vector. Documents are keyed by a deterministic ID so
// writes are upserts.
type Document struct {
	Id         ID
	OrderID    int64
	Contents   string
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// InboundMessage is a single webhook message. Transient, never persisted.
type InboundMessage struct {
	Sender string // opaque channel address, e.g. a phone number
	Text   string
}

// OutboundAnswer is the reply handed to the messaging gateway.
type OutboundAnswer struct {
	Recipient string
	Text      string
}

// SearchResult is a document match from vector similarity search.
type SearchResult struct {
	Document *Document
	Score    float32
}
