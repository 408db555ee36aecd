package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name    string
		order   *Order
		wantErr error
	}{
		{
			name: "valid order",
			order: &Order{
				ID:          2000001,
				Buyer:       "joao",
				TotalAmount: 150,
				DateCreated: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				Status:      "paid",
				Items:       []OrderItem{{Title: "Fone de ouvido", Quantity: 1, UnitPrice: 150}},
			},
			wantErr: nil,
		},
		{
			name: "valid order with no items",
			order: &Order{
				ID:     2000002,
				Status: "confirmed",
			},
			wantErr: nil,
		},
		{
			name: "valid order with unknown status",
			order: &Order{
				ID:     2000003,
				Status: "some_future_status",
			},
			wantErr: nil,
		},
		{
			name: "valid order with negative total",
			order: &Order{
				ID:          2000004,
				TotalAmount: -10,
			},
			wantErr: nil,
		},
		{
			name:    "nil order",
			order:   nil,
			wantErr: ErrInvalidOrder,
		},
		{
			name: "missing order ID",
			order: &Order{
				Buyer:  "maria",
				Status: "paid",
			},
			wantErr: ErrMissingOrderID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrder(tt.order)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateOrder() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateOrder() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateOrder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name     string
		document *Document
		wantErr  error
	}{
		{
			name: "valid document",
			document: &Document{
				Id:       1,
				OrderID:  2000001,
				Contents: "Pedido 2000001 - Cliente: joao",
				Vector:   []float32{0.1, 0.2, 0.3},
			},
			wantErr: nil,
		},
		{
			name: "valid document with empty vector",
			document: &Document{
				Id:       1,
				Contents: "Pedido 2000001",
				Vector:   nil,
			},
			wantErr: nil,
		},
		{
			name: "valid document with ID 0",
			document: &Document{
				Id:       0,
				Contents: "Pedido 2000001",
			},
			wantErr: nil,
		},
		{
			name:     "nil document",
			document: nil,
			wantErr:  ErrInvalidDocument,
		},
		{
			name: "empty contents",
			document: &Document{
				Id:       1,
				Contents: "",
			},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.document)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateDocument() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
