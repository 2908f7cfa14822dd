package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	changefeeddomain "github.com/smallretail/fieldsync/internal/changefeed/domain"
)

// Batch is one vendor's accumulated offline work, submitted in a single
// request. It exists only for the duration of that request.
type Batch struct {
	VendorID   snowflake.ID
	LastSyncAt time.Time
	Orders     []OrderSubmission
	Visits     []VisitSubmission
}

type OrderSubmission struct {
	LocalID       string          `json:"local_id"`
	InvoiceNumber int64           `json:"invoice_number,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	CustomerName  string          `json:"customer_name"`
	IssuedAt      time.Time       `json:"issued_at"`
	Total         decimal.Decimal `json:"total"`
	Cash          decimal.Decimal `json:"cash"`
	Change        decimal.Decimal `json:"change"`
	Items         []LineItem      `json:"items"`
}

type LineItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type VisitSubmission struct {
	LocalID      string          `json:"local_id"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Interest     string          `json:"interest"`
	Probability  string          `json:"probability"`
	Notes        string          `json:"notes"`
	Potential    decimal.Decimal `json:"potential"`
	FollowUpAt   *time.Time      `json:"follow_up_at,omitempty"`
	VisitedAt    time.Time       `json:"visited_at"`
}

// ItemResult is the per-item outcome. A replayed item looks exactly like the
// original commit to the caller: same server_id, ok=true.
type ItemResult struct {
	Type          string `json:"type"`
	LocalID       string `json:"local_id"`
	OK            bool   `json:"ok"`
	ServerID      string `json:"server_id,omitempty"`
	InvoiceNumber int64  `json:"invoice_number,omitempty"`
	Error         string `json:"error,omitempty"`
}

type Result struct {
	ServerTime time.Time                `json:"server_time"`
	Results    []ItemResult             `json:"results"`
	Changes    changefeeddomain.Changes `json:"changes"`
}

// Service is the batch entry point. Process never fails because of a single
// item: item errors land in the corresponding ItemResult and the rest of the
// batch proceeds.
type Service interface {
	Process(ctx context.Context, batch Batch) (*Result, error)
}

var (
	ErrMissingLocalID   = errors.New("missing_local_id")
	ErrInvalidVendor    = errors.New("invalid_vendor")
	ErrInvalidProductID = errors.New("invalid_product_id")
	ErrInvalidQty       = errors.New("invalid_qty")
)
