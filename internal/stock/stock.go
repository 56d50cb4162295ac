package stock

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("stock item not found")
	ErrInvalidName  = errors.New("item name must not be empty")
	ErrInvalidPrice = errors.New("prices must be non-negative")
	ErrInvalidStock = errors.New("quantity must be non-negative")
	ErrUnavailable  = errors.New("storage unavailable")
)

// Item is a catalog entry. Quantity is only ever decremented by the ledger's
// purchase path; catalog edits set it outright.
type Item struct {
	ID           uuid.UUID
	Name         string
	Quantity     int64
	CostPrice    int64 // paise
	SellingPrice int64 // paise
	UpdatedAt    time.Time
}
