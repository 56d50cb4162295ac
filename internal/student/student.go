package student

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("student not found")
	ErrDuplicateAdmission = errors.New("admission number already registered")
	ErrUnknownClass       = errors.New("unknown class code")
	ErrInvalidName        = errors.New("name must not be empty")
	ErrInvalidAdmission   = errors.New("admission number must not be empty")
	ErrUnavailable        = errors.New("storage unavailable")
)

// Student is a prepaid-wallet account holder. Balance, TotalPaid and
// TotalSpent are written together by the ledger and nothing else; the
// invariant Balance == TotalPaid - TotalSpent holds at every commit point.
type Student struct {
	ID            uuid.UUID
	AdmissionNo   string
	ClassCode     string
	Name          string
	Balance       int64 // paise
	TotalPaid     int64
	TotalSpent    int64
	LastPaymentAt *time.Time
	CreatedAt     time.Time
}

// ClassSet is the closed set of class codes a deployment accepts.
type ClassSet map[string]struct{}

func NewClassSet(codes []string) ClassSet {
	set := make(ClassSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}

	return set
}

func (s ClassSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}
