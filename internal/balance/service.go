package balance

import (
	"context"

	"github.com/campuspay/campuspay/internal/student"
)

// Reader is the read-only slice of the student registry this service needs.
//
//go:generate mockgen -source=service.go -destination=reader_mock.go -package=balance
type Reader interface {
	GetStudentByAdmissionNo(ctx context.Context, admissionNo string) (*student.Student, error)
	ListStudentsByClass(ctx context.Context, classCode string) ([]*student.Student, error)
}

type Service struct {
	reader  Reader
	classes student.ClassSet
}

func NewService(reader Reader, classes student.ClassSet) *Service {
	return &Service{reader: reader, classes: classes}
}

// Summary aggregates the ledger fields across one class.
type Summary struct {
	Balance    int64
	TotalPaid  int64
	TotalSpent int64
}

// ClassBalances is the result of a class lookup. Students is empty when the
// class has no members; that is a success, unlike an unknown class code.
type ClassBalances struct {
	ClassCode string
	Students  []*student.Student
	Summary   Summary
}

// FindByAdmissionNumber returns the single student's balances.
// Unknown numbers surface student.ErrNotFound, never an empty success.
func (s *Service) FindByAdmissionNumber(ctx context.Context, admissionNo string) (*student.Student, error) {
	return s.reader.GetStudentByAdmissionNo(ctx, admissionNo)
}

// FindByClassCode returns the class roster ordered by name plus summed
// balances. These are pure reads: any ledger operation committed before the
// read began is reflected.
func (s *Service) FindByClassCode(ctx context.Context, classCode string) (*ClassBalances, error) {
	if !s.classes.Contains(classCode) {
		return nil, student.ErrUnknownClass
	}

	students, err := s.reader.ListStudentsByClass(ctx, classCode)
	if err != nil {
		return nil, err
	}

	result := &ClassBalances{
		ClassCode: classCode,
		Students:  students,
	}
	for _, st := range students {
		result.Summary.Balance += st.Balance
		result.Summary.TotalPaid += st.TotalPaid
		result.Summary.TotalSpent += st.TotalSpent
	}

	return result, nil
}

// IsClassCode reports whether a lookup input names a class rather than a
// single admission number.
func (s *Service) IsClassCode(input string) bool {
	return s.classes.Contains(input)
}
