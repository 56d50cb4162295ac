package student

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=student
type Repository interface {
	CreateStudent(ctx context.Context, st *Student) error
	GetStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	GetStudentByAdmissionNo(ctx context.Context, admissionNo string) (*Student, error)
	ListStudentsByClass(ctx context.Context, classCode string) ([]*Student, error)
	UpdateStudent(ctx context.Context, st *Student) error
	DeleteStudent(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo    Repository
	classes ClassSet
}

func NewService(repo Repository, classes ClassSet) *Service {
	return &Service{repo: repo, classes: classes}
}

type RegisterParams struct {
	Name        string
	AdmissionNo string
	ClassCode   string
}

// Register creates a student with zeroed ledger fields. Admission numbers are
// unique; registering an existing one fails with ErrDuplicateAdmission.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Student, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	admissionNo := strings.TrimSpace(params.AdmissionNo)
	if admissionNo == "" {
		return nil, ErrInvalidAdmission
	}

	if !s.classes.Contains(params.ClassCode) {
		return nil, ErrUnknownClass
	}

	st := &Student{
		Name:        name,
		AdmissionNo: admissionNo,
		ClassCode:   params.ClassCode,
	}
	if err := s.repo.CreateStudent(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Student, error) {
	return s.repo.GetStudent(ctx, id)
}

func (s *Service) GetByAdmissionNo(ctx context.Context, admissionNo string) (*Student, error) {
	return s.repo.GetStudentByAdmissionNo(ctx, admissionNo)
}

// ListByClass returns the students of a class ordered by name. An unknown
// code is an error; a known code with no students is an empty list.
func (s *Service) ListByClass(ctx context.Context, classCode string) ([]*Student, error) {
	if !s.classes.Contains(classCode) {
		return nil, ErrUnknownClass
	}

	return s.repo.ListStudentsByClass(ctx, classCode)
}

type UpdateParams struct {
	Name      *string
	ClassCode *string
}

// Update renames or reassigns a student. Ledger fields are not touchable here.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Student, error) {
	st, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrInvalidName
		}

		st.Name = name
	}

	if params.ClassCode != nil {
		if !s.classes.Contains(*params.ClassCode) {
			return nil, ErrUnknownClass
		}

		st.ClassCode = *params.ClassCode
	}

	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

// Delete removes a student; the storage layer cascades the ledger rows.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteStudent(ctx, id)
}

// Classes exposes the configured class set for callers that need to decide
// whether a lookup input is a class code or an admission number.
func (s *Service) Classes() ClassSet {
	return s.classes
}
