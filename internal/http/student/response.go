package student

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuspay/campuspay/internal/student"
)

type studentResponse struct {
	ID            uuid.UUID  `json:"id"`
	AdmissionNo   string     `json:"admission_no"`
	ClassCode     string     `json:"class_code"`
	Name          string     `json:"name"`
	Balance       int64      `json:"balance"`
	TotalPaid     int64      `json:"total_paid"`
	TotalSpent    int64      `json:"total_spent"`
	LastPaymentAt *time.Time `json:"last_payment_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toResponse(st *student.Student) studentResponse {
	return studentResponse{
		ID:            st.ID,
		AdmissionNo:   st.AdmissionNo,
		ClassCode:     st.ClassCode,
		Name:          st.Name,
		Balance:       st.Balance,
		TotalPaid:     st.TotalPaid,
		TotalSpent:    st.TotalSpent,
		LastPaymentAt: st.LastPaymentAt,
		CreatedAt:     st.CreatedAt,
	}
}

func toResponseList(students []*student.Student) []studentResponse {
	resp := make([]studentResponse, len(students))
	for i, st := range students {
		resp[i] = toResponse(st)
	}

	return resp
}
