package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuspay/campuspay/internal/ledger"
)

type transactionResponse struct {
	ID                 uuid.UUID     `json:"id"`
	StudentID          uuid.UUID     `json:"student_id"`
	Amount             int64         `json:"amount"`
	Kind               ledger.Kind   `json:"kind"`
	Method             ledger.Method `json:"method"`
	Note               string        `json:"note,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	StudentName        string        `json:"student_name,omitempty"`
	StudentAdmissionNo string        `json:"student_admission_no,omitempty"`
}

func toTransactionResponse(rec *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:                 rec.ID,
		StudentID:          rec.StudentID,
		Amount:             rec.Amount,
		Kind:               rec.Kind,
		Method:             rec.Method,
		Note:               rec.Note,
		CreatedAt:          rec.CreatedAt,
		StudentName:        rec.StudentName,
		StudentAdmissionNo: rec.StudentAdmissionNo,
	}
}

func toTransactionResponseList(recs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(recs))
	for i, rec := range recs {
		resp[i] = toTransactionResponse(rec)
	}

	return resp
}

type purchaseResponse struct {
	ID                 uuid.UUID `json:"id"`
	StudentID          uuid.UUID `json:"student_id"`
	ItemID             uuid.UUID `json:"item_id"`
	Quantity           int64     `json:"quantity"`
	UnitPrice          int64     `json:"unit_price"`
	TotalPrice         int64     `json:"total_price"`
	Profit             int64     `json:"profit"`
	CreatedAt          time.Time `json:"created_at"`
	StudentName        string    `json:"student_name,omitempty"`
	StudentAdmissionNo string    `json:"student_admission_no,omitempty"`
	ItemName           string    `json:"item_name,omitempty"`
}

func toPurchaseResponse(rec *ledger.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:                 rec.ID,
		StudentID:          rec.StudentID,
		ItemID:             rec.ItemID,
		Quantity:           rec.Quantity,
		UnitPrice:          rec.UnitPrice,
		TotalPrice:         rec.TotalPrice,
		Profit:             rec.Profit,
		CreatedAt:          rec.CreatedAt,
		StudentName:        rec.StudentName,
		StudentAdmissionNo: rec.StudentAdmissionNo,
		ItemName:           rec.ItemName,
	}
}

func toPurchaseResponseList(recs []*ledger.Purchase) []purchaseResponse {
	resp := make([]purchaseResponse, len(recs))
	for i, rec := range recs {
		resp[i] = toPurchaseResponse(rec)
	}

	return resp
}
