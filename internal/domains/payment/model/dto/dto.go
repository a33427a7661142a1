package dto

import (
	"shutter/internal/domains/payment/model"
	"shutter/shared"
	"shutter/shared/constant"
	gModel "shutter/shared/model"
	"shutter/shared/timezone"

	"github.com/google/uuid"
)

type CreatePaymentRequest struct {
	Amount         *float64 `json:"amount"          validate:"omitempty,gt=0"`
	Method         string   `json:"method"          validate:"required,oneof=BANK_TRANSFER CARD CASH E_WALLET"`
	TransactionRef *string  `json:"transaction_ref" validate:"omitempty,max=100"`
}

func (r *CreatePaymentRequest) ToModel(bookingID, payer string, amount float64) model.Payment {
	return model.Payment{
		ID:             uuid.NewString(),
		BookingID:      bookingID,
		PayerID:        payer,
		Amount:         amount,
		Method:         r.Method,
		Status:         model.StatusPending,
		TransactionRef: r.TransactionRef,
		Metadata:       gModel.NewMetadata(payer, timezone.Now()),
	}
}

type UpdatePaymentStatusRequest struct {
	Status         string  `json:"status"          validate:"required,oneof=PAID FAILED REFUNDED"`
	TransactionRef *string `json:"transaction_ref" validate:"omitempty,max=100"`
}

type PaymentResponse struct {
	ID             string   `json:"id"`
	BookingID      string   `json:"booking_id"`
	PayerID        string   `json:"payer_id"`
	Amount         float64  `json:"amount"`
	Method         string   `json:"method"`
	Status         string   `json:"status"`
	AllowedNext    []string `json:"allowed_next"`
	TransactionRef *string  `json:"transaction_ref,omitempty"`
	PaidAt         *string  `json:"paid_at,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.PayerID = model.PayerID
	r.Amount = model.Amount
	r.Method = model.Method
	r.Status = model.Status
	r.TransactionRef = model.TransactionRef
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)

	r.AllowedNext = AllowedNext(model.Status)

	if model.PaidAt != nil {
		paidAt := timezone.Format(*model.PaidAt, constant.DateFormat)
		r.PaidAt = &paidAt
	}
}

func AllowedNext(status string) []string {
	next := model.AllowedNext(status)
	if next == nil {
		return []string{}
	}

	return next
}

type BalanceResponse struct {
	TotalPrice float64 `json:"total_price"`
	Paid       float64 `json:"paid"`
	Remaining  float64 `json:"remaining"`
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	Balance   BalanceResponse   `json:"balance"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}
