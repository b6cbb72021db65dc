package dto

import (
	"net/http"

	"fair/internal/domains/transaction/model"
	"fair/shared"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/timezone"
)

var SortableFields = []string{model.FieldReservationDate, model.FieldTotalAmount, model.FieldPaymentStatus, constant.FieldCreatedAt}

type LineItemResponse struct {
	BoothID     string `json:"booth_id"`
	Sector      string `json:"sector"`
	BoothNumber string `json:"booth_number"`
	BoothType   string `json:"booth_type"`
	Price       int64  `json:"price"`
	BoothStatus string `json:"booth_status"`
}

type TransactionResponse struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	TotalAmount        int64              `json:"total_amount"`
	Currency           string             `json:"currency"`
	Remark             string             `json:"remark"`
	BoothTransStatus   string             `json:"booth_trans_status"`
	PaymentStatus      string             `json:"payment_status"`
	ValidityStatus     string             `json:"validity_status"`
	ReservationDate    string             `json:"reservation_date"`
	ValidityPeriodDays int                `json:"validity_period_days"`
	ExpirationDate     string             `json:"expiration_date"`
	Version            int64              `json:"version"`
	Booths             []LineItemResponse `json:"booths"`
	gDto.Metadata
}

// FromModel fills the response. ExpirationDate is always computed, never read back.
func (r *TransactionResponse) FromModel(trx model.Transaction, items []model.LineItem) {
	r.ID = trx.ID
	r.UserID = trx.UserID
	r.TotalAmount = trx.TotalAmount
	r.Currency = trx.Currency
	r.Remark = trx.Remark
	r.BoothTransStatus = string(trx.BoothTransStatus)
	r.PaymentStatus = string(trx.PaymentStatus)
	r.ValidityStatus = string(trx.ValidityStatus)
	r.ReservationDate = timezone.Format(trx.ReservationDate, constant.DateFormat)
	r.ValidityPeriodDays = trx.ValidityPeriodDays
	r.ExpirationDate = timezone.Format(trx.ExpirationDate(), constant.DateFormat)
	r.Version = trx.Version
	r.Metadata.FromModel(trx.Metadata)

	r.Booths = make([]LineItemResponse, len(items))
	for i, item := range items {
		r.Booths[i] = LineItemResponse{
			BoothID:     item.BoothID,
			Sector:      item.Sector,
			BoothNumber: item.BoothNumber,
			BoothType:   item.BoothType,
			Price:       item.Price,
			BoothStatus: item.BoothStatus,
		}
	}
}

type GetTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

// FromModels groups items by transaction id.
func (r *GetTransactionsResponse) FromModels(trxs []model.Transaction, items []model.LineItem, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	byTransaction := map[string][]model.LineItem{}
	for _, item := range items {
		byTransaction[item.TransactionID] = append(byTransaction[item.TransactionID], item)
	}

	r.Transactions = make([]TransactionResponse, len(trxs))
	for i, trx := range trxs {
		r.Transactions[i].FromModel(trx, byTransaction[trx.ID])
	}
}

type TransactionFilter struct {
	UserID           string `json:"user_id"`
	PaymentStatus    string `json:"payment_status"     validate:"omitempty,oneof=pending processing paid refunded abandoned reversed success queued"`
	ValidityStatus   string `json:"validity_status"    validate:"omitempty,oneof=active expired paid"`
	BoothTransStatus string `json:"booth_trans_status" validate:"omitempty,oneof=active expired cancelled"`
}

func (f *TransactionFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.UserID = query.Get(model.FieldUserID)
	f.PaymentStatus = query.Get(model.FieldPaymentStatus)
	f.ValidityStatus = query.Get(model.FieldValidityStatus)
	f.BoothTransStatus = query.Get(model.FieldBoothTransStatus)
}

func (f *TransactionFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	shared.FilterEq(&group, model.FieldUserID, model.TableName, f.UserID)
	shared.FilterEq(&group, model.FieldPaymentStatus, model.TableName, f.PaymentStatus)
	shared.FilterEq(&group, model.FieldValidityStatus, model.TableName, f.ValidityStatus)
	shared.FilterEq(&group, model.FieldBoothTransStatus, model.TableName, f.BoothTransStatus)

	return group
}
