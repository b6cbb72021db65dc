package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fair/internal/domains/transaction/model"
	"fair/internal/domains/transaction/model/dto"
	"fair/shared/constant"
	"fair/shared/timezone"
)

func TestTransactionResponse_DerivesExpiration(t *testing.T) {
	reserved := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	trx := model.Transaction{ID: "t-1", ReservationDate: reserved, ValidityPeriodDays: 3, PaymentStatus: model.PaymentPending}

	var res dto.TransactionResponse
	res.FromModel(trx, []model.LineItem{{BoothID: "b-1", Price: 100}, {BoothID: "b-2", Price: 200}})

	assert.Equal(t, timezone.Format(reserved.AddDate(0, 0, 3), constant.DateFormat), res.ExpirationDate)
	assert.Equal(t, "pending", res.PaymentStatus)
	assert.Len(t, res.Booths, 2)
	assert.Equal(t, "b-2", res.Booths[1].BoothID)
}

func TestGetTransactionsResponse_GroupsLineItems(t *testing.T) {
	trxs := []model.Transaction{{ID: "t-1"}, {ID: "t-2"}}
	items := []model.LineItem{
		{TransactionID: "t-2", BoothID: "b-3"},
		{TransactionID: "t-1", BoothID: "b-1"},
		{TransactionID: "t-1", BoothID: "b-2"},
	}

	var res dto.GetTransactionsResponse
	res.FromModels(trxs, items, 12, 10)

	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Transactions[0].Booths, 2)
	assert.Len(t, res.Transactions[1].Booths, 1)
	assert.Equal(t, "b-3", res.Transactions[1].Booths[0].BoothID)
}

func TestTransactionFilter(t *testing.T) {
	var filter dto.TransactionFilter
	filter.FromRequest(httptest.NewRequest("GET", "/v1/transactions?payment_status=pending&validity_status=active", nil))

	group := filter.ToFilterGroup()
	where, args := group.GetWhereClause()

	assert.Equal(t, "(transactions.payment_status = :payment_status AND transactions.validity_status = :validity_status)", where)
	assert.Equal(t, map[string]any{"payment_status": "pending", "validity_status": "active"}, args)
}
