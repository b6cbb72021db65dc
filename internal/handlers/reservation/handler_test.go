package reservation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"fair/infras/otel/mocks"
	"fair/internal/domains/reservation/model/dto"
	"fair/internal/domains/reservation/service"
	trxDto "fair/internal/domains/transaction/model/dto"
	"fair/internal/handlers/reservation"
)

const transactionID = "0b6f4c7e-3a51-4d8e-9a4f-2c1d5e6f7a8b"

// countingService records which engine operations the handler reached.
type countingService struct {
	service.Reservation

	calls []string
}

func (s *countingService) Reserve(_ context.Context, _ dto.ReserveRequest) (trxDto.TransactionResponse, error) {
	s.calls = append(s.calls, "Reserve")

	return trxDto.TransactionResponse{ID: transactionID}, nil
}

func (s *countingService) MarkPaid(_ context.Context, id string) (trxDto.TransactionResponse, error) {
	s.calls = append(s.calls, "MarkPaid:"+id)

	return trxDto.TransactionResponse{ID: id}, nil
}

func newRouter(svc service.Reservation) http.Handler {
	router := chi.NewRouter()
	handler := reservation.New(svc, mocks.NewOtel())
	handler.Router(router)

	return router
}

func TestHandler_RejectsMalformedIDs(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantCall []string
	}{
		{name: "transaction id", path: "/reservations/A-12/paid", wantCode: http.StatusBadRequest},
		{name: "booth id", path: "/reservations", body: `{"booth_ids":["A-12"]}`, wantCode: http.StatusBadRequest},
		{name: "valid transaction id", path: "/reservations/" + transactionID + "/paid", wantCode: http.StatusOK, wantCall: []string{"MarkPaid:" + transactionID}},
		{name: "valid booth id", path: "/reservations", body: `{"booth_ids":["` + transactionID + `"]}`, wantCode: http.StatusCreated, wantCall: []string{"Reserve"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &countingService{}
			rec := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCall, svc.calls)

			if tt.wantCode == http.StatusBadRequest {
				assert.Contains(t, rec.Body.String(), "UUID")
			}
		})
	}
}
