package repository_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"fair/shared/failure"
	"fair/shared/repository"
)

func TestMapPqError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantSame bool
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505"}, wantCode: http.StatusConflict},
		{name: "wrapped fk violation", err: fmt.Errorf("failed to delete data (booth): %w", &pq.Error{Code: "23503"}), wantCode: http.StatusConflict},
		{name: "malformed uuid", err: fmt.Errorf("failed to get data (booth): %w", &pq.Error{Code: "22P02"}), wantCode: http.StatusBadRequest},
		{name: "other pq error", err: &pq.Error{Code: "42P01"}, wantCode: http.StatusInternalServerError, wantSame: true},
		{name: "plain error", err: plain, wantCode: http.StatusInternalServerError, wantSame: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapPqError(tt.err, "booth")

			assert.Equal(t, tt.wantCode, failure.GetCode(got))

			if tt.wantSame {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
