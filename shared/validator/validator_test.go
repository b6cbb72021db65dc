package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fair/shared/failure"
	"fair/shared/validator"
)

type reserveRequest struct {
	BoothIDs []string `json:"booth_ids" validate:"required,min=1,unique,dive,required"`
	Remark   string   `json:"remark"    validate:"omitempty,max=255"`
}

type boothRequest struct {
	Name   string  `json:"name"   validate:"required,max=50"`
	Area   float64 `json:"area"   validate:"gt=0"`
	Price  int64   `json:"price"  validate:"gte=0"`
	Status string  `json:"status" validate:"omitempty,oneof=available reserved booked"`
}

type exhibitorRequest struct {
	Email string `json:"email" validate:"required,email"`
	Logo  string `json:"logo"  validate:"omitempty,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    reserveRequest
		wantMsg string
	}{
		{name: "valid", data: reserveRequest{BoothIDs: []string{"b-1", "b-2"}}},
		{name: "empty set", data: reserveRequest{}, wantMsg: "booth_ids is required"},
		{name: "empty list", data: reserveRequest{BoothIDs: []string{}}, wantMsg: "booth_ids must contain at least 1 items"},
		{name: "blank id", data: reserveRequest{BoothIDs: []string{""}}, wantMsg: "booth_ids[0] is required"},
		{name: "duplicate ids", data: reserveRequest{BoothIDs: []string{"b-1", "b-1"}}, wantMsg: "booth_ids must not contain duplicates"},
		{name: "remark too long", data: reserveRequest{BoothIDs: []string{"b-1"}, Remark: strings.Repeat("x", 256)}, wantMsg: "remark must be at most 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantMsg)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateStruct_Booth(t *testing.T) {
	assert.NoError(t, validator.ValidateStruct(&boothRequest{Name: "A-01", Area: 9, Price: 1500000}))
	assert.EqualError(t, validator.ValidateStruct(&boothRequest{Name: "A-01"}), "area must be greater than 0")
	assert.EqualError(t, validator.ValidateStruct(&boothRequest{Name: "A-01", Area: 9, Status: "sold"}), "status must be one of available reserved booked")
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidateStruct_StringBounds(t *testing.T) {
	assert.EqualError(t, validator.ValidateStruct(&passwordRequest{Password: "short"}), "password must be at least 8 characters")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("exhibitor@fair.test", "email"))
	assert.Error(t, validator.ValidateVar("not-an-email", "email"))
	assert.NoError(t, validator.ValidateVar("5f0c7b1e-8b7a-4c35-9d59-1f4c2f1d9a10", "uuid"))
	assert.Error(t, validator.ValidateVar("b-1", "uuid"))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, validator.ValidateID("5f0c7b1e-8b7a-4c35-9d59-1f4c2f1d9a10"))

	for _, id := range []string{"", "A-12", "5f0c7b1e-8b7a-4c35-9d59"} {
		err := validator.ValidateID(id)
		assert.EqualError(t, err, "id must be a valid UUID", id)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err), id)
	}
}

func TestValidate(t *testing.T) {
	t.Run("decodes and validates", func(t *testing.T) {
		var req reserveRequest

		err := validator.Validate(strings.NewReader(`{"booth_ids":["b-1"],"remark":"corner please"}`), &req)
		assert.NoError(t, err)
		assert.Equal(t, []string{"b-1"}, req.BoothIDs)
	})

	t.Run("empty body", func(t *testing.T) {
		var req reserveRequest

		err := validator.Validate(strings.NewReader(""), &req)
		assert.EqualError(t, err, "request body is empty")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		var req reserveRequest

		err := validator.Validate(strings.NewReader(`{"booth_ids":`), &req)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestMimetypeValidation(t *testing.T) {
	png := "data:image/png;base64,iVBORw0KGgo="
	gif := "data:image/gif;base64,R0lGODlh"

	assert.NoError(t, validator.ValidateStruct(&exhibitorRequest{Email: "a@b.co", Logo: png}))
	assert.Error(t, validator.ValidateStruct(&exhibitorRequest{Email: "a@b.co", Logo: gif}))
	assert.Error(t, validator.ValidateStruct(&exhibitorRequest{Email: "a@b.co", Logo: "plain text"}))
}
