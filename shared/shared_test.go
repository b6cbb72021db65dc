package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fair/shared"
	cacheMocks "fair/shared/cache/mocks"
	"fair/shared/constant"
	"fair/shared/dto"
)

func boolPtr(b bool) *bool { return &b }

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "false", input: "false", expected: boolPtr(false)},
		{name: "numeric true", input: "1", expected: boolPtr(true)},
		{name: "upper case false", input: "FALSE", expected: boolPtr(false)},
		{name: "garbage returns nil", input: "verified", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 100, limit: 0, expected: 1},
		{name: "negative limit", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateBooth struct {
		Name     string   `db:"name"`
		Sector   string   `db:"sector"`
		Area     *float64 `db:"area"`
		Price    *int64   `db:"price"`
		Note     string
		Internal string `db:"-"`
	}

	area := 9.0
	price := int64(0)

	result := shared.TransformFields(updateBooth{
		Name:     "A-01",
		Area:     &area,
		Price:    &price,
		Note:     "ignored",
		Internal: "ignored",
	}, "admin-1")

	assert.Equal(t, "A-01", result["name"])
	assert.Equal(t, 9.0, result["area"])
	assert.Equal(t, int64(0), result["price"])
	assert.NotContains(t, result, "sector")
	assert.NotContains(t, result, "-")
	assert.Equal(t, "admin-1", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
	assert.Len(t, result, 5)
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("b-1", "id", "booths")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq, Table: "booths"},
		},
	}, result)
}

func TestFilterEq(t *testing.T) {
	group := dto.FilterGroup{}

	shared.FilterEq(&group, "status", "booths", "available")
	shared.FilterEq(&group, "sector", "booths", "")

	assert.Equal(t, dto.FilterGroupOperatorAnd, group.Operator)
	assert.Len(t, group.Filters, 1)

	where, args := group.GetWhereClause()
	assert.Equal(t, "(booths.status = :status)", where)
	assert.Equal(t, "available", args["status"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booth:get", shared.BuildCacheKey("booth:get"))
	assert.Equal(t, "booth:get:b-1", shared.BuildCacheKey("booth:get", "b-1"))
	assert.Equal(t, "stats:transactions:u-1:2025", shared.BuildCacheKey("stats:transactions", "u-1", "2025"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "name", SortDir: dto.SortDirAsc}

	available := dto.FilterGroup{}
	shared.FilterEq(&available, "status", "booths", "available")

	booked := dto.FilterGroup{}
	shared.FilterEq(&booked, "status", "booths", "booked")

	first := shared.BuildCacheKeyWithQuery("booth:gets", params, available)

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("booth:gets", params, available))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("booth:gets", params, booked))
	assert.Contains(t, first, "booth:gets:1:10:name:ASC:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "booth:gets*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "booth:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "booth:count*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "booth:count")
}
