package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fair/shared/constant"
	"fair/shared/dto"
	"fair/shared/model"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	modifiedAt := createdAt.Add(2 * time.Hour)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "admin-1",
		ModifiedBy: "admin-2",
	})

	assert.Equal(t, createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "admin-1", metadata.CreatedBy)
	assert.Equal(t, "admin-2", metadata.ModifiedBy)
}

func TestMetadata_FromModel_Untouched(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{ModifiedBy: "stale"}
	metadata.FromModel(model.NewMetadata("exhibitor-1", createdAt))

	assert.Equal(t, "exhibitor-1", metadata.CreatedBy)
	assert.Empty(t, metadata.ModifiedAt)
	assert.Empty(t, metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			target:   "/v1/booths?page=2&limit=20&sort_by=name&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults applied",
			target:         "/v1/booths",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit capped",
			target:   "/v1/booths?limit=5000",
			expected: dto.QueryParams{Limit: dto.MaxLimit},
		},
		{
			name:     "invalid numbers and direction ignored",
			target:   "/v1/booths?page=-1&limit=abc&sort_dir=sideways",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params dto.QueryParams

			params.FromRequest(httptest.NewRequest("GET", tt.target, nil), tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_OffsetAndOrderBy(t *testing.T) {
	params := dto.QueryParams{Page: 3, Limit: 20, SortBy: "price", SortDir: dto.SortDirDesc}

	assert.Equal(t, 40, params.Offset())
	assert.Equal(t, "ORDER BY price DESC", params.OrderBy())
	assert.Zero(t, dto.QueryParams{Limit: 20}.Offset())
	assert.Empty(t, dto.QueryParams{SortBy: "price"}.OrderBy())
}

func TestQueryParams_RestrictSort(t *testing.T) {
	params := dto.QueryParams{SortBy: "price"}
	params.RestrictSort("name", "price")
	assert.Equal(t, dto.QueryParams{SortBy: "price", SortDir: dto.SortDirAsc}, params)

	params = dto.QueryParams{SortBy: "price; DROP TABLE booths", SortDir: dto.SortDirAsc}
	params.RestrictSort("name", "price")
	assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
	assert.Equal(t, constant.DefaultValueSortDir, params.SortDir)
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Value: "available", Operator: dto.FilterOperatorEq, Table: "booths"},
			dto.Filter{Field: "id", Value: []string{"b-1", "b-2"}, Operator: dto.FilterOperatorIn, Table: "booths"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "sector", Value: "hall", Operator: dto.FilterOperatorLike},
					dto.Filter{Field: "booked_by", Operator: dto.FilterIsNull},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(booths.status = :status AND booths.id IN (:id_0, :id_1) AND (LOWER(sector) LIKE LOWER(:sector) OR booked_by IS NULL))", where)
	assert.Equal(t, map[string]any{"status": "available", "id_0": "b-1", "id_1": "b-2", "sector": "%hall%"}, args)
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "like escapes wildcards",
			filter:    dto.Filter{Field: "sector", Value: "50%_off", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(sector) LIKE LOWER(:sector)",
			wantArgs:  map[string]any{"sector": `%50\%\_off%`},
		},
		{
			name:      "scalar in binds as equality",
			filter:    dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorIn, Table: "booths"},
			wantWhere: "booths.id = :id",
			wantArgs:  map[string]any{"id": "b-1"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "strict comparison with custom arg name",
			filter:    dto.Filter{Field: "expired_at", ArgName: "now", Value: 10, Operator: dto.FilterOperatorLess, Table: "transactions"},
			wantWhere: "transactions.expired_at < :now",
			wantArgs:  map[string]any{"now": 10},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "id", Value: 1, Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_SkipsEmptyClauses(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.FilterGroup{Operator: dto.FilterGroupOperatorOr},
			dto.Filter{Field: "status", Value: "booked", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "note", Operator: dto.FilterPlainQuery},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(status = :status)", where)
	assert.Equal(t, map[string]any{"status": "booked"}, args)
}
