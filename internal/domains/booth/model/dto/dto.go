package dto

import (
	"net/http"

	"github.com/google/uuid"

	"fair/internal/domains/booth/model"
	"fair/shared"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	gModel "fair/shared/model"
	"fair/shared/timezone"
)

// SortableFields are the columns a client may order booth listings by.
var SortableFields = []string{model.FieldName, model.FieldSector, model.FieldCategory, model.FieldPrice, model.FieldArea, constant.FieldCreatedAt}

type CreateBoothRequest struct {
	Name     string  `json:"name"     validate:"required,max=50"`
	Sector   string  `json:"sector"   validate:"required,max=100"`
	Category string  `json:"category" validate:"required,max=100"`
	Size     string  `json:"size"     validate:"omitempty,max=50"`
	Area     float64 `json:"area"     validate:"gt=0"`
	Price    int64   `json:"price"    validate:"gte=0"`
}

// ToModel creates an available booth. New inventory never starts held.
func (c *CreateBoothRequest) ToModel(user string) model.Booth {
	return model.Booth{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Sector:   c.Sector,
		Category: c.Category,
		Size:     c.Size,
		Area:     c.Area,
		Price:    c.Price,
		Status:   model.StatusAvailable,
		Metadata: gModel.NewMetadata(user, timezone.Now()),
	}
}

// UpdateBoothRequest edits inventory attributes. Status is deliberately absent:
// only the reservation engine moves a booth between statuses.
type UpdateBoothRequest struct {
	Name     string   `db:"name"     json:"name"     validate:"omitempty,max=50"`
	Sector   string   `db:"sector"   json:"sector"   validate:"omitempty,max=100"`
	Category string   `db:"category" json:"category" validate:"omitempty,max=100"`
	Size     string   `db:"size"     json:"size"     validate:"omitempty,max=50"`
	Area     *float64 `db:"area"     json:"area"     validate:"omitempty,gt=0"`
	Price    *int64   `db:"price"    json:"price"    validate:"omitempty,gte=0"`
}

type BoothResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Sector   string  `json:"sector"`
	Category string  `json:"category"`
	Size     string  `json:"size"`
	Area     float64 `json:"area"`
	Price    int64   `json:"price"`
	Status   string  `json:"status"`
	BookedBy *string `json:"booked_by,omitempty"`
	Bookdate *string `json:"bookdate,omitempty"`
	gDto.Metadata
}

func (r *BoothResponse) FromModel(booth model.Booth) {
	r.ID = booth.ID
	r.Name = booth.Name
	r.Sector = booth.Sector
	r.Category = booth.Category
	r.Size = booth.Size
	r.Area = booth.Area
	r.Price = booth.Price
	r.Status = string(booth.Status)
	r.BookedBy = booth.BookedBy

	if booth.Bookdate != nil {
		bookdate := timezone.Format(*booth.Bookdate, constant.DateFormat)
		r.Bookdate = &bookdate
	}

	r.Metadata.FromModel(booth.Metadata)
}

type GetBoothsResponse struct {
	Booths    []BoothResponse `json:"booths"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetBoothsResponse) FromModels(models []model.Booth, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Booths = make([]BoothResponse, len(models))
	for i, mod := range models {
		r.Booths[i].FromModel(mod)
	}
}

// BoothFilter narrows listings and projections.
type BoothFilter struct {
	Status   string `json:"status"   validate:"omitempty,oneof=available reserved booked"`
	Sector   string `json:"sector"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

func (f *BoothFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Status = query.Get(model.FieldStatus)
	f.Sector = query.Get(model.FieldSector)
	f.Category = query.Get(model.FieldCategory)
	f.Name = query.Get(model.FieldName)
}

func (f *BoothFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	shared.FilterEq(&group, model.FieldStatus, model.TableName, f.Status)
	shared.FilterEq(&group, model.FieldSector, model.TableName, f.Sector)
	shared.FilterEq(&group, model.FieldCategory, model.TableName, f.Category)

	if f.Name != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldName,
			Value:    f.Name,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	return group
}

// Matches applies the filter to an in-memory booth.
func (f *BoothFilter) Matches(booth model.Booth) bool {
	if f.Status != "" && string(booth.Status) != f.Status {
		return false
	}

	if f.Sector != "" && booth.Sector != f.Sector {
		return false
	}

	if f.Category != "" && booth.Category != f.Category {
		return false
	}

	return true
}
