package dto

import (
	"net/http"

	"github.com/google/uuid"

	"fair/internal/domains/exhibitor/model"
	"fair/shared"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	gModel "fair/shared/model"
	"fair/shared/timezone"
)

var SortableFields = []string{model.FieldCompanyName, model.FieldContactName, model.FieldEmail, constant.FieldCreatedAt}

type CreateExhibitorRequest struct {
	UserID      *string `json:"user_id"      validate:"omitempty,uuid"`
	CompanyName string  `json:"company_name" validate:"required,max=150"`
	ContactName string  `json:"contact_name" validate:"required,max=100"`
	Email       string  `json:"email"        validate:"required,email"`
	Phone       string  `json:"phone"        validate:"omitempty,max=30"`
	Address     string  `json:"address"      validate:"omitempty,max=255"`
	Website     string  `json:"website"      validate:"omitempty,url"`
	// Logo is a base64 data URI.
	Logo string `json:"logo" validate:"omitempty,mimetypes=image/png image/jpeg image/webp,maxfilesize=2"`
}

// ToModel builds an unverified, active exhibitor. The logo is uploaded by
// the service, which fills LogoURL afterwards.
func (c *CreateExhibitorRequest) ToModel(user string) model.Exhibitor {
	return model.Exhibitor{
		ID:          uuid.NewString(),
		UserID:      c.UserID,
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Website:     c.Website,
		Active:      true,
		Metadata:    gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateExhibitorRequest struct {
	CompanyName string `db:"company_name" json:"company_name" validate:"omitempty,max=150"`
	ContactName string `db:"contact_name" json:"contact_name" validate:"omitempty,max=100"`
	Email       string `db:"email"        json:"email"        validate:"omitempty,email"`
	Phone       string `db:"phone"        json:"phone"        validate:"omitempty,max=30"`
	Address     string `db:"address"      json:"address"      validate:"omitempty,max=255"`
	Website     string `db:"website"      json:"website"      validate:"omitempty,url"`
	Verified    *bool  `db:"verified"     json:"verified"`
	Active      *bool  `db:"active"       json:"active"`
	Logo        string `db:"-"            json:"logo"         validate:"omitempty,mimetypes=image/png image/jpeg image/webp,maxfilesize=2"`
}

type ExhibitorResponse struct {
	ID          string  `json:"id"`
	UserID      *string `json:"user_id,omitempty"`
	CompanyName string  `json:"company_name"`
	ContactName string  `json:"contact_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Website     string  `json:"website"`
	LogoURL     *string `json:"logo_url,omitempty"`
	Verified    bool    `json:"verified"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *ExhibitorResponse) FromModel(exhibitor model.Exhibitor) {
	r.ID = exhibitor.ID
	r.UserID = exhibitor.UserID
	r.CompanyName = exhibitor.CompanyName
	r.ContactName = exhibitor.ContactName
	r.Email = exhibitor.Email
	r.Phone = exhibitor.Phone
	r.Address = exhibitor.Address
	r.Website = exhibitor.Website
	r.LogoURL = exhibitor.LogoURL
	r.Verified = exhibitor.Verified
	r.Active = exhibitor.Active
	r.Metadata.FromModel(exhibitor.Metadata)
}

type GetExhibitorsResponse struct {
	Exhibitors []ExhibitorResponse `json:"exhibitors"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetExhibitorsResponse) FromModels(models []model.Exhibitor, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Exhibitors = make([]ExhibitorResponse, len(models))
	for i, mod := range models {
		r.Exhibitors[i].FromModel(mod)
	}
}

type ExhibitorFilter struct {
	CompanyName string
	Verified    *bool
	Active      *bool
}

func (f *ExhibitorFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.CompanyName = query.Get(model.FieldCompanyName)
	f.Verified = shared.ConvertStringToBool(query.Get(model.FieldVerified))
	f.Active = shared.ConvertStringToBool(query.Get(model.FieldActive))
}

func (f *ExhibitorFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.CompanyName != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCompanyName,
			Value:    f.CompanyName,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	if f.Verified != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldVerified,
			Value:    *f.Verified,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if f.Active != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Value:    *f.Active,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return group
}
