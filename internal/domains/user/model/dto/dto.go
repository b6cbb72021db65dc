package dto

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"fair/internal/domains/user/model"
	"fair/shared"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	gModel "fair/shared/model"
	"fair/shared/timezone"
)

var SortableFields = []string{model.FieldEmail, model.FieldRole, model.FieldLastLogin, constant.FieldCreatedAt}

// CreateUserRequest is used by staff to open accounts. Exhibitors register themselves.
type CreateUserRequest struct {
	Email    string  `json:"email"               validate:"required,email"`
	Password string  `json:"password"            validate:"required,min=8,max=72"`
	Role     string  `json:"role"                validate:"required,oneof=superadmin admin exhibitor"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
}

func (r *CreateUserRequest) ToModel(createdBy, hashedPassword string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(r.Email),
		Password: hashedPassword,
		Role:     r.Role,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(createdBy, timezone.Now()),
	}
}

type UpdateUserRequest struct {
	Role     *string `db:"role"      json:"role,omitempty"      validate:"omitempty,oneof=superadmin admin exhibitor"`
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Active   *bool   `db:"active"    json:"active,omitempty"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	FullName  *string `json:"full_name,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Email = user.Email
	r.Role = user.Role
	r.FullName = user.FullName
	r.Active = user.Active
	r.LastLogin = nil

	if user.LastLogin != nil {
		lastLogin := timezone.Format(*user.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(user.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(users []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(users))
	for i, user := range users {
		r.Users[i].FromModel(user)
	}
}

type UserFilter struct {
	Role   string `json:"role"   validate:"omitempty,oneof=superadmin admin exhibitor"`
	Email  string `json:"email"`
	Active *bool  `json:"active"`
}

func (f *UserFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Role = query.Get(model.FieldRole)
	f.Email = query.Get(model.FieldEmail)
	f.Active = shared.ConvertStringToBool(query.Get(model.FieldActive))
}

func (f *UserFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	shared.FilterEq(&group, model.FieldRole, model.TableName, f.Role)

	if f.Email != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldEmail,
			Value:    f.Email,
			Operator: gDto.FilterOperatorLike,
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

// UpdateLastLoginRequest stamps a successful login.
type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login"`
}
