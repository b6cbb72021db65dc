package model

import "fair/shared/model"

const (
	TableName  = "exhibitors"
	EntityName = "exhibitor"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldCompanyName = "company_name"
	FieldContactName = "contact_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldAddress     = "address"
	FieldWebsite     = "website"
	FieldLogoURL     = "logo_url"
	FieldVerified    = "verified"
	FieldActive      = "active"

	// LogoDirectory is the bucket folder holding exhibitor logos.
	LogoDirectory = "exhibitors"
)

const (
	CacheKeyGet    = "exhibitor:get"
	CacheKeyGetAll = "exhibitor:gets"
	CacheKeyCount  = "exhibitor:count"
)

// Exhibitor is a company renting booths. UserID links the account that
// signs in on its behalf, when one exists.
type Exhibitor struct {
	ID          string  `db:"id"`
	UserID      *string `db:"user_id"`
	CompanyName string  `db:"company_name"`
	ContactName string  `db:"contact_name"`
	Email       string  `db:"email"`
	Phone       string  `db:"phone"`
	Address     string  `db:"address"`
	Website     string  `db:"website"`
	LogoURL     *string `db:"logo_url"`
	Verified    bool    `db:"verified"`
	Active      bool    `db:"active"`
	model.Metadata
}
