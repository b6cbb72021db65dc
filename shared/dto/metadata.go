package dto

import (
	"fair/shared/constant"
	"fair/shared/model"
	"fair/shared/timezone"
)

// Metadata is the audit block embedded in every resource response. The
// modification pair is omitted until the record is touched after creation.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(audit model.Metadata) {
	m.CreatedAt = timezone.Format(audit.CreatedAt, constant.DateFormat)
	m.CreatedBy = audit.CreatedBy
	m.ModifiedAt, m.ModifiedBy = "", ""

	if audit.ModifiedAt.After(audit.CreatedAt) {
		m.ModifiedAt = timezone.Format(audit.ModifiedAt, constant.DateFormat)
		m.ModifiedBy = audit.ModifiedBy
	}
}
