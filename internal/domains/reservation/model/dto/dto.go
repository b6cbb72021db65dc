package dto

import "strings"

type ReserveRequest struct {
	BoothIDs []string `json:"booth_ids" validate:"required,min=1,unique,dive,required,uuid"`
	Remark   string   `json:"remark"    validate:"omitempty,max=255"`
	// UserID lets staff reserve on behalf of an exhibitor account. Ignored for exhibitors.
	UserID string `json:"user_id" validate:"omitempty,uuid"`
}

// PaymentCallback is what the gateway reports for a transaction, either on
// the webhook or on the payment callback topic.
type PaymentCallback struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
	Status        string `json:"status"         validate:"required"`
	Reference     string `json:"reference"`
}

// NormalizedStatus lower-cases and trims the gateway status.
func (p *PaymentCallback) NormalizedStatus() string {
	return strings.ToLower(strings.TrimSpace(p.Status))
}

type SweepResponse struct {
	Expired int `json:"expired"`
}
