package partner

import "github.com/google/uuid"

// ReplaceBrandsRequest carries the full brand selection for a client
type ReplaceBrandsRequest struct {
	BrandIDs []string `json:"brand_ids" binding:"omitempty,dive,uuid"`
}

// ClientBrandsResponse lists the brands linked to a client
type ClientBrandsResponse struct {
	ClientID uuid.UUID   `json:"client_id"`
	BrandIDs []uuid.UUID `json:"brand_ids"`
}
