package models

// Requests for the price API endpoints. Defined in domain for consistency and reuse.

type ProductsRequest struct {
	Geo string `query:"geo" json:"geo" validate:"required"`
}

type ChangesRequest struct {
	Geo     string `query:"geo" json:"geo" validate:"required"`
	Product string `query:"product" json:"product"`
	Limit   int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type StreaksRequest struct {
	Geo     string `query:"geo" json:"geo" validate:"required"`
	Product string `query:"product" json:"product"`
	Type    string `query:"type" json:"type" validate:"omitempty,oneof=increase decrease"`
	Limit   int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
