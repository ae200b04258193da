package dto

import "time"

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Unit        string  `json:"unit" binding:"required"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int32   `json:"stock" binding:"gte=0"`
	CategoryID  *string `json:"categoryId"`

	IsOrganic       bool `json:"isOrganic"`
	IsNonGMO        bool `json:"isNonGMO"`
	IsSustainable   bool `json:"isSustainable"`
	IsPastureRaised bool `json:"isPastureRaised"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	ImageURL    *string  `json:"imageUrl"`
	Stock       *int32   `json:"stock"`
	CategoryID  *string  `json:"categoryId"`
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Stock       int32     `json:"stock"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	FarmerID    string    `json:"farmerId"`
	CreatedAt   time.Time `json:"createdAt"`

	IsOrganic       bool `json:"isOrganic"`
	IsNonGMO        bool `json:"isNonGMO"`
	IsSustainable   bool `json:"isSustainable"`
	IsPastureRaised bool `json:"isPastureRaised"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
