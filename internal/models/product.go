package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductWithCategory is the aggregated catalog view: the product joined
// with the id of the category whose relation document lists it, if any.
type ProductWithCategory struct {
	Product

	CategoryID *uuid.UUID `json:"categoryId"`
}

type CreateProductRequest struct {
	Title       string          `json:"title" validate:"required,min=2,max=200"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Tags        []string        `json:"tags,omitempty"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty"`
}

type UpdateProductRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Tags        []string         `json:"tags,omitempty"`
	CategoryID  *uuid.UUID       `json:"categoryId,omitempty"`
}
