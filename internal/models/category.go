package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategorySummary is the admin dashboard view: the category plus the
// length of its relation's items list.
type CategorySummary struct {
	Category

	ProductCount int `json:"productCount"`
}

// CategoryDetail resolves the relation's item ids to full products.
type CategoryDetail struct {
	Category

	Products []Product `json:"products"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}
