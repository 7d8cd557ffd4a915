package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRelation maps one category to its member product ids. The
// document id always equals the category id, so a category's relation is
// addressable without a query. A product id appears in at most one
// relation's items list at a time.
type CategoryRelation struct {
	ID        uuid.UUID   `json:"id"`
	Category  uuid.UUID   `json:"category" validate:"required"`
	Items     []uuid.UUID `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (r *CategoryRelation) Contains(productID uuid.UUID) bool {
	for _, id := range r.Items {
		if id == productID {
			return true
		}
	}

	return false
}

// WithoutItem returns the items list with productID filtered out.
func (r *CategoryRelation) WithoutItem(productID uuid.UUID) []uuid.UUID {
	items := make([]uuid.UUID, 0, len(r.Items))

	for _, id := range r.Items {
		if id != productID {
			items = append(items, id)
		}
	}

	return items
}
