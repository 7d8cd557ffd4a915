package repository

import (
	"fmt"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/go-playground/validator/v10"
)

// Repositories bundles the typed accessors for every collection, all
// sharing one document store client.
type Repositories struct {
	Product  ProductRepository
	Category CategoryRepository
	Relation RelationRepository
	Cart     CartRepository
	Order    OrderRepository
	Feedback FeedbackRepository
	User     UserRepository
}

func New(store docstore.Store) *Repositories {
	return &Repositories{
		Product:  NewProductRepo(store),
		Category: NewCategoryRepo(store),
		Relation: NewRelationRepo(store),
		Cart:     NewCartRepo(store),
		Order:    NewOrderRepo(store),
		Feedback: NewFeedbackRepo(store),
		User:     NewUserRepo(store),
	}
}

var validate = validator.New()

// decodeDocument unmarshals and validates a stored document. Documents
// missing required fields are rejected here instead of being trusted
// downstream.
func decodeDocument(doc *docstore.Document, dest any) error {
	if err := doc.Decode(dest); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
	}

	if err := validate.Struct(dest); err != nil {
		return fmt.Errorf("document %s is malformed: %w", doc.ID, err)
	}

	return nil
}
