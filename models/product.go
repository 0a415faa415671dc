// models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a classified-ad marketplace listing. The wire-level
// entityType for products is "marketplace".
type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Condition   string             `json:"condition,omitempty" bson:"condition,omitempty"` // "new", "used"
	Negotiable  bool               `json:"negotiable" bson:"negotiable"`
	City        string             `json:"city,omitempty" bson:"city,omitempty"`
	Images      []string           `json:"images,omitempty" bson:"images,omitempty"`

	ApprovalFields `bson:",inline"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type ProductRequest struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Description string  `json:"description" form:"description"`
	Category    string  `json:"category" form:"category" validate:"required"`
	Price       float64 `json:"price" form:"price" validate:"required,gt=0"`
	Condition   string  `json:"condition" form:"condition"`
	Negotiable  bool    `json:"negotiable" form:"negotiable"`
	City        string  `json:"city" form:"city"`
}
