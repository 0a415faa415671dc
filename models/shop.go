// models/shop.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Shop struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId"` // Reference to the user
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Category    string             `json:"category" bson:"category"`
	SubCategory string             `json:"subCategory,omitempty" bson:"subCategory,omitempty"`
	Address     Address            `json:"address" bson:"address"`
	Phones      []string           `json:"phones,omitempty" bson:"phones,omitempty"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Website     string             `json:"website,omitempty" bson:"website,omitempty"`
	Images      []string           `json:"images,omitempty" bson:"images,omitempty"`
	LogoURL     string             `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
	OpeningHrs  string             `json:"openingHours,omitempty" bson:"openingHours,omitempty"`

	ApprovalFields `bson:",inline"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Address struct {
	Country  string  `json:"country,omitempty" bson:"country,omitempty"`
	District string  `json:"district,omitempty" bson:"district,omitempty"`
	City     string  `json:"city" bson:"city"`
	Street   string  `json:"street,omitempty" bson:"street,omitempty"`
	Lat      float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// ShopRequest is the creation wizard payload (multipart text fields)
type ShopRequest struct {
	Name        string   `json:"name" form:"name" validate:"required"`
	Description string   `json:"description" form:"description"`
	Category    string   `json:"category" form:"category" validate:"required"`
	SubCategory string   `json:"subCategory" form:"subCategory"`
	City        string   `json:"city" form:"city" validate:"required"`
	Street      string   `json:"street" form:"street"`
	Phones      []string `json:"phones" form:"phones"`
	Email       string   `json:"email" form:"email"`
	Website     string   `json:"website" form:"website"`
	OpeningHrs  string   `json:"openingHours" form:"openingHours"`
}
