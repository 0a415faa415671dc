// models/institute.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Institute struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Category    string             `json:"category" bson:"category"` // "school", "college", "coaching", ...
	Courses     []Course           `json:"courses,omitempty" bson:"courses,omitempty"`
	Address     Address            `json:"address" bson:"address"`
	Phones      []string           `json:"phones,omitempty" bson:"phones,omitempty"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Website     string             `json:"website,omitempty" bson:"website,omitempty"`
	Images      []string           `json:"images,omitempty" bson:"images,omitempty"`

	// Verified predates approvalStatus and is still read by the older
	// institute listing UI; it is set true on approval
	Verified bool `json:"verified" bson:"verified"`

	ApprovalFields `bson:",inline"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Course struct {
	Name     string  `json:"name" bson:"name"`
	Duration string  `json:"duration,omitempty" bson:"duration,omitempty"`
	Fee      float64 `json:"fee,omitempty" bson:"fee,omitempty"`
}

type InstituteRequest struct {
	Name        string   `json:"name" form:"name" validate:"required"`
	Description string   `json:"description" form:"description"`
	Category    string   `json:"category" form:"category" validate:"required"`
	City        string   `json:"city" form:"city" validate:"required"`
	Street      string   `json:"street" form:"street"`
	Phones      []string `json:"phones" form:"phones"`
	Email       string   `json:"email" form:"email"`
	Website     string   `json:"website" form:"website"`
	Courses     []Course `json:"courses"`
}
