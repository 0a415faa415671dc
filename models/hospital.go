// models/hospital.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Hospital struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID        primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Category       string             `json:"category" bson:"category"` // "hospital", "clinic", "diagnostic"
	Departments    []string           `json:"departments,omitempty" bson:"departments,omitempty"`
	Address        Address            `json:"address" bson:"address"`
	Phones         []string           `json:"phones,omitempty" bson:"phones,omitempty"`
	EmergencyPhone string             `json:"emergencyPhone,omitempty" bson:"emergencyPhone,omitempty"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Images         []string           `json:"images,omitempty" bson:"images,omitempty"`

	ApprovalFields `bson:",inline"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type HospitalRequest struct {
	Name           string   `json:"name" form:"name" validate:"required"`
	Description    string   `json:"description" form:"description"`
	Category       string   `json:"category" form:"category" validate:"required"`
	Departments    []string `json:"departments" form:"departments"`
	City           string   `json:"city" form:"city" validate:"required"`
	Street         string   `json:"street" form:"street"`
	Phones         []string `json:"phones" form:"phones"`
	EmergencyPhone string   `json:"emergencyPhone" form:"emergencyPhone"`
	Email          string   `json:"email" form:"email"`
	Website        string   `json:"website" form:"website"`
}
