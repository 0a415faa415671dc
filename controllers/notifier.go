package controllers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/utils"
)

// ownerNotifier delivers decision notifications (email + in-app) to
// listing owners in the background
type ownerNotifier struct {
	db *mongo.Database
}

// NewDecisionNotifier returns the production DecisionNotifier
func NewDecisionNotifier(db *mongo.Database) DecisionNotifier {
	return &ownerNotifier{db: db}
}

func (n *ownerNotifier) EntityDecision(ownerID primitive.ObjectID, kind models.EntityKind, entityName, status, notes string) {
	go utils.NotifyEntityDecision(n.db, ownerID, kind, entityName, status, notes)
}
