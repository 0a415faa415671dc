package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/mdrafiul/localmart_backend/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Database, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := db.Collection("notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail delivers a plain-text email over the configured SMTP relay.
// Failures are returned so callers can decide whether to log or abort;
// workflow side effects treat email as best effort.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// NotifyEntityDecision informs a listing owner that an admin approved or
// rejected their submission. Email and in-app notification are both best
// effort.
func NotifyEntityDecision(db *mongo.Database, ownerID primitive.ObjectID, kind models.EntityKind, entityName, status, notes string) {
	var owner models.User
	err := db.Collection("users").FindOne(context.Background(), bson.M{"_id": ownerID}).Decode(&owner)
	if err != nil {
		log.Printf("failed to load owner %s for decision notification: %v", ownerID.Hex(), err)
		return
	}

	subject := fmt.Sprintf("Your %s listing has been %s", kind, status)
	body := fmt.Sprintf("Dear %s,\n\nYour %s listing %q has been %s.", owner.FullName, kind, entityName, status)
	if notes != "" {
		body += fmt.Sprintf("\n\nReviewer notes: %s", notes)
	}
	body += "\n\nRegards,\nLocalmart Team"

	if err := SendEmail(owner.Email, subject, body); err != nil {
		log.Printf("failed to send decision email to %s: %v", owner.Email, err)
	}

	err = SaveNotification(db, ownerID, subject, body, "entity_decision", map[string]interface{}{
		"entityType": kind,
		"entityName": entityName,
		"status":     status,
	})
	if err != nil {
		log.Printf("failed to save decision notification for %s: %v", ownerID.Hex(), err)
	}
}

// NotifyPaymentStatus informs a user of an admin change to their payment
// request status
func NotifyPaymentStatus(db *mongo.Database, userID primitive.ObjectID, transactionID, status, notes string) {
	var user models.User
	err := db.Collection("users").FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		log.Printf("failed to load user %s for payment notification: %v", userID.Hex(), err)
		return
	}

	subject := fmt.Sprintf("Payment %s %s", transactionID, status)
	body := fmt.Sprintf("Dear %s,\n\nYour payment with transaction reference %s is now %s.", user.FullName, transactionID, status)
	if notes != "" {
		body += fmt.Sprintf("\n\nNotes: %s", notes)
	}
	body += "\n\nRegards,\nLocalmart Team"

	if err := SendEmail(user.Email, subject, body); err != nil {
		log.Printf("failed to send payment email to %s: %v", user.Email, err)
	}

	err = SaveNotification(db, userID, subject, body, "payment_status", map[string]interface{}{
		"transactionId": transactionID,
		"status":        status,
	})
	if err != nil {
		log.Printf("failed to save payment notification for %s: %v", userID.Hex(), err)
	}
}
