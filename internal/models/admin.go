package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles an Admin account can carry.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Admin is a back-office account (owner or staff member).
type Admin struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                     string             `bson:"name" json:"name"`
	Email                    string             `bson:"email" json:"email"`
	PasswordHash             string             `bson:"passwordHash" json:"-"`
	Role                     string             `bson:"role" json:"role"`
	Phone                    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Image                    string             `bson:"image,omitempty" json:"image,omitempty"`
	ConfirmationToken        string             `bson:"confirmationToken,omitempty" json:"-"`
	ConfirmationTokenExpires *time.Time         `bson:"confirmationTokenExpires,omitempty" json:"-"`
	CreatedAt                time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time          `bson:"updatedAt" json:"updatedAt"`
}
