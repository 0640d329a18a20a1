package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted user document. The password hash is never
// serialized to JSON.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Title     string             `bson:"title" json:"title"`
	Role      string             `bson:"role" json:"role"`
	IsAdmin   bool               `bson:"isAdmin" json:"isAdmin"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
