package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is an account identified by its verified phone number.
type User struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Phone       string        `bson:"phone"`
	LastLoginAt time.Time     `bson:"last_login_at"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}
