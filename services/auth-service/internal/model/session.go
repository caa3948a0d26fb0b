package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session is a login established by a successful OTP verification. Its ID is the access token's
// JWT ID.
type Session struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"user_id"`
	Phone     string        `bson:"phone"`
	IPAddress *string       `bson:"ip_address"`
	UserAgent *string       `bson:"user_agent"`
	ExpiresAt time.Time     `bson:"expires_at"`
	RevokedAt *time.Time    `bson:"revoked_at"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}
