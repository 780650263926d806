package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance is one member's presence record for one calendar day. The
// (UserID, Date) pair is unique; the nightly scheduler fills in absent
// records for everyone who never checked in.
type Attendance struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   string             `bson:"user_id" json:"user_id"`
	Date     string             `bson:"date" json:"date"` // canonical day key
	Present  bool               `bson:"present" json:"present"`
	MarkedAt time.Time          `bson:"markedAt" json:"markedAt"`
}
