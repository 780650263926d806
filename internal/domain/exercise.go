package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single entry in the gym's exercise library, maintained by
// trainers and admins.
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Sets      int                `bson:"sets" json:"sets"`
	Reps      int                `bson:"reps" json:"reps"`
	Type      string             `bson:"type" json:"type"`         // e.g. "Strength", "Cardio"
	Category  string             `bson:"category" json:"category"` // e.g. "Beginner", "Advanced"
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
