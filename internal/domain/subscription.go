package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionPlan is a gym membership tier offered to members.
type SubscriptionPlan struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanName       string             `bson:"plan_name" json:"plan_name"`
	DurationMonths int                `bson:"duration" json:"duration"` // 1, 3, 6 or 12
	Price          float64            `bson:"price" json:"price"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Membership links a member to a subscription plan for a period. Expired
// memberships are deactivated by the nightly scheduler.
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	PlanID    primitive.ObjectID `bson:"plan_id" json:"plan_id"`
	StartedAt time.Time          `bson:"startedAt" json:"startedAt"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	Active    bool               `bson:"active" json:"active"`
}
