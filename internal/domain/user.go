package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles.
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// User represents a gym member, trainer or admin.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RegistrationID string             `bson:"registrationId" json:"registrationId"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"` // unique
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanViewMemberLogs reports whether the role may read another member's
// activity ledger.
func (r Role) CanViewMemberLogs() bool {
	return r == RoleTrainer || r == RoleAdmin
}
