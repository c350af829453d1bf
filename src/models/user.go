package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Roles carried in the JWT.
const (
	RoleAdmin  = "admin"
	RoleAgency = "agency"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"` // bcrypt hash, never returned
	Name     string             `bson:"name" json:"name"`
	Role     string             `bson:"role" json:"role"`
	AgencyID primitive.ObjectID `bson:"agencyId,omitempty" json:"agencyId,omitempty"` // set for agency users
}
