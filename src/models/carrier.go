package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Carrier - the underwriter providing quoted terms.
type Carrier struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NAICCode     string             `bson:"naicCode,omitempty" json:"naicCode,omitempty"`
	ContactEmail string             `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
}
