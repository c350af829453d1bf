package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Agency - the placing agency; ContactEmail is the notification target.
type Agency struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	ContactName  string             `bson:"contactName,omitempty" json:"contactName,omitempty"`
	ContactEmail string             `bson:"contactEmail" json:"contactEmail"`
}
