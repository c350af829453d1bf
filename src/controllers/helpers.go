package controllers

import (
	"Backend-Brokerflow/src/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actorFromCtx builds the audit actor from the JWT claims the middleware
// stashed on the context.
func actorFromCtx(c *fiber.Ctx) models.ActorRef {
	actor := models.ActorRef{
		Name: asString(c.Locals("name")),
		Role: asString(c.Locals("role")),
	}
	if id, err := primitive.ObjectIDFromHex(asString(c.Locals("userId"))); err == nil {
		actor.ID = id
	}
	return actor
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// parseObjectID reads a path param as an ObjectID.
func parseObjectID(c *fiber.Ctx, param string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Params(param))
}
