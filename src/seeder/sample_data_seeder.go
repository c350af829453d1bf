package seeder

import (
	"context"
	"log"

	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeedSampleData creates a starter carrier, agency and two users for local
// development. Idempotent: records found by email/name are left alone.
func SeedSampleData() error {
	ctx := context.Background()

	carriers := []models.Carrier{
		{Name: "Lexington Insurance Company", NAICCode: "19437", ContactEmail: "underwriting@lexington.example.com"},
		{Name: "Scottsdale Insurance Company", NAICCode: "41297", ContactEmail: "submissions@scottsdale.example.com"},
	}
	for _, carrier := range carriers {
		count, err := DB.CarrierCollection.CountDocuments(ctx, bson.M{"name": carrier.Name})
		if err != nil {
			return err
		}
		if count == 0 {
			if _, err := DB.CarrierCollection.InsertOne(ctx, carrier); err != nil {
				return err
			}
			log.Println("✅ Seeded carrier:", carrier.Name)
		}
	}

	agency := models.Agency{
		Name:         "Acme Insurance Agency",
		ContactName:  "Jordan Reyes",
		ContactEmail: "jordan@acme-agency.example.com",
	}
	var existing models.Agency
	err := DB.AgencyCollection.FindOne(ctx, bson.M{"name": agency.Name}).Decode(&existing)
	if err == nil {
		agency.ID = existing.ID
	} else {
		res, err := DB.AgencyCollection.InsertOne(ctx, agency)
		if err != nil {
			return err
		}
		agency.ID = res.InsertedID.(primitive.ObjectID)
		log.Println("✅ Seeded agency:", agency.Name)
	}

	users := []struct {
		email, name, role, password string
		withAgency                  bool
	}{
		{"admin@brokerflow.local", "Brokerflow Admin", models.RoleAdmin, "admin1234", false},
		{"agent@acme-agency.example.com", "Jordan Reyes", models.RoleAgency, "agent1234", true},
	}
	for _, u := range users {
		count, err := DB.UserCollection.CountDocuments(ctx, bson.M{"email": u.email})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := models.User{Email: u.email, Password: hash, Name: u.name, Role: u.role}
		if u.withAgency {
			user.AgencyID = agency.ID
		}
		if _, err := DB.UserCollection.InsertOne(ctx, user); err != nil {
			return err
		}
		log.Println("✅ Seeded user:", u.email)
	}

	return nil
}
