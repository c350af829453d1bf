package database

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client     *mongo.Client
	once       sync.Once // prevents running ConnectMongoDB() twice
	connectErr error

	SubmissionCollection    *mongo.Collection
	QuoteCollection         *mongo.Collection
	QuoteDocumentCollection *mongo.Collection
	ActivityLogCollection   *mongo.Collection
	CarrierCollection       *mongo.Collection
	AgencyCollection        *mongo.Collection
	UserCollection          *mongo.Collection
)

const DBName = "BrokerflowDB"

// ConnectMongoDB connects once and wires the collection handles.
func ConnectMongoDB() error {

	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("❌ MONGO_URI environment variable not set. Please create a .env file and set it.")
	}

	once.Do(func() { // ✅ Run only once
		clientOptions := options.Client().ApplyURI(mongoURI)

		client, connectErr = mongo.Connect(context.TODO(), clientOptions)
		if connectErr != nil {
			log.Fatal("❌ Failed to connect to MongoDB:", connectErr)
			return
		}

		connectErr = client.Ping(context.TODO(), readpref.Primary())
		if connectErr != nil {
			log.Fatal("❌ MongoDB ping failed:", connectErr)
			return
		}

		log.Println("✅ MongoDB connected successfully")

		SubmissionCollection = GetCollection(DBName, "submissions")
		QuoteCollection = GetCollection(DBName, "quotes")
		QuoteDocumentCollection = GetCollection(DBName, "quoteDocuments")
		ActivityLogCollection = GetCollection(DBName, "activityLogs")
		CarrierCollection = GetCollection(DBName, "carriers")
		AgencyCollection = GetCollection(DBName, "agencies")
		UserCollection = GetCollection(DBName, "users")

		connectErr = ensureIndexes(context.TODO())
		if connectErr != nil {
			log.Fatal("❌ Failed to create indexes:", connectErr)
		}
	})

	return connectErr
}

// ensureIndexes creates the write-time uniqueness guarantees: one quote per
// (submission, carrier) and one document per (quote, type). Duplicate-key
// errors from these indexes surface as conflicts in the services.
func ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := QuoteCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "submissionId", Value: 1}, {Key: "carrierId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = QuoteDocumentCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "quoteId", Value: 1}, {Key: "documentType", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = ActivityLogCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "submissionId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// GetCollection returns a collection handle from the shared client.
func GetCollection(dbName, collectionName string) *mongo.Collection {
	if client == nil {
		log.Fatal("❌ MongoDB client is nil")
	}
	return client.Database(dbName).Collection(collectionName)
}
