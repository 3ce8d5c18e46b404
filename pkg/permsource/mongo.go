package permsource

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

// MongoConfig holds the configuration for a MongoDB-backed document source.
type MongoConfig struct {
	ConnectionURL  string        `env:"PERMISSIONS_MONGODB_URL,required"`                               // ConnectionURL is the URL of the database.
	Database       string        `env:"PERMISSIONS_MONGODB_DATABASE" envDefault:"permissions"`          // Database holding the configuration collection.
	Collection     string        `env:"PERMISSIONS_MONGODB_COLLECTION" envDefault:"permission_configs"` // Collection holding the configuration document.
	ConnectTimeout time.Duration `env:"PERMISSIONS_MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`           // ConnectTimeout for each connection attempt.
	RetryAttempts  int           `env:"PERMISSIONS_MONGODB_RETRY_ATTEMPTS" envDefault:"3"`              // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"PERMISSIONS_MONGODB_RETRY_INTERVAL" envDefault:"5s"`             // RetryInterval is the wait between attempts.
}

// ConnectMongo establishes a MongoDB connection with retries, verifying
// each attempt with a ping.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}

		time.Sleep(cfg.RetryInterval)
	}

	return nil, ErrConnectionFailed
}

// Mongo loads the configuration from a single document in a collection.
// The document carries the same shape as the JSON wire format.
type Mongo struct {
	collection *mongo.Collection
}

// NewMongo creates a MongoDB-backed configuration source.
func NewMongo(client *mongo.Client, cfg MongoConfig) *Mongo {
	return &Mongo{collection: client.Database(cfg.Database).Collection(cfg.Collection)}
}

// Load implements permissions.Source.
func (s *Mongo) Load(ctx context.Context) (permissions.Config, error) {
	var cfg permissions.Config
	if err := s.collection.FindOne(ctx, bson.D{}).Decode(&cfg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return permissions.Config{}, errors.Join(ErrDocumentNotFound, err)
		}
		return permissions.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return permissions.Config{}, errors.Join(ErrInvalidDocument, err)
	}
	return cfg, nil
}
