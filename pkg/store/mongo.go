package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
)

const (
	mongoDatabase   = "roomsmith"
	mongoCollection = "layouts"
	mongoDocID      = "current"
)

// MongoStore keeps the layout in a single document, replaced wholesale on
// every save.
type MongoStore struct {
	client *mongo.Client
}

// NewMongoStore connects to the deployment named by a mongodb:// URI.
func NewMongoStore(uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "connect mongodb")
	}
	return &MongoStore{client: client}, nil
}

type layoutDoc struct {
	ID         string                        `bson:"_id"`
	Transforms map[string]geometry.Transform `bson:"transforms"`
}

func (s *MongoStore) collection() *mongo.Collection {
	return s.client.Database(mongoDatabase).Collection(mongoCollection)
}

// Load reads the layout document. A missing document is an empty layout.
func (s *MongoStore) Load(ctx context.Context) (map[string]geometry.Transform, error) {
	var doc layoutDoc
	err := s.collection().FindOne(ctx, bson.M{"_id": mongoDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return map[string]geometry.Transform{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "find layout document")
	}
	if doc.Transforms == nil {
		doc.Transforms = map[string]geometry.Transform{}
	}
	return doc.Transforms, nil
}

// Save upserts the layout document.
func (s *MongoStore) Save(ctx context.Context, transforms map[string]geometry.Transform) error {
	doc := layoutDoc{ID: mongoDocID, Transforms: transforms}
	_, err := s.collection().ReplaceOne(ctx, bson.M{"_id": mongoDocID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreFailed, "replace layout document")
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
