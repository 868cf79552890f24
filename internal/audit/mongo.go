package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// inserter is the part of *mongo.Collection the sink writes through.
type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

type Mongo struct {
	client     *mongo.Client
	collection inserter
}

func NewMongo(uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(database)
	return &Mongo{client: client, collection: db.Collection("check_results")}, nil
}

func (m *Mongo) Record(ctx context.Context, entry Entry) {
	_, err := m.collection.InsertOne(ctx, entry)
	if err != nil {
		logrus.Errorf("error inserting check result: %v", err)
		return
	}
	logrus.Debugf("recorded check result: %+v", entry)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
