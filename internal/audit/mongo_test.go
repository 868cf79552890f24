package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/maskrapp/spamguard/internal/check"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	err  error
	docs []interface{}
}

func (f *fakeCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.docs = append(f.docs, document)
	return &mongo.InsertOneResult{InsertedID: len(f.docs)}, nil
}

func withDebugHook(t *testing.T) *test.Hook {
	hook := test.NewGlobal()
	level := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		logrus.SetLevel(level)
		hook.Reset()
	})
	return hook
}

func TestMongoRecordInsertFailure(t *testing.T) {
	hook := withDebugHook(t)
	sink := &Mongo{collection: &fakeCollection{err: errors.New("connection reset")}}

	sink.Record(context.Background(), NewEntry("203.0.113.1", "a@example.com", "a", check.NewResult()))

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "connection reset")
}

func TestMongoRecordInserts(t *testing.T) {
	hook := withDebugHook(t)
	collection := &fakeCollection{}
	sink := &Mongo{collection: collection}

	sink.Record(context.Background(), NewEntry("203.0.113.1", "a@example.com", "a", check.NewResult()))

	require.Len(t, collection.docs, 1)
	assert.Equal(t, "a@example.com", collection.docs[0].(Entry).Email)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "recorded check result")
}
