// Package mongostore is the MongoDB backed todo store
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/go-while/go-todoleaf/internal/models"
)

// CollectionName is the fixed collection holding todo documents
const CollectionName = "todos"

const (
	connectTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

// todoDoc is the stored document shape: {_id, thing, completed, createdAt}
type todoDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Thing     string             `bson:"thing"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *todoDoc) toItem() *models.TodoItem {
	return &models.TodoItem{
		ID:        d.ID.Hex(),
		Thing:     d.Thing,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
	}
}

// Store is a TodoStore on a single MongoDB collection
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	dbName string
}

// Open connects to uri and pings the server before returning
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		if derr := client.Disconnect(context.Background()); derr != nil {
			log.Printf("[MONGO] disconnect after failed ping: %v", derr)
		}
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return newStore(client, client.Database(dbName).Collection(CollectionName)), nil
}

// newStore wraps an already connected client
func newStore(client *mongo.Client, coll *mongo.Collection) *Store {
	return &Store{client: client, coll: coll, dbName: coll.Database().Name()}
}

// ListTodos returns every document in natural order
func (s *Store) ListTodos(ctx context.Context) ([]*models.TodoItem, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find todos: %w", err)
	}
	var docs []todoDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}

	items := make([]*models.TodoItem, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toItem())
	}
	return items, nil
}

// CountRemaining counts documents with completed = false
func (s *Store) CountRemaining(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"completed": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count remaining todos: %w", err)
	}
	return n, nil
}

// AddTodo inserts {thing, completed: false}
func (s *Store) AddTodo(ctx context.Context, thing string) (*models.TodoItem, error) {
	doc := todoDoc{
		Thing:     thing,
		Completed: false,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toItem(), nil
}

// SetCompleted sets completed on the matching document with the highest _id
// in a single findAndModify. It does not upsert.
func (s *Store) SetCompleted(ctx context.Context, thing string, completed bool) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetUpsert(false)
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"thing": thing},
		bson.M{"$set": bson.M{"completed": completed}},
		opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to set completed=%t for todo: %w", completed, err)
	}
	return 1, nil
}

// DeleteTodo deletes the first document matching thing
func (s *Store) DeleteTodo(ctx context.Context, thing string) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"thing": thing})
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo: %w", err)
	}
	return res.DeletedCount, nil
}

// Purge deletes every document in the collection
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to purge todos: %w", err)
	}
	return res.DeletedCount, nil
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	log.Printf("[MONGO] Disconnected from %s", s.dbName)
	return nil
}

// dropDatabase removes the whole database; used by tests
func (s *Store) dropDatabase(ctx context.Context) error {
	return s.client.Database(s.dbName).Drop(ctx)
}
