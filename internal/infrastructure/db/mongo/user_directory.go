package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adminhub/identity-service/internal/core/domain"
)

const usersCollection = "users"

// UserDirectory implements ports.UserDirectory on a MongoDB collection.
// Username uniqueness is enforced by a unique index, so Create is
// atomic-or-fails even under concurrent registrations.
type UserDirectory struct {
	coll *mongo.Collection
}

func NewUserDirectory(db *mongo.Database) *UserDirectory {
	return &UserDirectory{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username index. Called once at startup;
// idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	SecretHash string             `bson:"secret_hash"`
	Role       string             `bson:"role"`
	CreatedAt  int64              `bson:"created_at"`
}

func (d *UserDirectory) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		Username:   user.Username,
		SecretHash: user.SecretHash,
		Role:       user.Role,
		CreatedAt:  time.Now().UTC().Unix(),
	}

	res, err := d.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w: %w", domain.ErrDirectoryUnavailable, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = id
	return doc.toDomain(), nil
}

func (d *UserDirectory) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.findOne(ctx, bson.M{"username": username})
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A subject id that is not even a valid ObjectID cannot reference a
		// live user.
		return nil, domain.ErrUserNotFound
	}
	return d.findOne(ctx, bson.M{"_id": oid})
}

func (d *UserDirectory) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := d.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w: %w", domain.ErrDirectoryUnavailable, err)
	}
	return doc.toDomain(), nil
}

func (d *UserDirectory) List(ctx context.Context) ([]*domain.User, error) {
	cursor, err := d.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w: %w", domain.ErrDirectoryUnavailable, err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w: %w", domain.ErrDirectoryUnavailable, err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w: %w", domain.ErrDirectoryUnavailable, err)
	}
	return users, nil
}

func (doc userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:         doc.ID.Hex(),
		Username:   doc.Username,
		SecretHash: doc.SecretHash,
		Role:       doc.Role,
		CreatedAt:  time.Unix(doc.CreatedAt, 0).UTC(),
	}
}
