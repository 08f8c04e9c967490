package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/letteratech/identity-service/internal/core/domain"
)

const identityCollection = "identities"

type MongoIdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{coll: db.Collection(identityCollection)}
}

type mongoIdentity struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Kind          string             `bson:"kind"`
	LetteraNumber string             `bson:"lettera_number,omitempty"`
	Email         string             `bson:"email,omitempty"`
	Username      string             `bson:"username,omitempty"`
	FirstName     string             `bson:"first_name"`
	LastName      string             `bson:"last_name"`
	Role          string             `bson:"role"`
	PasswordHash  string             `bson:"password_hash"`
	PhraseHashes  []string           `bson:"phrase_hashes,omitempty"`
	EmailVerified bool               `bson:"email_verified"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

// identityIndexModels declares the uniqueness constraints duplicate
// detection relies on: at most one identity per lettera number, email, and
// username. Each constraint is scoped with a partial filter to documents
// that carry the field, since anonymous identities store no email or
// username.
func identityIndexModels() []mongo.IndexModel {
	stringField := func(field string) bson.M {
		return bson.M{field: bson.M{"$type": "string"}}
	}
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "lettera_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(stringField("lettera_number")),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(stringField("email")),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(stringField("username")),
		},
	}
}

// EnsureIndexes creates the unique indexes on the identities collection.
// Create only surfaces ErrIdentityExists once these are in place, so this
// must run at startup before the collection takes writes.
func (r *MongoIdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.coll.Indexes().CreateMany(ctx, identityIndexModels()); err != nil {
		return fmt.Errorf("ensure identity indexes: %w", err)
	}
	return nil
}

func (r *MongoIdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := mongoIdentity{
		Kind:          string(identity.Kind),
		LetteraNumber: identity.LetteraNumber,
		Email:         identity.Email,
		Username:      identity.Username,
		FirstName:     identity.FirstName,
		LastName:      identity.LastName,
		Role:          identity.Role,
		PasswordHash:  identity.PasswordHash,
		PhraseHashes:  identity.PhraseHashes,
		EmailVerified: identity.EmailVerified,
		CreatedAt:     identity.CreatedAt.Unix(),
		UpdatedAt:     identity.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	created := *identity
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoIdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoIdentityRepository) FindByNumber(ctx context.Context, letteraNumber string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"lettera_number": letteraNumber})
}

func (r *MongoIdentityRepository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIdentityNotFound
	}

	update := bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC().Unix(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *MongoIdentityRepository) MarkEmailVerified(ctx context.Context, email string) error {
	update := bson.M{"$set": bson.M{
		"email_verified": true,
		"updated_at":     time.Now().UTC().Unix(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *MongoIdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, filter).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	return &domain.Identity{
		ID:            mi.ID.Hex(),
		Kind:          domain.IdentityKind(mi.Kind),
		LetteraNumber: mi.LetteraNumber,
		Email:         mi.Email,
		Username:      mi.Username,
		FirstName:     mi.FirstName,
		LastName:      mi.LastName,
		Role:          mi.Role,
		PasswordHash:  mi.PasswordHash,
		PhraseHashes:  mi.PhraseHashes,
		EmailVerified: mi.EmailVerified,
		CreatedAt:     unixToTime(mi.CreatedAt),
		UpdatedAt:     unixToTime(mi.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
