package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voicify/voicify-api/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists accounts in MongoDB. Every operation is a
// single-document command, so each call is atomic without transactions.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	PasswordHash   string             `bson:"password_hash"`
	ResetTokenHash string             `bson:"reset_token_hash,omitempty"`
	ResetExpiresAt int64              `bson:"reset_expires_at,omitempty"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"reset_token_hash": tokenHash,
			"reset_expires_at": expiresAt.Unix(),
			"updated_at":       time.Now().UTC().Unix(),
		}},
	)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ResetPassword consumes the reset descriptor and swaps the password
// hash in one FindOneAndUpdate. MongoDB applies the update atomically
// per document, so a replayed secret finds no matching descriptor and
// of two concurrent attempts exactly one wins.
func (r *UserRepository) ResetPassword(ctx context.Context, tokenHash, newPasswordHash string, now time.Time) error {
	filter := bson.M{
		"reset_token_hash": tokenHash,
		"reset_expires_at": bson.M{"$gt": now.Unix()},
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash": newPasswordHash,
			"updated_at":    now.Unix(),
		},
		"$unset": bson.M{
			"reset_token_hash": "",
			"reset_expires_at": "",
		},
	}

	err := r.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrResetTokenInvalid
		}
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:           mu.ID.Hex(),
		Name:         mu.Name,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
	if mu.ResetTokenHash != "" {
		u.ResetToken = &domain.ResetToken{
			TokenHash: mu.ResetTokenHash,
			ExpiresAt: unixToTime(mu.ResetExpiresAt),
		}
	}
	return u
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
