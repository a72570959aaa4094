package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

type CredentialStore struct {
	coll *mongo.Collection
}

func (s *CredentialStore) Create(ctx context.Context, cred *models.Credential) error {
	_, err := s.coll.InsertOne(ctx, cred)
	return mapErr(err)
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&cred); err != nil {
		return nil, mapErr(err)
	}
	return &cred, nil
}

func (s *CredentialStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.coll, bson.M{"_id": id})
}

type UserStore struct {
	coll *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.coll.InsertOne(ctx, user)
	return mapErr(err)
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "displayName", Value: 1}})
	return findAll[models.User](ctx, s.coll, bson.M{}, opts)
}

// Update applies the non-nil fields of update and returns the new document.
// An empty permission map removes the override.
func (s *UserStore) Update(ctx context.Context, id primitive.ObjectID, update store.UserUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}

	if update.DisplayName != nil {
		set["displayName"] = *update.DisplayName
	}
	if update.ProfileImage != nil {
		set["profileImage"] = *update.ProfileImage
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}
	if update.Blocked != nil {
		set["blocked"] = *update.Blocked
	}
	if update.Permissions != nil {
		if len(*update.Permissions) == 0 {
			unset["permissions"] = ""
		} else {
			set["permissions"] = *update.Permissions
		}
	}

	doc := bson.M{"$set": set}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, doc, opts).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.coll, bson.M{"_id": id})
}
