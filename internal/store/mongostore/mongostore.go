// Package mongostore implements the store interfaces on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/colortherapy-api/internal/store"
)

const (
	collCredentials = "credentials"
	collUsers       = "users"
	collPatients    = "patients"
	collVisits      = "visits"
	collHumanBody   = "human_body"
	collReports     = "reports"
	collAppConfig   = "app-config"
)

// Store groups one repository per collection.
type Store struct {
	db          *mongo.Database
	Credentials *CredentialStore
	Users       *UserStore
	Patients    *PatientStore
	Visits      *VisitStore
	HumanBody   *HumanBodyStore
	Reports     *ReportStore
	Config      *ConfigStore
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		Credentials: &CredentialStore{coll: db.Collection(collCredentials)},
		Users:       &UserStore{coll: db.Collection(collUsers)},
		Patients:    &PatientStore{coll: db.Collection(collPatients)},
		Visits:      &VisitStore{coll: db.Collection(collVisits)},
		HumanBody:   &HumanBodyStore{coll: db.Collection(collHumanBody)},
		Reports:     &ReportStore{coll: db.Collection(collReports)},
		Config:      &ConfigStore{coll: db.Collection(collAppConfig)},
	}
}

// EnsureIndexes creates the unique and lookup indexes the API relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		collCredentials: {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		collUsers:       {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		collPatients: {
			{Keys: bson.D{{Key: "therapistIds", Value: 1}}},
			{Keys: bson.D{{Key: "fullName", Value: 1}}},
		},
		collVisits:  {{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "date", Value: -1}}}},
		collReports: {{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}

	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// mapErr translates driver errors into store sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func replaceOne(ctx context.Context, coll *mongo.Collection, filter, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
