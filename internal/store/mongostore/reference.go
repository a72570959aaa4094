package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/colortherapy-api/internal/models"
)

type HumanBodyStore struct {
	coll *mongo.Collection
}

func (s *HumanBodyStore) Create(ctx context.Context, r *models.HumanBodyRecord) error {
	_, err := s.coll.InsertOne(ctx, r)
	return mapErr(err)
}

func (s *HumanBodyStore) Get(ctx context.Context, id primitive.ObjectID) (*models.HumanBodyRecord, error) {
	var r models.HumanBodyRecord
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (s *HumanBodyStore) List(ctx context.Context) ([]models.HumanBodyRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "region", Value: 1}, {Key: "organ", Value: 1}})
	return findAll[models.HumanBodyRecord](ctx, s.coll, bson.M{}, opts)
}

func (s *HumanBodyStore) Replace(ctx context.Context, r *models.HumanBodyRecord) error {
	return replaceOne(ctx, s.coll, bson.M{"_id": r.ID}, r)
}

func (s *HumanBodyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.coll, bson.M{"_id": id})
}

type ReportStore struct {
	coll *mongo.Collection
}

func (s *ReportStore) Create(ctx context.Context, r *models.Report) error {
	_, err := s.coll.InsertOne(ctx, r)
	return mapErr(err)
}

// List returns reports newest first, optionally of one kind.
func (s *ReportStore) List(ctx context.Context, kind models.ReportKind) ([]models.Report, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Report](ctx, s.coll, filter, opts)
}
