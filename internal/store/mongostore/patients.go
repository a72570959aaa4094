package mongostore

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

type PatientStore struct {
	coll *mongo.Collection
}

// patientQuery turns a filter into a query. Therapist scoping happens here,
// so out-of-scope patients never leave the database.
func patientQuery(f store.PatientFilter) bson.M {
	q := bson.M{}
	if f.TherapistID != "" {
		q["therapistIds"] = f.TherapistID
	}
	if f.Search != "" {
		q["fullName"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	return q
}

func (s *PatientStore) Create(ctx context.Context, p *models.Patient) error {
	_, err := s.coll.InsertOne(ctx, p)
	return mapErr(err)
}

func (s *PatientStore) Get(ctx context.Context, id primitive.ObjectID, filter store.PatientFilter) (*models.Patient, error) {
	q := patientQuery(filter)
	q["_id"] = id

	var p models.Patient
	if err := s.coll.FindOne(ctx, q).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *PatientStore) List(ctx context.Context, filter store.PatientFilter) ([]models.Patient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})
	return findAll[models.Patient](ctx, s.coll, patientQuery(filter), opts)
}

func (s *PatientStore) Replace(ctx context.Context, p *models.Patient) error {
	return replaceOne(ctx, s.coll, bson.M{"_id": p.ID}, p)
}

func (s *PatientStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.coll, bson.M{"_id": id})
}

func (s *PatientStore) Count(ctx context.Context, filter store.PatientFilter) (int64, error) {
	return s.coll.CountDocuments(ctx, patientQuery(filter))
}

type VisitStore struct {
	coll *mongo.Collection
}

func (s *VisitStore) Create(ctx context.Context, v *models.Visit) error {
	_, err := s.coll.InsertOne(ctx, v)
	return mapErr(err)
}

func (s *VisitStore) Get(ctx context.Context, patientID, id primitive.ObjectID) (*models.Visit, error) {
	var v models.Visit
	if err := s.coll.FindOne(ctx, bson.M{"_id": id, "patientId": patientID}).Decode(&v); err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (s *VisitStore) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Visit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[models.Visit](ctx, s.coll, bson.M{"patientId": patientID}, opts)
}

func (s *VisitStore) Replace(ctx context.Context, v *models.Visit) error {
	return replaceOne(ctx, s.coll, bson.M{"_id": v.ID, "patientId": v.PatientID}, v)
}

func (s *VisitStore) Delete(ctx context.Context, patientID, id primitive.ObjectID) error {
	return deleteOne(ctx, s.coll, bson.M{"_id": id, "patientId": patientID})
}

func (s *VisitStore) DeleteByPatient(ctx context.Context, patientID primitive.ObjectID) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"patientId": patientID})
	return err
}

func (s *VisitStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
