package mongostore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

func TestPatientQuery(t *testing.T) {
	assert.Equal(t, bson.M{}, patientQuery(store.PatientFilter{}))
	assert.Equal(t, bson.M{"therapistIds": "T1"}, patientQuery(store.PatientFilter{TherapistID: "T1"}))

	q := patientQuery(store.PatientFilter{Search: "a.b"})
	assert.Equal(t, bson.M{"$regex": `a\.b`, "$options": "i"}, q["fullName"])
}

func TestUserStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get decodes the profile", func(mt *mtest.T) {
		s := New(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "t@institute.test"},
			{Key: "role", Value: "Therapist"},
			{Key: "permissions", Value: bson.D{{Key: "patient-history", Value: bson.D{{Key: "view", Value: true}}}}},
		}))

		u, err := s.Users.Get(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Equal(mt, models.RoleTherapist, u.Role)
		assert.Equal(mt, models.ActionFlags{View: true}, u.Permissions["patient-history"])
	})

	mt.Run("missing profile maps to ErrNotFound", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := s.Users.Get(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("delete of unknown id maps to ErrNotFound", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := s.Users.Delete(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})
}

func TestCredentialStore_DuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := s.Credentials.Create(context.Background(), &models.Credential{ID: primitive.NewObjectID(), Email: "a@x"})
		assert.ErrorIs(mt, err, store.ErrDuplicate)
	})
}

func TestPatientStore_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes every batch", func(mt *mtest.T) {
		s := New(mt.DB)
		first := mtest.CreateCursorResponse(1, "test.patients", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "fullName", Value: "Ada"},
			{Key: "therapistIds", Value: bson.A{"T1"}},
		})
		second := mtest.CreateCursorResponse(0, "test.patients", mtest.NextBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "fullName", Value: "Bea"},
			{Key: "therapistIds", Value: bson.A{"T1", "T2"}},
		})
		mt.AddMockResponses(first, second)

		patients, err := s.Patients.List(context.Background(), store.PatientFilter{TherapistID: "T1"})
		require.NoError(mt, err)
		require.Len(mt, patients, 2)
		assert.Equal(mt, "Ada", patients[0].FullName)
		assert.Equal(mt, []string{"T1", "T2"}, patients[1].TherapistIDs)
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.patients", mtest.FirstBatch))

		patients, err := s.Patients.List(context.Background(), store.PatientFilter{})
		require.NoError(mt, err)
		assert.NotNil(mt, patients)
		assert.Empty(mt, patients)
	})
}

func TestHumanBodyStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list decodes records", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.human_body", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "region", Value: "Chest"},
				{Key: "organ", Value: "Heart"},
				{Key: "colour", Value: "green"},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "region", Value: "Head"},
				{Key: "colour", Value: "violet"},
			},
		))

		records, err := s.HumanBody.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, "Heart", records[0].Organ)
		assert.Equal(mt, "violet", records[1].Colour)
	})

	mt.Run("get of unknown id maps to ErrNotFound", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.human_body", mtest.FirstBatch))

		_, err := s.HumanBody.Get(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("create inserts", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := &models.HumanBodyRecord{ID: primitive.NewObjectID(), Region: "Abdomen", Colour: "yellow"}
		require.NoError(mt, s.HumanBody.Create(ctx, r))
	})

	mt.Run("replace of unknown id maps to ErrNotFound", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := s.HumanBody.Replace(ctx, &models.HumanBodyRecord{ID: primitive.NewObjectID(), Region: "Head"})
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		id := primitive.NewObjectID()
		require.NoError(mt, s.HumanBody.Delete(ctx, id))
		assert.ErrorIs(mt, s.HumanBody.Delete(ctx, id), store.ErrNotFound)
	})
}

func TestConfigStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("reads the three documents", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.app-config", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "pages"},
				{Key: "items", Value: bson.A{bson.D{{Key: "key", Value: "dashboard"}, {Key: "label", Value: "Dashboard"}}}},
			}),
			mtest.CreateCursorResponse(0, "test.app-config", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "rolePermissions"},
				{Key: "roles", Value: bson.D{{Key: "Admin", Value: bson.A{"dashboard"}}}},
			}),
			mtest.CreateCursorResponse(0, "test.app-config", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "nonRemoveableUsers"},
				{Key: "emails", Value: bson.A{"root@institute.test"}},
			}),
		)

		pages, err := s.Config.Pages(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, []models.PageDescriptor{{Key: "dashboard", Label: "Dashboard"}}, pages)

		roles, err := s.Config.RolePermissions(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"dashboard"}, roles[models.RoleAdmin])

		emails, err := s.Config.NonRemoveableUsers(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"root@institute.test"}, emails)
	})

	mt.Run("missing document is not found", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.app-config", mtest.FirstBatch))

		_, err := s.Config.Pages(ctx)
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("save upserts each document", func(mt *mtest.T) {
		s := New(mt.DB)
		ok := mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1})
		mt.AddMockResponses(ok, ok, ok)

		require.NoError(mt, s.Config.Save(ctx, models.DefaultAppConfig()))
	})
}
