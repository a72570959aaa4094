// Package store declares the document-store boundary. Each interface maps
// to one collection; the MongoDB implementation lives in mongostore.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type CredentialStore interface {
	Create(ctx context.Context, cred *models.Credential) error
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserUpdate holds the optional fields of a user edit. Nil means unchanged.
type UserUpdate struct {
	DisplayName  *string
	ProfileImage *string
	Role         *models.Role
	Blocked      *bool
	Permissions  *models.Permissions
}

func (u UserUpdate) Empty() bool {
	return u.DisplayName == nil && u.ProfileImage == nil && u.Role == nil && u.Blocked == nil && u.Permissions == nil
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PatientFilter scopes patient queries. An empty TherapistID means no scoping.
type PatientFilter struct {
	TherapistID string
	Search      string
}

type PatientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	Get(ctx context.Context, id primitive.ObjectID, filter PatientFilter) (*models.Patient, error)
	List(ctx context.Context, filter PatientFilter) ([]models.Patient, error)
	Replace(ctx context.Context, p *models.Patient) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, filter PatientFilter) (int64, error)
}

type VisitStore interface {
	Create(ctx context.Context, v *models.Visit) error
	Get(ctx context.Context, patientID, id primitive.ObjectID) (*models.Visit, error)
	ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Visit, error)
	Replace(ctx context.Context, v *models.Visit) error
	Delete(ctx context.Context, patientID, id primitive.ObjectID) error
	DeleteByPatient(ctx context.Context, patientID primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type HumanBodyStore interface {
	Create(ctx context.Context, r *models.HumanBodyRecord) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.HumanBodyRecord, error)
	List(ctx context.Context) ([]models.HumanBodyRecord, error)
	Replace(ctx context.Context, r *models.HumanBodyRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ReportStore interface {
	Create(ctx context.Context, r *models.Report) error
	List(ctx context.Context, kind models.ReportKind) ([]models.Report, error)
}

// ConfigStore reads and writes the three AppConfig documents.
type ConfigStore interface {
	Pages(ctx context.Context) ([]models.PageDescriptor, error)
	RolePermissions(ctx context.Context) (map[models.Role][]string, error)
	NonRemoveableUsers(ctx context.Context) ([]string, error)
	Save(ctx context.Context, cfg *models.AppConfig) error
}
