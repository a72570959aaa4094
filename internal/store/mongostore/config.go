package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/colortherapy-api/internal/models"
)

// Document ids inside the app-config collection.
const (
	docPages              = "pages"
	docRolePermissions    = "rolePermissions"
	docNonRemoveableUsers = "nonRemoveableUsers"
)

type pagesDoc struct {
	ID    string                  `bson:"_id"`
	Items []models.PageDescriptor `bson:"items"`
}

type rolePermissionsDoc struct {
	ID    string                   `bson:"_id"`
	Roles map[models.Role][]string `bson:"roles"`
}

type nonRemoveableDoc struct {
	ID     string   `bson:"_id"`
	Emails []string `bson:"emails"`
}

type ConfigStore struct {
	coll *mongo.Collection
}

func (s *ConfigStore) load(ctx context.Context, id string, out interface{}) error {
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(out); err != nil {
		return fmt.Errorf("load %s: %w", id, mapErr(err))
	}
	return nil
}

func (s *ConfigStore) Pages(ctx context.Context) ([]models.PageDescriptor, error) {
	var doc pagesDoc
	if err := s.load(ctx, docPages, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func (s *ConfigStore) RolePermissions(ctx context.Context) (map[models.Role][]string, error) {
	var doc rolePermissionsDoc
	if err := s.load(ctx, docRolePermissions, &doc); err != nil {
		return nil, err
	}
	if doc.Roles == nil {
		doc.Roles = map[models.Role][]string{}
	}
	return doc.Roles, nil
}

func (s *ConfigStore) NonRemoveableUsers(ctx context.Context) ([]string, error) {
	var doc nonRemoveableDoc
	if err := s.load(ctx, docNonRemoveableUsers, &doc); err != nil {
		return nil, err
	}
	return doc.Emails, nil
}

// Save upserts all three documents.
func (s *ConfigStore) Save(ctx context.Context, cfg *models.AppConfig) error {
	docs := []interface{}{
		pagesDoc{ID: docPages, Items: cfg.Pages},
		rolePermissionsDoc{ID: docRolePermissions, Roles: cfg.RolePermissions},
		nonRemoveableDoc{ID: docNonRemoveableUsers, Emails: cfg.NonRemoveableUsers},
	}
	ids := []string{docPages, docRolePermissions, docNonRemoveableUsers}

	opts := options.Replace().SetUpsert(true)
	for i, doc := range docs {
		if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": ids[i]}, doc, opts); err != nil {
			return fmt.Errorf("save %s: %w", ids[i], err)
		}
	}
	return nil
}
