package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HumanBodyRecord is a reference entry linking a body region to a therapy colour.
type HumanBodyRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Region      string             `bson:"region" json:"region"`
	Organ       string             `bson:"organ,omitempty" json:"organ,omitempty"`
	Colour      string             `bson:"colour,omitempty" json:"colour,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ReportKind string

const (
	ReportBug     ReportKind = "bug"
	ReportFeature ReportKind = "feature"
)

// Report is a bug report or feature request filed from the dashboard.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind          ReportKind         `bson:"kind" json:"kind"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	ReporterID    string             `bson:"reporterId" json:"reporterId"`
	ReporterEmail string             `bson:"reporterEmail" json:"reporterEmail"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
