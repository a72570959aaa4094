package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Patient struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"fullName" json:"fullName"`
	BirthDate    string             `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Occupation   string             `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TherapistIDs []string           `bson:"therapistIds" json:"therapistIds"`
	CreatedBy    string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasTherapist reports whether therapistID is assigned to the patient.
func (p *Patient) HasTherapist(therapistID string) bool {
	for _, id := range p.TherapistIDs {
		if id == therapistID {
			return true
		}
	}
	return false
}

type Visit struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID   primitive.ObjectID `bson:"patientId" json:"patientId"`
	Date        time.Time          `bson:"date" json:"date"`
	TherapistID string             `bson:"therapistId,omitempty" json:"therapistId,omitempty"`
	Complaint   string             `bson:"complaint,omitempty" json:"complaint,omitempty"`
	Colours     []string           `bson:"colours,omitempty" json:"colours,omitempty"`
	Treatment   string             `bson:"treatment,omitempty" json:"treatment,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
