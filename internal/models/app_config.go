package models

import "strings"

const (
	PageDashboard      = "dashboard"
	PagePatientHistory = "patient-history"
	PageHumanBody      = "human-body"
	PageUserManagement = "user-management"
	PageReports        = "reports"
	PageProfile        = "profile"
)

type PageDescriptor struct {
	Key   string `bson:"key" json:"key"`
	Label string `bson:"label" json:"label"`
}

// AppConfig is the remote configuration singleton.
type AppConfig struct {
	Pages              []PageDescriptor  `json:"pages"`
	RolePermissions    map[Role][]string `json:"rolePermissions"`
	NonRemoveableUsers []string          `json:"nonRemoveableUsers"`
}

// IsNonRemoveable reports whether email belongs to a protected account.
func (c *AppConfig) IsNonRemoveable(email string) bool {
	if c == nil || email == "" {
		return false
	}
	for _, e := range c.NonRemoveableUsers {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// Label returns the configured label for a page, or the key itself.
func (c *AppConfig) Label(key string) string {
	for _, p := range c.Pages {
		if p.Key == key {
			return p.Label
		}
	}
	return key
}

// DefaultAppConfig is what seed-config writes into an empty database.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Pages: []PageDescriptor{
			{Key: PageDashboard, Label: "Dashboard"},
			{Key: PagePatientHistory, Label: "Patient History"},
			{Key: PageHumanBody, Label: "Human Body"},
			{Key: PageUserManagement, Label: "User Management"},
			{Key: PageReports, Label: "Reports"},
			{Key: PageProfile, Label: "Profile"},
		},
		RolePermissions: map[Role][]string{
			RoleSuperAdmin:   {PageDashboard, PagePatientHistory, PageHumanBody, PageUserManagement, PageReports, PageProfile},
			RoleAdmin:        {PageDashboard, PagePatientHistory, PageHumanBody, PageReports, PageProfile},
			RoleTherapist:    {PageDashboard, PagePatientHistory, PageHumanBody, PageProfile},
			RoleReceptionist: {PageDashboard, PageProfile},
		},
	}
}
