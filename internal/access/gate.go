package access

import (
	"fmt"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
)

// Check returns an authorization error unless action is allowed on page.
func Check(a Access, page string, action models.Action) error {
	if a.Can(page, action) {
		return nil
	}
	return apperror.Authorization(fmt.Sprintf("you are not allowed to %s on %s", action, page))
}

// PatientScope returns the therapist id patient queries must be limited to,
// or "" when the user may see every patient.
func PatientScope(user *models.User, a Access) string {
	if user == nil || a.Unrestricted || user.Role != models.RoleTherapist {
		return ""
	}
	return user.ID.Hex()
}

// CheckUserDeletion rejects deleting oneself or a protected account.
func CheckUserDeletion(actor, target *models.User, cfg *models.AppConfig) error {
	if actor.ID == target.ID {
		return apperror.Conflict("you cannot delete your own account")
	}
	if cfg.IsNonRemoveable(target.Email) {
		return apperror.Conflict("this account cannot be deleted")
	}
	return nil
}

// UserChange describes an administrative edit of another user.
type UserChange struct {
	Role        *models.Role
	Blocked     *bool
	Permissions *models.Permissions
}

// CheckUserChange rejects restricting a protected account: it cannot be
// blocked, moved to another role or given a permission override.
func CheckUserChange(target *models.User, change UserChange, cfg *models.AppConfig) error {
	if !cfg.IsNonRemoveable(target.Email) {
		return nil
	}
	if change.Blocked != nil && *change.Blocked {
		return apperror.Conflict("this account cannot be blocked")
	}
	if change.Role != nil && *change.Role != target.Role {
		return apperror.Conflict("the role of this account cannot be changed")
	}
	if change.Permissions != nil && len(*change.Permissions) > 0 {
		return apperror.Conflict("the permissions of this account cannot be restricted")
	}
	return nil
}
