package access

import (
	"strings"

	"github.com/harentsoaR/colortherapy-api/internal/models"
)

const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteAbout    = "/about"
)

// PublicRoutes are the only paths reachable without a session.
var PublicRoutes = []string{RouteLogin, RouteRegister, RouteAbout}

type pageRoute struct {
	route string
	icon  string
}

var pageRoutes = map[string]pageRoute{
	models.PageDashboard:      {"/dashboard", "dashboard"},
	models.PagePatientHistory: {"/patient-history", "history"},
	models.PageHumanBody:      {"/human-body", "accessibility"},
	models.PageUserManagement: {"/user-management", "manage_accounts"},
	models.PageReports:        {"/reports", "bug_report"},
	models.PageProfile:        {"/profile", "person"},
}

// Entry is one item of the navigation menu.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Route string `json:"route"`
	Icon  string `json:"icon"`
}

// RouteFor returns the route and icon for a page-key.
func RouteFor(key string) (route, icon string) {
	if r, ok := pageRoutes[key]; ok {
		return r.route, r.icon
	}
	return "/" + key, "circle"
}

// CanManageUsers requires both the SuperAdmin role and the user-management page.
func CanManageUsers(a Access, role models.Role) bool {
	return role == models.RoleSuperAdmin && a.HasPage(models.PageUserManagement)
}

// Navigation builds the menu: one entry per allowed page, in access order.
func Navigation(a Access, role models.Role, cfg *models.AppConfig) []Entry {
	entries := make([]Entry, 0, len(a.AllowedPages))
	for _, key := range a.AllowedPages {
		if key == models.PageUserManagement && !CanManageUsers(a, role) {
			continue
		}
		route, icon := RouteFor(key)
		entries = append(entries, Entry{Key: key, Label: cfg.Label(key), Route: route, Icon: icon})
	}
	return entries
}

// Decision is the outcome of a route guard check.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// Guard decides whether path may be shown. nav is nil for anonymous callers.
func Guard(authenticated bool, nav []Entry, path string) Decision {
	path = normalizePath(path)

	if !authenticated {
		for _, r := range PublicRoutes {
			if path == r {
				return Decision{Allowed: true}
			}
		}
		return Decision{Redirect: RouteLogin}
	}

	if len(nav) == 0 {
		return Decision{Redirect: RouteLogin}
	}
	if path == RouteAbout {
		return Decision{Allowed: true}
	}
	for _, e := range nav {
		if path == e.Route || strings.HasPrefix(path, e.Route+"/") {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: nav[0].Route}
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
