// Package permissions opens the content API to anonymous visitors by
// enabling read actions on the users-permissions public role.
package permissions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
)

// Doer sends a JSON request to the content API.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

const rolesPath = "users-permissions/roles"

// PublicRoleType is the type of the role anonymous requests use.
const PublicRoleType = "public"

// ErrNoPublicRole is returned when the CMS has no public role.
var ErrNoPublicRole = errors.New("public role not found")

// Grant enables actions on one content type controller, e.g.
// api::activity.activity -> find, findOne.
type Grant struct {
	UID     string
	Actions []string
}

// Controller returns the controller name: the part after the last dot.
func (g Grant) Controller() string {
	return g.UID[strings.LastIndex(g.UID, ".")+1:]
}

// DefaultGrants are the read permissions the website needs.
var DefaultGrants = []Grant{
	{UID: "api::activity.activity", Actions: []string{"find", "findOne"}},
	{UID: "api::home-page.home-page", Actions: []string{"find"}},
	{UID: "api::about-page.about-page", Actions: []string{"find"}},
	{UID: "api::site-setting.site-setting", Actions: []string{"find"}},
}

// Role is a users-permissions role.
type Role struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Permissions Permissions `json:"permissions,omitempty"`
}

// Action is the state of one controller action.
type Action struct {
	Enabled bool   `json:"enabled"`
	Policy  string `json:"policy,omitempty"`
}

// ControllerSet holds the actions of the controllers of one content type.
type ControllerSet struct {
	Controllers map[string]map[string]Action `json:"controllers"`
}

// Permissions maps a content type uid to its controllers.
type Permissions map[string]*ControllerSet

// Apply enables every granted action on p and returns the "uid -> action"
// entries that changed, sorted. p is modified in place.
func (p Permissions) Apply(grants []Grant) []string {
	var changed []string
	for _, g := range grants {
		set := p[g.UID]
		if set == nil {
			set = &ControllerSet{}
			p[g.UID] = set
		}
		if set.Controllers == nil {
			set.Controllers = map[string]map[string]Action{}
		}
		name := g.Controller()
		actions := set.Controllers[name]
		if actions == nil {
			actions = map[string]Action{}
			set.Controllers[name] = actions
		}
		for _, action := range g.Actions {
			current := actions[action]
			if current.Enabled {
				continue
			}
			current.Enabled = true
			actions[action] = current
			changed = append(changed, g.UID+" -> "+action)
		}
	}
	sort.Strings(changed)
	return changed
}

// Result reports a Setup run.
type Result struct {
	Role    Role
	Enabled []string // "uid -> action" entries switched on by this run
}

// Setup enables grants on the public role. The role is only written when
// something changes.
func Setup(ctx context.Context, cms Doer, grants []Grant, l *slog.Logger) (*Result, error) {
	if l == nil {
		l = logger.Get()
	}
	log := logger.WithTraceID(ctx, l)

	var roles struct {
		Roles []Role `json:"roles"`
	}
	if err := cms.Do(ctx, http.MethodGet, rolesPath, nil, &roles); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	var public *Role
	for i := range roles.Roles {
		if roles.Roles[i].Type == PublicRoleType {
			public = &roles.Roles[i]
			break
		}
	}
	if public == nil {
		return nil, ErrNoPublicRole
	}
	log.Info("public role found", "role_id", public.ID)

	rolePath := rolesPath + "/" + strconv.Itoa(public.ID)
	var detail struct {
		Role Role `json:"role"`
	}
	if err := cms.Do(ctx, http.MethodGet, rolePath, nil, &detail); err != nil {
		return nil, fmt.Errorf("get role %d: %w", public.ID, err)
	}
	perms := detail.Role.Permissions
	if perms == nil {
		perms = Permissions{}
	}
	log.Info("current permissions loaded", "content_types", len(perms))

	changed := perms.Apply(grants)
	result := &Result{Role: *public, Enabled: changed}
	result.Role.Permissions = perms
	if len(changed) == 0 {
		log.Info("permissions already configured")
		return result, nil
	}

	update := Role{
		Name:        public.Name,
		Description: public.Description,
		Type:        public.Type,
		Permissions: perms,
	}
	if err := cms.Do(ctx, http.MethodPut, rolePath, updateBody(update), nil); err != nil {
		return nil, fmt.Errorf("update role %d: %w", public.ID, err)
	}
	for _, c := range changed {
		log.Info("permission enabled", "permission", c)
	}
	return result, nil
}

// updateBody omits the id, which the roles endpoint does not accept.
func updateBody(r Role) map[string]any {
	return map[string]any{
		"name":        r.Name,
		"description": r.Description,
		"type":        r.Type,
		"permissions": r.Permissions,
	}
}
