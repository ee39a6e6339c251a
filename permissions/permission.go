package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"realty/shared/constant"
	"slices"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin}

// Permission maps one chi route pattern to the roles allowed on it. Skip
// marks public routes that bypass both token and role checks.
type Permission struct {
	Roles  []string `json:"roles"`
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Skip   bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return p.Skip || slices.Contains(p.Roles, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	// Skip disables role checks globally; tokens are still required.
	Skip bool `json:"skip"`

	index map[string]Permission
}

// FindPermissions looks up the entry for a route pattern such as
// "/v1/reservations/{id}". Routes without an entry report false and are
// denied by the RBAC middleware.
func (r *PermissionData) FindPermissions(path, method string) (Permission, bool) {
	permission, ok := r.index[key(method, path)]

	return permission, ok
}

// Parse decodes and checks a permission table. Entries must name a known
// method, be unique per method and path, and either skip or list at least one
// known role.
func Parse(raw []byte) (*PermissionData, error) {
	var data PermissionData

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "decode permissions")
	}

	data.index = make(map[string]Permission, len(data.Endpoints))

	for _, endpoint := range data.Endpoints {
		k := key(endpoint.Method, endpoint.Path)

		switch {
		case !validMethod(endpoint.Method):
			return nil, fmt.Errorf("%s: unknown method", k)
		case endpoint.Path == "":
			return nil, fmt.Errorf("%s: empty path", k)
		case !endpoint.Skip && len(endpoint.Roles) == 0:
			return nil, fmt.Errorf("%s: no roles and not public", k)
		}

		for _, role := range endpoint.Roles {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("%s: unknown role %q", k, role)
			}
		}

		if _, dup := data.index[k]; dup {
			return nil, fmt.Errorf("%s: duplicate entry", k)
		}

		data.index[k] = endpoint
	}

	return &data, nil
}

func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}

func key(method, path string) string {
	return method + " " + path
}

func validMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}

	return false
}
