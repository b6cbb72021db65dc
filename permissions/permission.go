package permissions

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"fair/shared/constant"
)

//go:embed permissions.json
var embedded []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin, constant.RoleExhibitor}

// Rule grants access to one route pattern. An empty Roles list admits any
// authenticated caller.
type Rule struct {
	Roles  []string `json:"permissions"`
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Skip   bool     `json:"skip"`
}

func (r Rule) Allows(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// Table is the role matrix of the HTTP surface, indexed by method and chi
// route pattern.
type Table struct {
	Skip  bool   `json:"skip"`
	Rules []Rule `json:"endpoints"`

	index map[string]Rule
}

func key(method, path string) string {
	return method + " " + path
}

// Lookup reports the rule for a route. Unlisted routes yield a zero Rule.
func (t *Table) Lookup(path, method string) (Rule, bool) {
	rule, ok := t.index[key(method, path)]

	return rule, ok
}

// Len returns the number of listed routes.
func (t *Table) Len() int {
	return len(t.index)
}

// Parse decodes a role matrix and rejects duplicate routes, unknown methods
// and unknown roles.
func Parse(data []byte) (*Table, error) {
	var table Table

	if err := json.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(err, "decode permissions")
	}

	table.index = make(map[string]Rule, len(table.Rules))

	for _, rule := range table.Rules {
		switch rule.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return nil, errors.Errorf("%s: unsupported method %q", rule.Path, rule.Method)
		}

		for _, role := range rule.Roles {
			if !slices.Contains(knownRoles, role) {
				return nil, errors.Errorf("%s %s: unknown role %q", rule.Method, rule.Path, role)
			}
		}

		k := key(rule.Method, rule.Path)
		if _, dup := table.index[k]; dup {
			return nil, errors.Errorf("%s: listed twice", k)
		}

		table.index[k] = rule
	}

	return &table, nil
}

// Get loads the embedded role matrix. A broken matrix yields nil, which the
// RBAC middleware treats as deny-all.
func Get() *Table {
	table, err := Parse(embedded)
	if err != nil {
		log.Error().Err(err).Msg("failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", table.Len()).Msg("permissions loaded")

	return table
}
