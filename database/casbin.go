package database

import (
	"fmt"
	"log/slog"

	"matchai-service/model"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const restfulRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

var defaultPolicies = [][]any{
	{model.RoleUser, "/api/auth/*", ".*"},
	{model.RoleUser, "/api/users/*", "(GET)|(PATCH)|(POST)"},
	{model.RoleUser, "/api/matches", "(GET)|(POST)"},
	{model.RoleUser, "/api/matches/*", "(GET)|(POST)|(PATCH)"},
	{model.RoleUser, "/api/video-calls/*", "PATCH"},
	{model.RoleUser, "/api/optimal-times", "GET"},
	{model.RoleUser, "/api/ai/*", "(GET)|(POST)|(PATCH)"},
	{model.RoleAdmin, "/api/admin/*", "(GET)|(POST)|(PUT)|(DELETE)"},
}

// Casbin builds the shared enforcer. With a nil db the policies live in memory only.
func Casbin(db *gorm.DB) (*casbin.Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(restfulRBACModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	var e *casbin.Enforcer
	if db != nil {
		adapter, err := gormadapter.NewAdapterByDB(db)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize casbin adapter: %w", err)
		}
		e, err = casbin.NewEnforcer(m, adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
	} else {
		e, err = casbin.NewEnforcer(m)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
	}

	// Add default policy
	for _, p := range defaultPolicies {
		if has, _ := e.HasPolicy(p...); !has {
			if _, err := e.AddPolicy(p...); err != nil {
				return nil, fmt.Errorf("add policy %v: %w", p, err)
			}
		}
	}
	// admins inherit every user permission
	if has, _ := e.HasGroupingPolicy(model.RoleAdmin, model.RoleUser); !has {
		if _, err := e.AddGroupingPolicy(model.RoleAdmin, model.RoleUser); err != nil {
			return nil, fmt.Errorf("add role inheritance: %w", err)
		}
	}

	slog.Info("casbin enforcer ready", "persistent", db != nil)
	return e, nil
}
