package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin = "admin"

	ResourceTaxStrategy = "tax-strategy"

	ActionRead  = "read"
	ActionWrite = "write"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Policy is one allow rule: role may perform action on resource.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies lets admins read and switch the active tax strategy.
var DefaultPolicies = []Policy{
	{Role: RoleAdmin, Resource: ResourceTaxStrategy, Action: ActionRead},
	{Role: RoleAdmin, Resource: ResourceTaxStrategy, Action: ActionWrite},
}

// NewEnforcer builds an in-memory casbin enforcer seeded with policies.
// With no policies given, DefaultPolicies is used.
func NewEnforcer(policies ...Policy) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}

	if len(policies) == 0 {
		policies = DefaultPolicies
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return nil, fmt.Errorf("rbac policy %s/%s/%s: %w", p.Role, p.Resource, p.Action, err)
		}
	}

	return e, nil
}
