package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
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

// Role permissions are fixed: two roles, a handful of resources. ADMIN
// inherits everything EMPLOYEE can do.
var policies = [][]string{
	{"EMPLOYEE", "leave", "read"},
	{"EMPLOYEE", "leave", "create"},
	{"ADMIN", "leave", "decide"},
	{"ADMIN", "user", "read"},
	{"ADMIN", "user", "update"},
	{"ADMIN", "report", "create"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	if _, err := enforcer.AddGroupingPolicy("ADMIN", "EMPLOYEE"); err != nil {
		return nil, err
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}
