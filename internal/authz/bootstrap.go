package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "catalog_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/services", Action: "*"},
				{Object: "/admin/services/:id", Action: "*"},
				{Object: "/admin/services/:id/packages", Action: "*"},
				{Object: "/admin/packages/:id", Action: "*"},
				{Object: "/admin/store-items", Action: "*"},
				{Object: "/admin/store-items/:id", Action: "*"},
				{Object: "/admin/posts", Action: "*"},
				{Object: "/admin/posts/:id", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role:     "discount_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/discounts", Action: "*"},
				{Object: "/admin/discounts/:id", Action: "*"},
				{Object: "/admin/discounts/:id/usages", Action: "GET"},
				{Object: "/admin/discounts/generate-code", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "order_verifier",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/service-orders", Action: "GET"},
				{Object: "/admin/service-orders/:id", Action: "GET"},
				{Object: "/admin/service-orders/:id/status", Action: "PATCH"},
				{Object: "/admin/service-orders/status", Action: "PATCH"},
				{Object: "/admin/store-purchases", Action: "GET"},
				{Object: "/admin/store-purchases/:id", Action: "GET"},
				{Object: "/admin/store-purchases/:id/status", Action: "PATCH"},
				{Object: "/admin/store-purchases/status", Action: "PATCH"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
