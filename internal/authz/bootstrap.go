package authz

import (
	"fmt"

	"github.com/daishou-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 三类业务角色的路由授权矩阵
func BuiltinRoleSeeds() []RoleSeed {
	common := []Policy{
		{Object: "/api/v1/me", Action: "GET"},
		{Object: "/api/v1/notifications", Action: "GET"},
		{Object: "/api/v1/notifications/unread-count", Action: "GET"},
		{Object: "/api/v1/notifications/:id/read", Action: "PATCH"},
		{Object: "/api/v1/notifications/read-all", Action: "POST"},
	}
	return []RoleSeed{
		{
			Role: constants.RoleShop,
			Policies: append([]Policy{
				{Object: "/api/v1/shop/*", Action: "*"},
			}, common...),
		},
		{
			Role: constants.RoleShipper,
			Policies: append([]Policy{
				{Object: "/api/v1/shipper/*", Action: "*"},
			}, common...),
		},
		{
			Role: constants.RoleAdmin,
			Policies: append([]Policy{
				{Object: "/api/v1/admin/*", Action: "*"},
			}, common...),
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色策略，幂等
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("bootstrap role %s failed: %w", seed.Role, err)
			}
		}
	}
	return nil
}
