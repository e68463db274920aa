// Package modules lists the dashboard's feature modules.
package modules

import (
	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/modules/admin"
	"github.com/safedrive/dashboard/internal/services/dashboard/modules/auth"
	"github.com/safedrive/dashboard/internal/services/dashboard/modules/live"
	"github.com/safedrive/dashboard/internal/services/dashboard/modules/user"
)

// DefaultPublicModules returns modules served without a session.
func DefaultPublicModules() []module.Module {
	return []module.Module{
		auth.New(),
	}
}

// DefaultProtectedModules returns modules behind the access guard.
func DefaultProtectedModules() []module.Module {
	return []module.Module{
		admin.New(),
		user.New(),
		live.New(),
	}
}
