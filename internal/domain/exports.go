package domain

import (
	interfaces "devsearch/internal/domain/interfaces"
	types "devsearch/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	AccountID   = types.AccountID
	Login       = types.Login
	Account     = types.Account
	UserProfile = types.UserProfile
	Repository  = types.Repository
	Profile     = types.Profile
)

// Interface aliases expose contracts from the interfaces subpackage.
type (
	KeyValueStore   = interfaces.KeyValueStore
	ProfileProvider = interfaces.ProfileProvider
)
