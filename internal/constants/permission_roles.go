package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
// The review/slash entries are the reviewer capability of the decision flow;
// quorum or voting behind a reviewer account stays outside this service.
var PermissionRoles = map[string][]string{
	ViewData:         {Viewer, Owner, Treasury, Reviewer, Admin, Superadmin},
	DepositStake:     {Owner, Admin, Superadmin},
	RegisterProperty: {Owner, Admin, Superadmin},
	ReviewProperty:   {Reviewer, Superadmin},
	SlashProperty:    {Reviewer, Superadmin},
	ActivateTrading:  {Reviewer, Admin, Superadmin},
	FundBonusPool:    {Treasury, Superadmin},
	TreasuryWithdraw: {Treasury, Superadmin},
	TransferTokens:   {Viewer, Owner, Treasury, Admin, Superadmin},
	BurnTokens:       {Admin, Superadmin},
	ManageExemptions: {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
