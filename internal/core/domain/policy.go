package domain

// Operation names a capability guarded by the access policy.
type Operation string

const (
	OpReserveQuota  Operation = "reserve_quota"
	OpCreateCredit  Operation = "create_credit"
	OpUpdateCredit  Operation = "update_credit"
	OpDeleteCredit  Operation = "delete_credit"
	OpViewDashboard Operation = "view_dashboard"
	OpListUsers     Operation = "list_users"
	OpPromoteUser   Operation = "promote_user"
)

var policy = map[Operation][]string{
	OpReserveQuota:  {RoleUser, RoleAdmin},
	OpCreateCredit:  {RoleAdmin},
	OpUpdateCredit:  {RoleAdmin},
	OpDeleteCredit:  {RoleAdmin},
	OpViewDashboard: {RoleAdmin},
	OpListUsers:     {RoleAdmin},
	OpPromoteUser:   {RoleAdmin},
}

// Authorize decides whether role may perform op. Unknown operations and empty
// roles are denied.
func Authorize(role string, op Operation) error {
	if role == "" {
		return ErrUnauthorized
	}
	for _, allowed := range policy[op] {
		if allowed == role {
			return nil
		}
	}
	return ErrForbidden
}
