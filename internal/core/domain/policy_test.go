package domain

import "testing"

func TestAuthorize(t *testing.T) {
	cases := []struct {
		role string
		op   Operation
		want error
	}{
		{RoleUser, OpReserveQuota, nil},
		{RoleAdmin, OpReserveQuota, nil},
		{RoleAdmin, OpCreateCredit, nil},
		{RoleAdmin, OpPromoteUser, nil},
		{RoleUser, OpCreateCredit, ErrForbidden},
		{RoleUser, OpDeleteCredit, ErrForbidden},
		{RoleUser, OpViewDashboard, ErrForbidden},
		{"guest", OpReserveQuota, ErrForbidden},
		{RoleAdmin, Operation("unknown"), ErrForbidden},
		{"", OpReserveQuota, ErrUnauthorized},
	}

	for _, tc := range cases {
		if got := Authorize(tc.role, tc.op); got != tc.want {
			t.Errorf("Authorize(%q, %q) = %v, want %v", tc.role, tc.op, got, tc.want)
		}
	}
}
