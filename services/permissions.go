package services

import (
	"slices"

	"github.com/pocketbase/pocketbase/core"
)

// GroupSalesManager gates visibility of line pricing data.
const GroupSalesManager = "sales_manager"

// IsSalesManager reports whether the acting user belongs to the sales
// manager group. A nil user (unauthenticated) never does.
func IsSalesManager(user *core.Record) bool {
	if user == nil {
		return false
	}
	return slices.Contains(user.GetStringSlice("groups"), GroupSalesManager)
}

// LineVisibility is the permission-gated flag exposed on BOM lines. It is
// re-evaluated per request for the acting identity, never cached.
func LineVisibility(user *core.Record) bool {
	return IsSalesManager(user)
}
