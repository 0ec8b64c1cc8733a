package domain

// Capability is a single yes/no permission consumed by the boundary before a
// mutating operation is invoked. Services receive the already-checked request;
// they never inspect roles.
type Capability string

const (
	CapStockRead        Capability = "stock:read"
	CapStockWrite       Capability = "stock:write"
	CapStockAdjust      Capability = "stock:adjust"
	CapTransferCreate   Capability = "transfer:create"
	CapTransferApprove  Capability = "transfer:approve"
	CapTransferComplete Capability = "transfer:complete"
	CapTransferCancel   Capability = "transfer:cancel"
	CapAlertManage      Capability = "alert:manage"
	CapUserManage       Capability = "user:manage"
)

// roleCapabilities is the static role -> capability grant table.
var roleCapabilities = map[UserRole]map[Capability]bool{
	RoleAdmin: {
		CapStockRead: true, CapStockWrite: true, CapStockAdjust: true,
		CapTransferCreate: true, CapTransferApprove: true,
		CapTransferComplete: true, CapTransferCancel: true,
		CapAlertManage: true, CapUserManage: true,
	},
	RoleManager: {
		CapStockRead: true, CapStockWrite: true, CapStockAdjust: true,
		CapTransferCreate: true, CapTransferApprove: true,
		CapTransferComplete: true, CapTransferCancel: true,
		CapAlertManage: true,
	},
	RoleOperator: {
		CapStockRead: true, CapStockWrite: true,
		CapTransferCreate: true, CapTransferComplete: true,
		CapTransferCancel: true,
	},
	RoleViewer: {
		CapStockRead: true,
	},
}

// HasCapability reports whether the role grants the capability.
func (r UserRole) HasCapability(cap Capability) bool {
	return roleCapabilities[r][cap]
}
