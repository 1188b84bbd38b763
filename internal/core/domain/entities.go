package domain

// Role represents user role in the system
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanPaid      LoanStatus = "paid"
	LoanDefaulted LoanStatus = "defaulted"
)

// IsValid reports whether s is a known loan status
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanActive, LoanPaid, LoanDefaulted:
		return true
	}
	return false
}

// Capability is a permission checked by the authorization gate
type Capability string

const (
	CapLedgerWrite  Capability = "ledger:write"
	CapLoanWrite    Capability = "loan:write"
	CapUserManage   Capability = "user:manage"
	CapReportRead   Capability = "report:read"
	CapDataTransfer Capability = "data:transfer"
	// CapSelfWrite covers resources owned by the acting user (debts, goals, settings).
	CapSelfWrite Capability = "self:write"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapLedgerWrite,
		CapLoanWrite,
		CapUserManage,
		CapReportRead,
		CapDataTransfer,
		CapSelfWrite,
	},
	RoleMember: {
		CapSelfWrite,
	},
}

// Can reports whether the role grants the capability
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// Report periods used by ledger listings
const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
	PeriodAll     = "all"
)
