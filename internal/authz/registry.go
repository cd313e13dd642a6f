package authz

import (
	"fmt"
	"sort"
)

// Code is an opaque permission code. Codes are defined at deploy time and
// never persisted per-instance; a role references them by value.
type Code string

// Permission codes, grouped by management domain.
const (
	// User management
	CreateUser Code = "create_user"
	UpdateUser Code = "update_user"
	DeleteUser Code = "delete_user"
	ViewUser   Code = "view_user"

	// Customer management
	ViewCustomers   Code = "view_customers"
	CreateCustomers Code = "create_customers"
	UpdateCustomers Code = "update_customers"
	DeleteCustomers Code = "delete_customers"

	// Role management
	CreateRole Code = "create_role"
	UpdateRole Code = "update_role"
	DeleteRole Code = "delete_role"
	ViewRole   Code = "view_role"
	AssignRole Code = "assign_role"

	// Ticket management
	CreateTicket      Code = "create_ticket"
	UpdateTicket      Code = "update_ticket"
	DeleteTicket      Code = "delete_ticket"
	ViewTicket        Code = "view_ticket"
	AssignTicket      Code = "assign_ticket"
	ResolveTicket     Code = "resolve_ticket"
	ApproveTicket     Code = "approve_ticket"
	ViewAllCustomers  Code = "view_all_customers"
	CreateNewCustomer Code = "create_new_customer"

	// Problem management
	CreateProblem Code = "create_problem"
	UpdateProblem Code = "update_problem"
	DeleteProblem Code = "delete_problem"
	ViewProblem   Code = "view_problem"

	// Installation management
	CreateInstallation   Code = "create_installation"
	UpdateInstallation   Code = "update_installation"
	DeleteInstallation   Code = "delete_installation"
	ViewInstallation     Code = "view_installation"
	AssignInstallation   Code = "assign_installation"
	CompleteInstallation Code = "complete_installation"

	// Inventory management
	CreateItem      Code = "create_item"
	UpdateItem      Code = "update_item"
	DeleteItem      Code = "delete_item"
	ViewItem        Code = "view_item"
	ImportItems     Code = "import_items"
	ManageInventory Code = "manage_inventory"

	// System settings
	ManageSettings   Code = "manage_settings"
	ViewSettings     Code = "view_settings"
	ViewAuditLogs    Code = "view_audit_logs"
	ViewActivityLogs Code = "view_activity_logs"

	// General
	ViewDashboard Code = "view_dashboard"
	ViewCustomer  Code = "view_customer"
	ViewLog       Code = "view_log"
)

// catalog is the ordered set of every registered permission code.
var catalog = []Code{
	CreateUser, UpdateUser, DeleteUser, ViewUser,
	ViewCustomers, CreateCustomers, UpdateCustomers, DeleteCustomers,
	CreateRole, UpdateRole, DeleteRole, ViewRole, AssignRole,
	CreateTicket, UpdateTicket, DeleteTicket, ViewTicket,
	AssignTicket, ResolveTicket, ApproveTicket,
	ViewAllCustomers, CreateNewCustomer,
	CreateProblem, UpdateProblem, DeleteProblem, ViewProblem,
	CreateInstallation, UpdateInstallation, DeleteInstallation,
	ViewInstallation, AssignInstallation, CompleteInstallation,
	CreateItem, UpdateItem, DeleteItem, ViewItem, ImportItems, ManageInventory,
	ManageSettings, ViewSettings, ViewAuditLogs, ViewActivityLogs,
	ViewDashboard, ViewCustomer, ViewLog,
}

// groups maps a display group name to its member codes.
var groups = map[string][]Code{
	"User Management":         {CreateUser, UpdateUser, DeleteUser, ViewUser},
	"Customer Management":     {ViewCustomers, CreateCustomers, UpdateCustomers, DeleteCustomers},
	"Role Management":         {CreateRole, UpdateRole, DeleteRole, ViewRole, AssignRole},
	"Ticket Management":       {CreateTicket, UpdateTicket, DeleteTicket, ViewTicket, AssignTicket, ResolveTicket, ApproveTicket, ViewAllCustomers, CreateNewCustomer},
	"Problem Management":      {CreateProblem, UpdateProblem, DeleteProblem, ViewProblem},
	"Installation Management": {CreateInstallation, UpdateInstallation, DeleteInstallation, ViewInstallation, AssignInstallation, CompleteInstallation},
	"Inventory Management":    {CreateItem, UpdateItem, DeleteItem, ViewItem, ImportItems, ManageInventory},
	"System Settings":         {ManageSettings, ViewSettings, ViewAuditLogs, ViewActivityLogs},
	"General":                 {ViewDashboard, ViewCustomer, ViewLog},
}

// displayNames maps codes to human-readable labels for UI listings.
var displayNames = map[Code]string{
	CreateUser: "Create User", UpdateUser: "Update User", DeleteUser: "Delete User", ViewUser: "View User",
	ViewCustomers: "View Customers", CreateCustomers: "Create Customers", UpdateCustomers: "Update Customers", DeleteCustomers: "Delete Customers",
	CreateRole: "Create Role", UpdateRole: "Update Role", DeleteRole: "Delete Role", ViewRole: "View Role", AssignRole: "Assign Role",
	CreateTicket: "Create Ticket", UpdateTicket: "Update Ticket", DeleteTicket: "Delete Ticket", ViewTicket: "View Ticket",
	AssignTicket: "Assign Ticket", ResolveTicket: "Resolve Ticket", ApproveTicket: "Approve Ticket",
	ViewAllCustomers: "View All Customers", CreateNewCustomer: "Create New Customer",
	CreateProblem: "Create Problem", UpdateProblem: "Update Problem", DeleteProblem: "Delete Problem", ViewProblem: "View Problem",
	CreateInstallation: "Create Installation", UpdateInstallation: "Update Installation", DeleteInstallation: "Delete Installation",
	ViewInstallation: "View Installation", AssignInstallation: "Assign Installation", CompleteInstallation: "Complete Installation",
	CreateItem: "Create Item", UpdateItem: "Update Item", DeleteItem: "Delete Item", ViewItem: "View Item",
	ImportItems: "Import Items", ManageInventory: "Manage Inventory",
	ManageSettings: "Manage Settings", ViewSettings: "View Settings",
	ViewAuditLogs: "View Audit Logs", ViewActivityLogs: "View Activity Logs",
	ViewDashboard: "View Dashboard", ViewCustomer: "View Customer", ViewLog: "View Log",
}

// Built-in role names with registered default permission bundles.
const (
	RoleSuperAdmin       = "SUPER_ADMIN"
	RoleSupportManager   = "SUPPORT_MANAGER"
	RoleEngineer         = "ENGINEER"
	RoleInventoryManager = "INVENTORY_MANAGER"
)

// roleDefaults maps a built-in role name to its default permission bundle.
// SUPER_ADMIN is the union of every registered code, constructed at init.
var roleDefaults = map[string][]Code{
	RoleSuperAdmin: nil,
	RoleSupportManager: {
		CreateUser, UpdateUser, ViewUser,
		ViewRole,
		CreateTicket, UpdateTicket, ViewTicket, AssignTicket, ApproveTicket,
		CreateProblem, UpdateProblem, ViewProblem, DeleteProblem,
		CreateInstallation, UpdateInstallation, ViewInstallation, AssignInstallation,
		CreateItem, UpdateItem, ViewItem, ImportItems,
		ViewSettings, ViewAllCustomers, CreateNewCustomer,
	},
	RoleEngineer: {
		ViewUser,
		ViewTicket, UpdateTicket, ResolveTicket,
		ViewProblem,
		ViewInstallation, UpdateInstallation, CompleteInstallation,
		ViewItem, ViewAllCustomers,
	},
	RoleInventoryManager: {
		ViewUser,
		CreateItem, UpdateItem, DeleteItem, ViewItem, ImportItems, ManageInventory,
		ViewTicket, ViewProblem, ViewInstallation, ViewAllCustomers,
	},
}

func init() {
	roleDefaults[RoleSuperAdmin] = append([]Code(nil), catalog...)

	known := make(map[Code]struct{}, len(catalog))
	for _, code := range catalog {
		if _, dup := known[code]; dup {
			panic(fmt.Sprintf("authz: duplicate permission code %q", code))
		}
		known[code] = struct{}{}
	}
	for name, members := range groups {
		for _, code := range members {
			if _, ok := known[code]; !ok {
				panic(fmt.Sprintf("authz: group %q references unknown code %q", name, code))
			}
		}
	}
	for role, bundle := range roleDefaults {
		for _, code := range bundle {
			if _, ok := known[code]; !ok {
				panic(fmt.Sprintf("authz: role %q references unknown code %q", role, code))
			}
		}
	}
}

// Codes returns the ordered set of every registered permission code.
func Codes() []Code {
	return append([]Code(nil), catalog...)
}

// Groups returns the group name to member code mapping.
func Groups() map[string][]Code {
	out := make(map[string][]Code, len(groups))
	for name, members := range groups {
		out[name] = append([]Code(nil), members...)
	}
	return out
}

// GroupNames returns the group names in stable order.
func GroupNames() []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultsFor resolves a built-in role name to its default permission bundle.
func DefaultsFor(roleName string) ([]Code, error) {
	bundle, ok := roleDefaults[roleName]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", roleName)
	}
	return append([]Code(nil), bundle...), nil
}

// DefaultRoleNames returns the built-in role names in stable order.
func DefaultRoleNames() []string {
	names := make([]string, 0, len(roleDefaults))
	for name := range roleDefaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registered reports whether code exists in the catalog.
func Registered(code Code) bool {
	for _, candidate := range catalog {
		if candidate == code {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable label for a code, falling back to
// the code itself.
func DisplayName(code Code) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return string(code)
}
