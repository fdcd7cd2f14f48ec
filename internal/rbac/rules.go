package rbac

const (
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

const (
	PermBankView     = "bank:view"
	PermExamTake     = "exam:take"
	PermBankReload   = "bank:reload"
	PermAssetsUpload = "assets:upload"
	PermEventsView   = "events:view"
)

var RolePermissions = map[string][]string{
	RoleGuest: {
		PermBankView,
		PermExamTake,
	},
	RoleAdmin: {
		"*", // everything
	},
}
