package reporting

// Summary is the dashboard payload: current counts across the inventory,
// the knowledge base and the backup routines.
type Summary struct {
	Assets    AssetsSummary    `json:"assets"`
	Documents DocumentsSummary `json:"documents"`
	Backups   BackupsSummary   `json:"backups"`
}

type AssetsSummary struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Maintenance int `json:"maintenance"`
	Retired     int `json:"retired"`
}

type DocumentsSummary struct {
	Total       int `json:"total"`
	Credentials int `json:"credentials"`
	Categories  int `json:"categories"`
}

type BackupsSummary struct {
	Routines int `json:"routines"`
	Success  int `json:"success"`
	Error    int `json:"error"`
	Pending  int `json:"pending"`

	// SuccessRate is Success over routines that have run at least once.
	// Zero when nothing has run yet.
	SuccessRate float64 `json:"successRate"`
}
