package models

// Snapshot holds the system information collected once at startup.
// It is never modified after the collector returns it.
type Snapshot struct {
	CPU          string   `json:"cpu"`
	Device       string   `json:"device"`
	Distro       string   `json:"distro"`
	Editor       string   `json:"editor"`
	Environment  string   `json:"environment"`
	GPUs         []string `json:"gpus"`
	Memory       string   `json:"memory"` // used/total
	Music        string   `json:"music"`
	Packages     string   `json:"packages"`
	Temperatures []string `json:"temperatures"` // "<sensor> <value>°C"
	Terminal     string   `json:"terminal"`
	Uptime       string   `json:"uptime"`
	User         string   `json:"user"`
}

// NotAvailable is shown for metrics that have no value.
const NotAvailable = "N/A"
