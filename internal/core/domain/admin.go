package domain

import (
	"slices"
	"time"
)

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	TotalFiles       int      `json:"total_files"`
	OnlineUsersCount int      `json:"online_users_count"`
	OnlineUsersList  []string `json:"online_users_list"`
	StorageUsed      string   `json:"storage_used"`
	SystemHealth     string   `json:"system_health"`
}

// IsOnline reports whether username is in the online list.
func (s *AdminStats) IsOnline(username string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.OnlineUsersList, username)
}

// UserEntry is one account in the user directory.
type UserEntry struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Enabled   bool      `json:"enabled"`
	Groups    []string  `json:"groups"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLogEntry is one immutable audit record.
type AuditLogEntry struct {
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	User       string    `json:"user"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	DurationMS float64   `json:"duration_ms"`
	Details    string    `json:"details,omitempty"`
}

// AuditExport is a downloaded audit log.
type AuditExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AuditExportFilename is the dated fallback name for an audit export.
func AuditExportFilename(now time.Time) string {
	return "audit_logs_" + now.Format("2006-01-02") + ".csv"
}

// UserPresence is a directory entry with its online flag.
type UserPresence struct {
	UserEntry
	Online bool
}

// AdminOverview is everything the admin panel renders.
type AdminOverview struct {
	Stats   AdminStats
	Users   []UserPresence
	Logs    []AuditLogEntry
	Banner  string
	Loading bool
}
