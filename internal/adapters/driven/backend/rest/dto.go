package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// number decodes a JSON number or numeric string. Decimal-backed stores
// serialise integers as floats, so fractions are truncated.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = number(f)
	return nil
}

// timestamp decodes the ISO-8601 variants the backend emits, with or
// without a zone. Zoneless values are taken as UTC.
type timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = timestamp{}
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = timestamp(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

type identityDTO struct {
	Username string `json:"username"`
	Groups   any    `json:"groups"`
}

type loginEventDTO struct {
	Username string `json:"username"`
	Source   string `json:"source"`
}

type fileDTO struct {
	FileID      string   `json:"file_id"`
	Filename    string   `json:"filename"`
	Size        number   `json:"size"`
	Tags        []string `json:"tags"`
	ContentType string   `json:"content_type"`
	Status      string   `json:"status"`
}

func (d fileDTO) toDomain() domain.FileRecord {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	id := d.FileID
	if id == "" {
		id = d.Filename
	}
	return domain.FileRecord{
		FileID:      id,
		Filename:    d.Filename,
		Size:        int64(d.Size),
		Tags:        tags,
		ContentType: d.ContentType,
		Status:      d.Status,
	}
}

type versionDTO struct {
	VersionID    string    `json:"version_id"`
	LastModified timestamp `json:"last_modified"`
	Size         number    `json:"size"`
	IsLatest     bool      `json:"is_latest"`
}

func (d versionDTO) toDomain() domain.VersionRecord {
	return domain.VersionRecord{
		VersionID:    d.VersionID,
		LastModified: time.Time(d.LastModified),
		Size:         int64(d.Size),
		IsLatest:     d.IsLatest,
	}
}

type searchResultDTO struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Score   number `json:"score"`
}

type tagDTO struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count number `json:"count"`
}

type createTagDTO struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type assignTagsDTO struct {
	FileID string   `json:"file_id"`
	Tags   []string `json:"tags"`
}

type uploadURLDTO struct {
	UploadURL string `json:"upload_url"`
	Filename  string `json:"filename"`
}

type ingestRequestDTO struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadURL   string `json:"upload_url,omitempty"`
}

type ingestResultDTO struct {
	Status string `json:"status"`
	FileID string `json:"file_id"`
	Error  string `json:"error"`
}

type viewURLDTO struct {
	ViewURL string `json:"view_url"`
}

type downloadURLDTO struct {
	DownloadURL string `json:"download_url"`
}

type statsDTO struct {
	TotalFiles       number   `json:"total_files"`
	OnlineUsersCount number   `json:"online_users_count"`
	OnlineUsersList  []string `json:"online_users_list"`
	StorageUsed      string   `json:"storage_used"`
	SystemHealth     string   `json:"system_health"`
}

func (d statsDTO) toDomain() *domain.AdminStats {
	return &domain.AdminStats{
		TotalFiles:       int(d.TotalFiles),
		OnlineUsersCount: int(d.OnlineUsersCount),
		OnlineUsersList:  d.OnlineUsersList,
		StorageUsed:      d.StorageUsed,
		SystemHealth:     d.SystemHealth,
	}
}

type userDTO struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Enabled   bool      `json:"enabled"`
	Groups    []string  `json:"groups"`
	CreatedAt timestamp `json:"created_at"`
}

func (d userDTO) toDomain() domain.UserEntry {
	return domain.UserEntry{
		Username:  d.Username,
		Email:     d.Email,
		Status:    d.Status,
		Enabled:   d.Enabled,
		Groups:    d.Groups,
		CreatedAt: time.Time(d.CreatedAt),
	}
}

type auditLogDTO struct {
	EventID    string    `json:"event_id"`
	Timestamp  timestamp `json:"timestamp"`
	User       string    `json:"user"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode number    `json:"status_code"`
	DurationMS number    `json:"duration_ms"`
	Details    string    `json:"details"`
}

func (d auditLogDTO) toDomain() domain.AuditLogEntry {
	return domain.AuditLogEntry{
		EventID:    d.EventID,
		Timestamp:  time.Time(d.Timestamp),
		User:       d.User,
		Method:     d.Method,
		Path:       d.Path,
		StatusCode: int(d.StatusCode),
		DurationMS: float64(d.DurationMS),
		Details:    d.Details,
	}
}
