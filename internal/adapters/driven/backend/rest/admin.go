package rest

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// AdminStats returns the dashboard summary.
func (c *Client) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var out statsDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/stats"}, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// ListUsers returns the user directory.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserEntry, error) {
	var out []userDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users"}, &out); err != nil {
		return nil, err
	}
	users := make([]domain.UserEntry, 0, len(out))
	for _, u := range out {
		users = append(users, u.toDomain())
	}
	return users, nil
}

// AuditLogs returns recent audit records, newest first.
func (c *Client) AuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error) {
	var out []auditLogDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/audit-logs"}, &out); err != nil {
		return nil, err
	}
	logs := make([]domain.AuditLogEntry, 0, len(out))
	for _, l := range out {
		logs = append(logs, l.toDomain())
	}
	return logs, nil
}

// ExportAuditLogs downloads the audit log as CSV. The filename is taken
// from Content-Disposition when present.
func (c *Client) ExportAuditLogs(ctx context.Context) (*domain.AuditExport, error) {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/admin/export-audit"})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audit export: %w", err)
	}
	return &domain.AuditExport{
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
