package domain

import (
	"slices"
	"strings"
	"time"
)

// FileRecord is a document in the knowledge base.
// FileID is unique; Filename is used as the key for versions, previews,
// downloads and deletes.
type FileRecord struct {
	FileID      string   `json:"file_id"`
	Filename    string   `json:"filename"`
	Size        int64    `json:"size"`
	Tags        []string `json:"tags"`
	ContentType string   `json:"content_type,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// HasTag reports whether the record carries the named tag.
func (f *FileRecord) HasTag(name string) bool {
	return slices.Contains(f.Tags, name)
}

// ToggleTag returns the record's tag set with name added or removed.
// The record itself is not modified.
func (f *FileRecord) ToggleTag(name string) []string {
	if f.HasTag(name) {
		return slices.DeleteFunc(slices.Clone(f.Tags), func(t string) bool { return t == name })
	}
	return append(slices.Clone(f.Tags), name)
}

// MatchesQuery reports whether the filename contains query, case-insensitively.
func (f *FileRecord) MatchesQuery(query string) bool {
	return strings.Contains(strings.ToLower(f.Filename), strings.ToLower(query))
}

// MatchesAnyTag reports whether the record carries at least one of tags.
// An empty filter matches everything.
func (f *FileRecord) MatchesAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if f.HasTag(t) {
			return true
		}
	}
	return false
}

// FilterFiles applies the metadata filter to files, preserving order.
// A record is kept when its filename contains query and it carries any of tags.
func FilterFiles(files []FileRecord, query string, tags []string) []FileRecord {
	out := make([]FileRecord, 0, len(files))
	for i := range files {
		if files[i].MatchesQuery(query) && files[i].MatchesAnyTag(tags) {
			out = append(out, files[i])
		}
	}
	return out
}

// VersionRecord is one stored revision of a file.
type VersionRecord struct {
	VersionID    string    `json:"version_id"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
	IsLatest     bool      `json:"is_latest"`
}
