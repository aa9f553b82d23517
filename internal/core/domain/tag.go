package domain

import "strings"

// DefaultTagColor is used for tag names with no matching definition.
const DefaultTagColor = "#e5e7eb"

// PresetTagColors are the colours offered when creating a tag.
var PresetTagColors = []string{"#72dbc8", "#df8194", "#2aa95c", "#a855f7", "#60a5fa", "#f59e0b"}

// Tag is a named, coloured label with a usage count.
type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// NormalizeTag trims the name and fills in a preset colour when none is given.
func NormalizeTag(name, color string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, ErrInvalidInput
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = PresetTagColors[0]
	}
	return Tag{Name: name, Color: color}, nil
}

// LookupTag finds a tag by name, falling back to a tag with the default colour.
func LookupTag(tags []Tag, name string) Tag {
	for _, t := range tags {
		if t.Name == name {
			return t
		}
	}
	return Tag{Name: name, Color: DefaultTagColor}
}
