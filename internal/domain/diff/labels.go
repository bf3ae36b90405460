package diff

import "strings"

var fieldLabels = map[string]string{
	FieldTitle:       "Title",
	FieldDescription: "Description",
	FieldCreatedBy:   "Artist/Creator",
	FieldTags:        "Structured tags",
}

// Label maps a field name to its display name.
func Label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// Summary builds the one-line description of an edit group.
// A group that is nothing but a tag-map change collapses to a fixed
// phrase instead of enumerating key counts.
func Summary(diffs []FieldDiff) string {
	if len(diffs) == 1 && diffs[0].FieldName == FieldTags {
		return "Structured tag updates"
	}

	labels := make([]string, 0, len(diffs))
	for _, d := range diffs {
		labels = append(labels, Label(d.FieldName))
	}
	return strings.Join(labels, ", ")
}
