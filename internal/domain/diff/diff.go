package diff

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNothingToSave is returned when a proposed edit changes nothing.
// Callers must refuse the edit locally instead of creating a vacuous group.
var ErrNothingToSave = errors.New("no changes to save")

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCreatedBy   = "created_by"
	FieldTags        = "tags"
)

// FieldSet holds the editable fields of an artwork record.
type FieldSet struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CreatedBy   string            `json:"created_by"`
	Tags        map[string]string `json:"tags"`
}

// FieldDiff is one field's old/new value pair within an edit group.
type FieldDiff struct {
	FieldName     string `json:"field_name"`
	FieldValueOld string `json:"field_value_old"`
	FieldValueNew string `json:"field_value_new"`
}

// Compute returns the change-set between current and proposed values.
// Empty string and unset are the same "no value". The tag map is compared
// as a unit: partial tag approval is not supported, so any differing pair
// yields a single tags diff carrying both serialized snapshots.
func Compute(old, proposed FieldSet) []FieldDiff {
	var diffs []FieldDiff

	diffs = appendScalar(diffs, FieldTitle, old.Title, proposed.Title)
	diffs = appendScalar(diffs, FieldDescription, old.Description, proposed.Description)
	diffs = appendScalar(diffs, FieldCreatedBy, old.CreatedBy, proposed.CreatedBy)

	oldTags := encodeTags(old.Tags)
	newTags := encodeTags(proposed.Tags)
	if oldTags != newTags {
		diffs = append(diffs, FieldDiff{
			FieldName:     FieldTags,
			FieldValueOld: oldTags,
			FieldValueNew: newTags,
		})
	}

	return diffs
}

// Require refuses an empty change-set before anything touches the network.
func Require(diffs []FieldDiff) error {
	if len(diffs) == 0 {
		return ErrNothingToSave
	}
	return nil
}

func appendScalar(diffs []FieldDiff, name, oldV, newV string) []FieldDiff {
	if strings.TrimSpace(oldV) == "" && strings.TrimSpace(newV) == "" {
		return diffs
	}
	if oldV == newV {
		return diffs
	}
	return append(diffs, FieldDiff{FieldName: name, FieldValueOld: oldV, FieldValueNew: newV})
}

// encodeTags produces a deterministic snapshot of the tag map.
// go-json sorts map keys like encoding/json, so equal maps encode equally.
func encodeTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(b)
}
