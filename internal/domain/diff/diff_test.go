package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_NoChanges(t *testing.T) {
	fields := FieldSet{
		Title:     "Mural at 5th",
		CreatedBy: "Unknown",
		Tags:      map[string]string{"material": "paint"},
	}
	diffs := Compute(fields, fields)
	assert.Empty(t, diffs)
	assert.ErrorIs(t, Require(diffs), ErrNothingToSave)
}

func TestCompute_TitleChanged(t *testing.T) {
	old := FieldSet{Title: "Untitled"}
	proposed := FieldSet{Title: "Blue Horse"}

	diffs := Compute(old, proposed)
	require.Len(t, diffs, 1)
	assert.Equal(t, FieldTitle, diffs[0].FieldName)
	assert.Equal(t, "Untitled", diffs[0].FieldValueOld)
	assert.Equal(t, "Blue Horse", diffs[0].FieldValueNew)
	assert.NoError(t, Require(diffs))
}

func TestCompute_EmptyAndUnsetAreEquivalent(t *testing.T) {
	old := FieldSet{Title: "Kept", Description: ""}
	proposed := FieldSet{Title: "Kept"}

	diffs := Compute(old, proposed)
	assert.Empty(t, diffs)
}

func TestCompute_TagsDiffedAsUnit(t *testing.T) {
	old := FieldSet{Tags: map[string]string{"material": "bronze", "condition": "good"}}
	proposed := FieldSet{Tags: map[string]string{"material": "bronze", "condition": "damaged"}}

	diffs := Compute(old, proposed)
	require.Len(t, diffs, 1)
	assert.Equal(t, FieldTags, diffs[0].FieldName)
	// both serialized snapshots travel with the single diff
	assert.Contains(t, diffs[0].FieldValueOld, `"condition":"good"`)
	assert.Contains(t, diffs[0].FieldValueNew, `"condition":"damaged"`)
	assert.Contains(t, diffs[0].FieldValueNew, `"material":"bronze"`)
}

func TestCompute_EqualTagsDifferentOrderNoDiff(t *testing.T) {
	old := FieldSet{Tags: map[string]string{"a": "1", "b": "2"}}
	proposed := FieldSet{Tags: map[string]string{"b": "2", "a": "1"}}

	assert.Empty(t, Compute(old, proposed))
}

func TestCompute_NilAndEmptyTagsEquivalent(t *testing.T) {
	old := FieldSet{Tags: nil}
	proposed := FieldSet{Tags: map[string]string{}}

	assert.Empty(t, Compute(old, proposed))
}

func TestCompute_MultipleFields(t *testing.T) {
	old := FieldSet{Title: "A", Description: "old", CreatedBy: "X"}
	proposed := FieldSet{Title: "B", Description: "old", CreatedBy: "Y"}

	diffs := Compute(old, proposed)
	require.Len(t, diffs, 2)

	names := []string{diffs[0].FieldName, diffs[1].FieldName}
	assert.Contains(t, names, FieldTitle)
	assert.Contains(t, names, FieldCreatedBy)
}

func TestCompute_FieldNamesUniquePerGroup(t *testing.T) {
	old := FieldSet{Title: "A", Tags: map[string]string{"k": "1"}}
	proposed := FieldSet{Title: "B", Tags: map[string]string{"k": "2"}}

	diffs := Compute(old, proposed)
	seen := map[string]bool{}
	for _, d := range diffs {
		assert.False(t, seen[d.FieldName], "duplicate field %s", d.FieldName)
		seen[d.FieldName] = true
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Structured tags", Label(FieldTags))
	assert.Equal(t, "Artist/Creator", Label(FieldCreatedBy))
	assert.Equal(t, "somefield", Label("somefield"))
}

func TestSummary_LoneTagsDiffCollapses(t *testing.T) {
	diffs := Compute(
		FieldSet{Tags: map[string]string{"material": "steel"}},
		FieldSet{Tags: map[string]string{"material": "iron"}},
	)
	require.Len(t, diffs, 1)
	assert.Equal(t, "Structured tag updates", Summary(diffs))
}

func TestSummary_EnumeratesOtherFields(t *testing.T) {
	diffs := Compute(
		FieldSet{Title: "A", Tags: map[string]string{"k": "1"}},
		FieldSet{Title: "B", Tags: map[string]string{"k": "2"}},
	)
	require.Len(t, diffs, 2)
	assert.Equal(t, "Title, Structured tags", Summary(diffs))
}
