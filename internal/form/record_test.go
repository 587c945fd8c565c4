package form

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSubmission_RejectsInvalidDraft(t *testing.T) {
	draft := validExhibitionDraft()
	draft.Email = "not-an-email"

	_, err := BuildSubmission(Exhibition(), draft, time.Now())

	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, MsgEmailInvalid, invalid.Errors[FieldEmail])
	assert.Contains(t, err.Error(), "email")
}

func TestBuildSubmission_DerivesRecord(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 123_000_000, time.FixedZone("JST", 9*60*60))
	draft := validExhibitionDraft()
	draft.Faculty = OtherValue
	draft.FacultyOther = "Architecture"

	record, err := BuildSubmission(Exhibition(), draft, now)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Taro Yamada", record.FullName)
	assert.Equal(t, "Architecture", record.Faculty)
	assert.Equal(t, "2026-10-17T00:30:00.123Z", record.Timestamp)
	assert.Empty(t, record.University, "exhibition variant has no university field")

	draft.Interests[0] = "mutated"
	assert.Equal(t, fullTimeInterest.Value, record.Interests[0], "record must not share the draft's slice")
}

func TestSubmissionRecord_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		draft   DraftRecord
	}{
		{name: "exhibition", variant: Exhibition(), draft: validExhibitionDraft()},
		{name: "phd", variant: PhD(), draft: validPhDDraft()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.draft.Comments = "改行\nand \"quotes\" <b>kept</b>"

			record, err := BuildSubmission(tt.variant, tt.draft, time.Now())
			require.NoError(t, err)

			body, err := json.Marshal(record)
			require.NoError(t, err)

			var decoded SubmissionRecord
			require.NoError(t, json.Unmarshal(body, &decoded))

			if diff := cmp.Diff(record, decoded); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}

			assert.Equal(t, tt.draft.Email, decoded.Email)
			assert.Equal(t, tt.draft.Comments, decoded.Comments)
			assert.Equal(t, tt.draft.Furigana, decoded.Furigana)
			assert.Equal(t, tt.draft.Interests, decoded.Interests)
		})
	}
}

func TestSubmissionRecord_WireFields(t *testing.T) {
	record, err := BuildSubmission(Exhibition(), validExhibitionDraft(), time.Now())
	require.NoError(t, err)

	body, err := json.Marshal(record)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))

	for _, key := range []string{"fullName", "furigana", "gender", "faculty", "desiredYear", "email", "interests", "comments", "timestamp"} {
		assert.Contains(t, wire, key)
	}
	assert.NotContains(t, wire, "university")
	assert.IsType(t, []any{}, wire["interests"])
}
