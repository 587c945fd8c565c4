package form

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout matches JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// SubmissionRecord is the immutable snapshot sent to the collaborator.
type SubmissionRecord struct {
	ID           string   `json:"id"`
	FullName     string   `json:"fullName"`
	Furigana     string   `json:"furigana,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	University   string   `json:"university,omitempty"`
	Faculty      string   `json:"faculty,omitempty"`
	AcademicYear string   `json:"academicYear,omitempty"`
	DesiredYear  string   `json:"desiredYear,omitempty"`
	Email        string   `json:"email"`
	Interests    []string `json:"interests"`
	Comments     string   `json:"comments"`
	Timestamp    string   `json:"timestamp"`
}

// ValidationError carries the Error Set that blocked a submission.
type ValidationError struct {
	Errors ErrorSet
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, string(field))
	}
	slices.Sort(fields)
	return fmt.Sprintf("form has %d invalid field(s): %s", len(fields), strings.Join(fields, ", "))
}

// BuildSubmission validates draft and, only when the Error Set is empty,
// derives the Submission Record stamped with now.
func BuildSubmission(variant Variant, draft DraftRecord, now time.Time) (SubmissionRecord, error) {
	if errs := Validate(variant, draft); !errs.Empty() {
		return SubmissionRecord{}, &ValidationError{Errors: errs}
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	record := SubmissionRecord{
		ID:        id.String(),
		FullName:  draft.FirstName + " " + draft.LastName,
		Email:     draft.Email,
		Interests: slices.Clone(draft.Interests),
		Comments:  draft.Comments,
		Timestamp: now.UTC().Format(TimestampLayout),
	}
	if variant.HasFurigana {
		record.Furigana = draft.Furigana
	}
	if variant.HasGender {
		record.Gender = draft.Gender
	}
	if variant.HasUniversity {
		record.University = resolveOther(draft.University, draft.UniversityOther)
	}
	if variant.HasFaculty {
		record.Faculty = resolveOther(draft.Faculty, draft.FacultyOther)
	}
	if variant.HasAcademicYear {
		record.AcademicYear = draft.AcademicYear
	}
	if variant.HasDesiredYear {
		record.DesiredYear = draft.DesiredYear
	}

	return record, nil
}

func resolveOther(selected, other string) string {
	if selected == "" || selected == OtherValue {
		return other
	}
	return selected
}
