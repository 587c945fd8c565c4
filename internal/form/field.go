package form

import (
	"errors"
	"fmt"
)

// Field names match the HTML input names and the JSON keys of DraftRecord.
type Field string

const (
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldFurigana        Field = "furigana"
	FieldGender          Field = "gender"
	FieldUniversity      Field = "university"
	FieldUniversityOther Field = "universityOther"
	FieldFaculty         Field = "faculty"
	FieldFacultyOther    Field = "facultyOther"
	FieldAcademicYear    Field = "academicYear"
	FieldDesiredYear     Field = "desiredYear"
	FieldEmail           Field = "email"
	FieldEmailConfirm    Field = "emailConfirm"
	FieldInterests       Field = "interests"
	FieldComments        Field = "comments"
	FieldPrivacyConsent  Field = "privacyConsent"
)

var AllFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldFurigana,
	FieldGender,
	FieldUniversity,
	FieldUniversityOther,
	FieldFaculty,
	FieldFacultyOther,
	FieldAcademicYear,
	FieldDesiredYear,
	FieldEmail,
	FieldEmailConfirm,
	FieldInterests,
	FieldComments,
	FieldPrivacyConsent,
}

var ErrUnknownField = errors.New("unknown form field")

func ParseField(name string) (Field, error) {
	for _, field := range AllFields {
		if string(field) == name {
			return field, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// errorKey is the Error Set entry a field reports under. Free-text
// alternatives report under the select they complete.
func (f Field) errorKey() Field {
	switch f {
	case FieldUniversityOther:
		return FieldUniversity
	case FieldFacultyOther:
		return FieldFaculty
	default:
		return f
	}
}
