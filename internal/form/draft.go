package form

import (
	"slices"
	"strconv"
	"strings"
)

// DraftRecord is the in-progress form data. Tags let handlers bind posted
// HTML forms and JSON bodies directly.
type DraftRecord struct {
	FirstName       string   `json:"firstName"       form:"firstName"`
	LastName        string   `json:"lastName"        form:"lastName"`
	Furigana        string   `json:"furigana"        form:"furigana"`
	Gender          string   `json:"gender"          form:"gender"`
	University      string   `json:"university"      form:"university"`
	UniversityOther string   `json:"universityOther" form:"universityOther"`
	Faculty         string   `json:"faculty"         form:"faculty"`
	FacultyOther    string   `json:"facultyOther"    form:"facultyOther"`
	AcademicYear    string   `json:"academicYear"    form:"academicYear"`
	DesiredYear     string   `json:"desiredYear"     form:"desiredYear"`
	Email           string   `json:"email"           form:"email"`
	EmailConfirm    string   `json:"emailConfirm"    form:"emailConfirm"`
	Interests       []string `json:"interests"       form:"interests"`
	Comments        string   `json:"comments"        form:"comments"`
	PrivacyConsent  bool     `json:"privacyConsent"  form:"privacyConsent"`
}

// Value returns the text form of field. Interests are comma joined in
// selection order and consent is "true" or "false".
func (d DraftRecord) Value(field Field) string {
	switch field {
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	case FieldFurigana:
		return d.Furigana
	case FieldGender:
		return d.Gender
	case FieldUniversity:
		return d.University
	case FieldUniversityOther:
		return d.UniversityOther
	case FieldFaculty:
		return d.Faculty
	case FieldFacultyOther:
		return d.FacultyOther
	case FieldAcademicYear:
		return d.AcademicYear
	case FieldDesiredYear:
		return d.DesiredYear
	case FieldEmail:
		return d.Email
	case FieldEmailConfirm:
		return d.EmailConfirm
	case FieldInterests:
		return strings.Join(d.Interests, ", ")
	case FieldComments:
		return d.Comments
	case FieldPrivacyConsent:
		return strconv.FormatBool(d.PrivacyConsent)
	default:
		return ""
	}
}

func (d DraftRecord) HasInterest(tag string) bool {
	return slices.Contains(d.Interests, tag)
}

func (d *DraftRecord) setText(field Field, value string) error {
	switch field {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldFurigana:
		d.Furigana = value
	case FieldGender:
		d.Gender = value
	case FieldUniversity:
		d.University = value
	case FieldUniversityOther:
		d.UniversityOther = value
	case FieldFaculty:
		d.Faculty = value
	case FieldFacultyOther:
		d.FacultyOther = value
	case FieldAcademicYear:
		d.AcademicYear = value
	case FieldDesiredYear:
		d.DesiredYear = value
	case FieldEmail:
		d.Email = value
	case FieldEmailConfirm:
		d.EmailConfirm = value
	case FieldInterests:
		d.setInterests(splitInterests(value))
	case FieldComments:
		d.Comments = value
	case FieldPrivacyConsent:
		d.PrivacyConsent = parseConsent(value)
	default:
		return ErrUnknownField
	}
	return nil
}

func (d *DraftRecord) setInterests(tags []string) {
	interests := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(interests, tag) {
			continue
		}
		interests = append(interests, tag)
	}
	d.Interests = interests
}

func (d *DraftRecord) toggleInterest(tag string) {
	if i := slices.Index(d.Interests, tag); i >= 0 {
		d.Interests = slices.Delete(slices.Clone(d.Interests), i, i+1)
		return
	}
	d.Interests = append(slices.Clone(d.Interests), tag)
}

func (d DraftRecord) clone() DraftRecord {
	d.Interests = slices.Clone(d.Interests)
	return d
}

// Interest tags contain " / " but never a comma.
func splitInterests(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func parseConsent(value string) bool {
	if strings.EqualFold(strings.TrimSpace(value), "on") {
		return true
	}
	consent, _ := strconv.ParseBool(strings.TrimSpace(value))
	return consent
}
