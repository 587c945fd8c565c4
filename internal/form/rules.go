package form

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrorSet maps a failing field to its bilingual message.
type ErrorSet map[Field]string

func (e ErrorSet) Empty() bool {
	return len(e) == 0
}

func (e ErrorSet) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

func (e ErrorSet) clone() ErrorSet {
	out := make(ErrorSet, len(e))
	for field, msg := range e {
		out[field] = msg
	}
	return out
}

const (
	MsgFirstNameRequired    = "First Name is required / 名は必須です"
	MsgLastNameRequired     = "Last Name is required / 姓は必須です"
	MsgFuriganaRequired     = "Furigana is required / ふりがなは必須です"
	MsgGenderRequired       = "Gender is required / 性別は必須です"
	MsgUniversityRequired   = "University is required / 大学名は必須です"
	MsgFacultyRequired      = "Faculty is required / 学部は必須です"
	MsgAcademicYearRequired = "Academic year is required / 学年は必須です"
	MsgDesiredYearRequired  = "Desired year to work is required / 就職希望年度は必須です"
	MsgEmailRequired        = "Email is required / メールアドレスは必須です"
	MsgEmailInvalid         = "Please enter a valid email address / 有効なメールアドレスを入力してください"
	MsgEmailConfirmRequired = "Email confirmation is required / メールアドレス確認は必須です"
	MsgEmailMismatch        = "Emails do not match / メールアドレスが一致しません"
	MsgInterestsRequired    = "Please select at least one interest / 少なくとも1つ選択してください"
	MsgCommentsTooLong      = "Comments are too long / コメントが長すぎます"
	MsgConsentRequired      = "Privacy policy consent is required / プライバシーポリシーへの同意が必要です"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate computes the full Error Set for draft under variant. It is pure
// and runs every rule on every call.
func Validate(variant Variant, draft DraftRecord) ErrorSet {
	errs := ErrorSet{}

	if blank(draft.FirstName) {
		errs[FieldFirstName] = MsgFirstNameRequired
	}
	if blank(draft.LastName) {
		errs[FieldLastName] = MsgLastNameRequired
	}
	if variant.HasFurigana && blank(draft.Furigana) {
		errs[FieldFurigana] = MsgFuriganaRequired
	}
	if variant.HasGender && draft.Gender == "" {
		errs[FieldGender] = MsgGenderRequired
	}
	if variant.HasUniversity && !selectedOrOther(draft.University, draft.UniversityOther) {
		errs[FieldUniversity] = MsgUniversityRequired
	}
	if variant.HasFaculty && !selectedOrOther(draft.Faculty, draft.FacultyOther) {
		errs[FieldFaculty] = MsgFacultyRequired
	}
	if variant.HasAcademicYear && variant.RequireAcademicYear && draft.AcademicYear == "" {
		errs[FieldAcademicYear] = MsgAcademicYearRequired
	}
	if variant.HasDesiredYear && draft.DesiredYear == "" {
		errs[FieldDesiredYear] = MsgDesiredYearRequired
	}

	if msg, ok := checkEmail(variant.EmailCheck, draft.Email); !ok {
		errs[FieldEmail] = msg
	}

	if variant.HasEmailConfirm {
		switch {
		case blank(draft.EmailConfirm):
			errs[FieldEmailConfirm] = MsgEmailConfirmRequired
		case draft.EmailConfirm != draft.Email:
			errs[FieldEmailConfirm] = MsgEmailMismatch
		}
	}

	if len(draft.Interests) == 0 {
		errs[FieldInterests] = MsgInterestsRequired
	}

	limit := variant.MaxCommentLength
	if limit <= 0 {
		limit = DefaultMaxCommentLength
	}
	if utf8.RuneCountInString(draft.Comments) > limit {
		errs[FieldComments] = MsgCommentsTooLong
	}

	if variant.HasConsent && !draft.PrivacyConsent {
		errs[FieldPrivacyConsent] = MsgConsentRequired
	}

	return errs
}

func checkEmail(check EmailCheck, email string) (string, bool) {
	if blank(email) {
		return MsgEmailRequired, false
	}

	switch check {
	case EmailContainsAt:
		if !strings.Contains(email, "@") {
			return MsgEmailInvalid, false
		}
	default:
		if !emailPattern.MatchString(email) {
			return MsgEmailInvalid, false
		}
	}
	return "", true
}

// selectedOrOther accepts a concrete selection, or "other"/nothing paired
// with a non-blank free-text alternative.
func selectedOrOther(selected, other string) bool {
	if selected != "" && selected != OtherValue {
		return true
	}
	return !blank(other)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
