package form

import "fmt"

// OtherValue is the select value that enables a free-text alternative.
const OtherValue = "other"

const DefaultMaxCommentLength = 500

type EmailCheck int

const (
	// EmailPattern requires local-part@domain.tld without whitespace.
	EmailPattern EmailCheck = iota
	// EmailContainsAt only requires an "@".
	EmailContainsAt
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Variant is the schema of one deployed form. Each deployment picks exactly
// one; the variants are not merged.
type Variant struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	TitleEN  string `json:"titleEn"`
	Subtitle string `json:"subtitle"`

	HasFurigana     bool `json:"hasFurigana"`
	HasGender       bool `json:"hasGender"`
	HasUniversity   bool `json:"hasUniversity"`
	HasFaculty      bool `json:"hasFaculty"`
	HasAcademicYear bool `json:"hasAcademicYear"`
	HasDesiredYear  bool `json:"hasDesiredYear"`
	HasEmailConfirm bool `json:"hasEmailConfirm"`
	HasConsent      bool `json:"hasConsent"`

	RequireAcademicYear bool `json:"requireAcademicYear"`

	EmailCheck       EmailCheck `json:"emailCheck"`
	MaxCommentLength int        `json:"maxCommentLength"`

	GenderOptions       []Option `json:"genderOptions,omitempty"`
	UniversityOptions   []Option `json:"universityOptions,omitempty"`
	FacultyOptions      []Option `json:"facultyOptions,omitempty"`
	AcademicYearOptions []Option `json:"academicYearOptions,omitempty"`
	DesiredYearOptions  []Option `json:"desiredYearOptions,omitempty"`
	InterestOptions     []Option `json:"interestOptions"`
}

const (
	VariantExhibition = "exhibition"
	VariantPhD        = "phd"
)

var (
	internshipInterest = Option{
		Value: "Internship in Japan / 日本でのインターンシップ",
		Label: "Internship in Japan / 日本でのインターンシップ",
	}
	fullTimeInterest = Option{
		Value: "Full-time Employment in Japan / 日本での正社員",
		Label: "Full-time Employment in Japan / 日本での正社員",
	}
	otherOption = Option{Value: OtherValue, Label: "Other / その他"}
)

// Exhibition is the visitor form used at the job-fair booth.
func Exhibition() Variant {
	return Variant{
		Name:     VariantExhibition,
		Title:    "展示会来訪者入力フォーム",
		TitleEN:  "Job Fair Visitor Registration Form",
		Subtitle: "Work with us in Japan! We will contact you! / 日本で一緒に働きましょう！ご連絡させていただきます！",

		HasFurigana:     true,
		HasGender:       true,
		HasFaculty:      true,
		HasDesiredYear:  true,
		HasEmailConfirm: true,
		HasConsent:      true,

		EmailCheck:       EmailPattern,
		MaxCommentLength: DefaultMaxCommentLength,

		GenderOptions: []Option{
			{Value: "male", Label: "Male / 男性"},
			{Value: "female", Label: "Female / 女性"},
			{Value: "other", Label: "Other / その他"},
			{Value: "prefer_not_to_say", Label: "Prefer not to say / 回答しない"},
		},
		FacultyOptions: []Option{
			selfLabelled("IT / Information Technology / IT/情報技術学部"),
			selfLabelled("Digital Technology / デジタルテクノロジー学部"),
			selfLabelled("Business Administration / 経営学部"),
			selfLabelled("Global Communication / グローバルコミュニケーション学部"),
			selfLabelled("TNIC / International College / TNIC/国際学院"),
			selfLabelled("Continued Education / Adult Education / 社会人教育"),
			selfLabelled("MA / Master's Course / MA/修士課程"),
			selfLabelled("Graduated / 既卒"),
			otherOption,
		},
		DesiredYearOptions: []Option{
			selfLabelled("2026"),
			selfLabelled("2027"),
			selfLabelled("2028"),
			selfLabelled("2029"),
			{Value: "graduated", Label: "Graduated / 既卒"},
			{Value: "others", Label: "Others / その他"},
		},
		InterestOptions: []Option{fullTimeInterest, internshipInterest},
	}
}

// PhD is the doctoral-candidate variant. It checks email loosely and has no
// confirmation or consent fields.
func PhD() Variant {
	return Variant{
		Name:     VariantPhD,
		Title:    "博士課程 来訪者登録フォーム",
		TitleEN:  "PhD Visitor Registration Form",
		Subtitle: "PhD Visitor Registration / 博士課程の方はこちら",

		HasFurigana:     true,
		HasUniversity:   true,
		HasFaculty:      true,
		HasAcademicYear: true,

		EmailCheck:       EmailContainsAt,
		MaxCommentLength: DefaultMaxCommentLength,

		UniversityOptions: []Option{
			selfLabelled("Thai-Nichi Institute of Technology / 泰日工業大学"),
			selfLabelled("Chulalongkorn University / チュラロンコン大学"),
			selfLabelled("King Mongkut's University of Technology / モンクット王工科大学"),
			otherOption,
		},
		FacultyOptions: []Option{
			selfLabelled("Engineering / 工学"),
			selfLabelled("Information Science / 情報科学"),
			selfLabelled("Business / 経営"),
			otherOption,
		},
		AcademicYearOptions: []Option{
			{Value: "1", Label: "1st year / 1年"},
			{Value: "2", Label: "2nd year / 2年"},
			{Value: "3", Label: "3rd year / 3年"},
			{Value: "4+", Label: "4th year or later / 4年以上"},
		},
		InterestOptions: []Option{
			{Value: "Research Position in Japan / 日本での研究職", Label: "Research Position in Japan / 日本での研究職"},
			fullTimeInterest,
			internshipInterest,
		},
	}
}

func LookupVariant(name string) (Variant, error) {
	switch name {
	case "", VariantExhibition:
		return Exhibition(), nil
	case VariantPhD:
		return PhD(), nil
	default:
		return Variant{}, fmt.Errorf("unknown form variant %q", name)
	}
}

// Has reports whether field is part of this variant's form.
func (v Variant) Has(field Field) bool {
	switch field {
	case FieldFirstName, FieldLastName, FieldEmail, FieldInterests, FieldComments:
		return true
	case FieldFurigana:
		return v.HasFurigana
	case FieldGender:
		return v.HasGender
	case FieldUniversity, FieldUniversityOther:
		return v.HasUniversity
	case FieldFaculty, FieldFacultyOther:
		return v.HasFaculty
	case FieldAcademicYear:
		return v.HasAcademicYear
	case FieldDesiredYear:
		return v.HasDesiredYear
	case FieldEmailConfirm:
		return v.HasEmailConfirm
	case FieldPrivacyConsent:
		return v.HasConsent
	default:
		return false
	}
}

func (v Variant) Fields() []Field {
	fields := make([]Field, 0, len(AllFields))
	for _, field := range AllFields {
		if v.Has(field) {
			fields = append(fields, field)
		}
	}
	return fields
}

func selfLabelled(value string) Option {
	return Option{Value: value, Label: value}
}
