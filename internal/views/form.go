package views

import (
	"unicode/utf8"

	"jobfair/internal/form"
)

const (
	SubmitLabel     = "Submit / 送信"
	SubmittingLabel = "Submitting... / 送信中..."
)

// FormPage is the view model of the registration form. Its methods take
// field names as strings so templates can call them directly.
type FormPage struct {
	Variant form.Variant
	State   form.State
	Draft   form.DraftRecord
	Errors  form.ErrorSet
}

func NewFormPage(variant form.Variant, state form.State, draft form.DraftRecord, errs form.ErrorSet) FormPage {
	if errs == nil {
		errs = form.ErrorSet{}
	}
	return FormPage{Variant: variant, State: state, Draft: draft, Errors: errs}
}

func (p FormPage) Show(field string) bool {
	return p.Variant.Has(form.Field(field))
}

func (p FormPage) Error(field string) string {
	return p.Errors[form.Field(field)]
}

func (p FormPage) HasError(field string) bool {
	return p.Errors.Has(form.Field(field))
}

func (p FormPage) Value(field string) string {
	return p.Draft.Value(form.Field(field))
}

func (p FormPage) Selected(field, value string) bool {
	return p.Draft.Value(form.Field(field)) == value
}

func (p FormPage) HasInterest(tag string) bool {
	return p.Draft.HasInterest(tag)
}

// ShowOther reports whether the free-text alternative of field is visible.
func (p FormPage) ShowOther(field string) bool {
	return p.Draft.Value(form.Field(field)) == form.OtherValue
}

func (p FormPage) CommentLength() int {
	return utf8.RuneCountInString(p.Draft.Comments)
}

func (p FormPage) MaxCommentLength() int {
	if p.Variant.MaxCommentLength > 0 {
		return p.Variant.MaxCommentLength
	}
	return form.DefaultMaxCommentLength
}

func (p FormPage) Submitting() bool {
	return p.State == form.StateSubmitting
}

func (p FormPage) SubmitLabel() string {
	if p.Submitting() {
		return SubmittingLabel
	}
	return SubmitLabel
}

func (p FormPage) SubmittingLabel() string {
	return SubmittingLabel
}
