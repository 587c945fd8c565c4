package views

import "jobfair/internal/form"

// Acknowledgment is the bilingual confirmation shown once a submission has
// been handed to the dispatcher. It never reflects the dispatch outcome.
type Acknowledgment struct {
	SubmissionID string   `json:"submissionId"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	Title        string   `json:"title"`
	MessageJA    []string `json:"messageJa"`
	MessageEN    []string `json:"messageEn"`
	EmailNotice  string   `json:"emailNotice"`
	CloseLabel   string   `json:"closeLabel"`
	DismissPath  string   `json:"dismissPath"`
}

const (
	AcknowledgmentTitle = "登録完了 / Registration Complete"
	CloseLabel          = "閉じる / Close"
	DismissPath         = "/dismiss"
)

// NewAcknowledgment names the form the visitor registered through.
func NewAcknowledgment(variant form.Variant, record form.SubmissionRecord) Acknowledgment {
	return Acknowledgment{
		SubmissionID: record.ID,
		FullName:     record.FullName,
		Email:        record.Email,
		Title:        AcknowledgmentTitle,
		MessageJA: []string{
			record.FullName + " 様",
			"この度は、" + variant.Title + "にご登録いただき、誠にありがとうございます。",
			"ご入力いただいた内容を確認させていただきました。後日、担当者よりご連絡させていただきますので、今しばらくお待ちください。",
		},
		MessageEN: []string{
			"Dear " + record.FullName + ",",
			"Thank you for registering through our " + variant.TitleEN + ".",
			"We have received your information and will review it carefully. Our team will contact you in the near future.",
		},
		EmailNotice: "登録されたメールアドレス（" + record.Email + "）に確認メールが送信されます。 / " +
			"A confirmation email will be sent to " + record.Email + ".",
		CloseLabel:  CloseLabel,
		DismissPath: DismissPath,
	}
}
