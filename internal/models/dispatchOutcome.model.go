package models

// DispatchOutcome is the diagnostic trace of one submission dispatch. It
// deliberately holds no form data; the email is kept only as a keyed digest.
type DispatchOutcome struct {
	BaseUUIDModel
	SubmissionID string  `gorm:"type:varchar(64);not null;index" json:"submissionId"`
	Status       string  `gorm:"type:varchar(20);not null"       json:"status"` // 'delivered', 'rejected', 'failed', 'skipped'
	HTTPStatus   int     `gorm:"not null;default:0"              json:"httpStatus"`
	ErrorMessage *string `gorm:"type:text"                       json:"errorMessage,omitempty"`
	EmailDigest  string  `gorm:"type:varchar(64)"                json:"emailDigest"`
	DurationMs   int     `gorm:"not null;default:0"              json:"durationMs"` // milliseconds
}
