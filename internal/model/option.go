package model

// Option is an answer choice. For TEXT questions the single option holds the
// canonical accepted answer and IsCorrect is always true.
// swagger:model Option
type Option struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Text       string `gorm:"size:300;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}
