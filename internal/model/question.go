package model

type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	Text           QuestionType = "TEXT"
)

// Valid reports whether t is one of the three supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultipleChoice, Text:
		return true
	}
	return false
}

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID string       `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Text   string       `gorm:"size:255;not null" json:"text"`
	Type   QuestionType `gorm:"size:50;not null" json:"type"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
