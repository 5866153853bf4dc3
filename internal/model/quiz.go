package model

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title string `gorm:"size:255;not null" json:"title"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
