package service

import (
	"testing"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestQuizService(t *testing.T) (*QuizService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	quizRepo := repository.NewQuizRepository(gdb)
	questionRepo := repository.NewQuestionRepository(gdb)
	questionSvc := NewQuestionService(questionRepo, quizRepo, nil, &config.Config{})
	return NewQuizService(quizRepo, questionRepo, questionSvc), mock
}

func quizRows(id, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "deleted_at", "title"}).
		AddRow(id, now, now, nil, title)
}

func questionRows(rows ...[]interface{}) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "deleted_at", "quiz_id", "text", "type"})
	now := time.Now()
	for _, row := range rows {
		r.AddRow(row[0], now, now, nil, row[1], row[2], row[3])
	}
	return r
}

func optionRows(rows ...[]interface{}) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "deleted_at", "question_id", "text", "is_correct"})
	now := time.Now()
	for _, row := range rows {
		r.AddRow(row[0], now, now, nil, row[1], row[2], row[3])
	}
	return r
}

func TestQuizService_Submit_QuizNotFound(t *testing.T) {
	svc, mock := newTestQuizService(t)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Submit("missing", SubmissionReq{Answers: []AnswerReq{{QuestionID: "q1", TextAnswer: "x"}}})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizService_Submit_InvalidAnswerShape(t *testing.T) {
	svc, mock := newTestQuizService(t)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(quizRows("quiz-1", "Geography"))

	// 同时携带选项和文本
	_, err := svc.Submit("quiz-1", SubmissionReq{Answers: []AnswerReq{
		{QuestionID: "q1", SelectedOptionIDs: []string{"o1"}, TextAnswer: "Paris"},
	}})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(quizRows("quiz-1", "Geography"))

	// 两者皆无
	_, err = svc.Submit("quiz-1", SubmissionReq{Answers: []AnswerReq{{QuestionID: "q1"}}})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizService_Submit_DuplicateQuestionRejected(t *testing.T) {
	svc, mock := newTestQuizService(t)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(quizRows("quiz-1", "Geography"))

	// 同一题目回答两次
	_, err := svc.Submit("quiz-1", SubmissionReq{Answers: []AnswerReq{
		{QuestionID: "q1", TextAnswer: "Paris"},
		{QuestionID: "q1", TextAnswer: "paris"},
	}})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizService_Submit_NoQuestions(t *testing.T) {
	svc, mock := newTestQuizService(t)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(quizRows("quiz-1", "Empty"))
	mock.ExpectQuery("SELECT \\* FROM `questions`").
		WillReturnRows(questionRows())

	_, err := svc.Submit("quiz-1", SubmissionReq{Answers: []AnswerReq{{QuestionID: "q1", TextAnswer: "x"}}})
	assert.ErrorIs(t, err, util.ErrNoQuestions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizService_Submit_UnknownReference(t *testing.T) {
	svc, mock := newTestQuizService(t)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(quizRows("quiz-1", "Geography"))
	mock.ExpectQuery("SELECT \\* FROM `questions`").
		WillReturnRows(questionRows([]interface{}{"q1", "quiz-1", "Capital of France?", "TEXT"}))
	mock.ExpectQuery("SELECT \\* FROM `options`").
		WillReturnRows(optionRows([]interface{}{"o1", "q1", "Paris", true}))

	_, err := svc.Submit("quiz-1", SubmissionReq{Answers: []AnswerReq{
		{QuestionID: "foreign-question", TextAnswer: "Paris"},
	}})
	assert.ErrorIs(t, err, util.ErrUnknownAnswerRef)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizService_Submit_Scores(t *testing.T) {
	svc, mock := newTestQuizService(t)

	mock.ExpectQuery("SELECT \\* FROM `quizzes`").
		WillReturnRows(quizRows("quiz-1", "Geography"))
	mock.ExpectQuery("SELECT \\* FROM `questions`").
		WillReturnRows(questionRows(
			[]interface{}{"q1", "quiz-1", "Capital of France?", "TEXT"},
			[]interface{}{"q2", "quiz-1", "2+2?", "SINGLE_CHOICE"},
		))
	mock.ExpectQuery("SELECT \\* FROM `options`").
		WillReturnRows(optionRows(
			[]interface{}{"o1", "q1", "Paris", true},
			[]interface{}{"o2", "q2", "4", true},
			[]interface{}{"o3", "q2", "5", false},
		))

	result, err := svc.Submit("quiz-1", SubmissionReq{Answers: []AnswerReq{
		{QuestionID: "q1", TextAnswer: " PARIS "},
		{QuestionID: "q2", SelectedOptionIDs: []string{"o3"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 50, result.Percentage)
	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].IsCorrect)
	assert.False(t, result.Results[1].IsCorrect)
	assert.Equal(t, "4", result.Results[1].CorrectAnswer)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizService_Create_Validation(t *testing.T) {
	svc, _ := newTestQuizService(t)

	_, err := svc.Create(QuizReq{Title: ""})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Create(QuizReq{Title: string(long)})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestQuizService_Create(t *testing.T) {
	svc, mock := newTestQuizService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `quizzes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	quiz, err := svc.Create(QuizReq{Title: "Geography"})
	require.NoError(t, err)
	assert.Equal(t, "Geography", quiz.Title)
	assert.NotEmpty(t, quiz.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
