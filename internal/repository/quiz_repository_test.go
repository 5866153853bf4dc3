package repository

import (
	"testing"
	"time"

	"quizhub_backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

// 删除测验必须在同一事务里连带删除题目和选项
func TestQuizRepository_Delete_Cascades(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := NewQuizRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `questions`").
		WithArgs("quiz-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("q1").AddRow("q2"))
	mock.ExpectExec("DELETE FROM `options`").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("UPDATE `questions`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE `quizzes`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete("quiz-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 没有题目时跳过子表删除
func TestQuizRepository_Delete_EmptyQuiz(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := NewQuizRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `questions`").
		WithArgs("quiz-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE `quizzes`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete("quiz-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizRepository_List_QuestionCounts(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := NewQuizRepository(gdb)

	now := time.Now()
	mock.ExpectQuery("SELECT q\\.\\*, \\(SELECT COUNT\\(\\*\\) FROM questions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "deleted_at", "title", "question_count"}).
			AddRow("quiz-1", now, now, nil, "Geography", 3).
			AddRow("quiz-2", now, now, nil, "History", 0))

	rows, err := repo.List()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Geography", rows[0].Title)
	assert.Equal(t, 3, rows[0].QuestionCount)
	assert.Equal(t, 0, rows[1].QuestionCount)
}

// 删除题目时选项物理删除，题目软删除
func TestQuestionRepository_Delete(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := NewQuestionRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `options`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE `questions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete("q1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 换选项时旧选项被物理删除，新选项在同一事务内写入
func TestQuestionRepository_ReplaceOptions(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := NewQuestionRepository(gdb)

	question := &model.Question{
		UUIDBase: model.UUIDBase{ID: "q1"},
		QuizID:   "quiz-1",
		Text:     "Capital of France?",
		Type:     model.SingleChoice,
	}
	options := []model.Option{
		{Text: "Paris", IsCorrect: true},
		{Text: "Lyon"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `questions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `options`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `options`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `options`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceOptions(question, options))
	assert.NoError(t, mock.ExpectationsWereMet())

	for _, opt := range question.Options {
		assert.Equal(t, "q1", opt.QuestionID)
	}
}
