package service

import (
	"errors"
	"fmt"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/scoring"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

const maxQuizTitleLen = 255

type QuizService struct {
	Repo         *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	QuestionSvc  *QuestionService
}

func NewQuizService(repo *repository.QuizRepository, questionRepo *repository.QuestionRepository, questionSvc *QuestionService) *QuizService {
	return &QuizService{Repo: repo, QuestionRepo: questionRepo, QuestionSvc: questionSvc}
}

type QuizReq struct {
	Title string `json:"title" binding:"required"`
}

type AnswerReq struct {
	QuestionID        string   `json:"questionId" binding:"required"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
	TextAnswer        string   `json:"textAnswer"`
}

type SubmissionReq struct {
	Answers []AnswerReq `json:"answers" binding:"required,min=1,dive"`
}

func validateQuizReq(req QuizReq) error {
	if req.Title == "" || len(req.Title) > maxQuizTitleLen {
		return fmt.Errorf("%w: quiz title must be 1-%d characters", util.ErrInvalidInput, maxQuizTitleLen)
	}
	return nil
}

// validateSubmission enforces the answer shape: each answer carries either a
// non-empty option selection or a non-empty text, never both, never neither,
// and no two answers reference the same question.
func validateSubmission(req SubmissionReq) error {
	if len(req.Answers) == 0 {
		return fmt.Errorf("%w: at least one answer is required", util.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(req.Answers))
	for i, ans := range req.Answers {
		if _, dup := seen[ans.QuestionID]; dup {
			return fmt.Errorf("%w: answer %d duplicates question %s", util.ErrInvalidInput, i, ans.QuestionID)
		}
		seen[ans.QuestionID] = struct{}{}

		hasOptions := len(ans.SelectedOptionIDs) > 0
		hasText := ans.TextAnswer != ""
		if hasOptions == hasText {
			return fmt.Errorf("%w: answer %d must have exactly one of selectedOptionIds or textAnswer", util.ErrInvalidInput, i)
		}
	}
	return nil
}

func (s *QuizService) Create(req QuizReq) (*model.Quiz, error) {
	if err := validateQuizReq(req); err != nil {
		return nil, err
	}
	quiz := &model.Quiz{Title: req.Title}
	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) List() ([]repository.QuizListRow, error) {
	return s.Repo.List()
}

func (s *QuizService) Get(id string) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Update(id string, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := validateQuizReq(req); err != nil {
		return nil, err
	}
	quiz.Title = req.Title
	if err := s.Repo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.QuestionSvc.invalidateCache(id)
	return nil
}

// Submit scores a submission against the quiz's current question set. The
// read of the question state is authoritative for this submission; no
// cross-request locking is needed since scoring is pure.
func (s *QuizService) Submit(quizID string, req SubmissionReq) (*scoring.Result, error) {
	if _, err := s.Get(quizID); err != nil {
		monitoring.SubmissionCounter.WithLabelValues("not_found").Inc()
		return nil, err
	}
	if err := validateSubmission(req); err != nil {
		monitoring.SubmissionCounter.WithLabelValues("invalid").Inc()
		return nil, err
	}

	questions, err := s.QuestionRepo.ListByQuiz(quizID)
	if err != nil {
		monitoring.SubmissionCounter.WithLabelValues("store_error").Inc()
		return nil, err
	}
	if len(questions) == 0 {
		monitoring.SubmissionCounter.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: quiz %s", util.ErrNoQuestions, quizID)
	}

	result, err := scoring.Score(toScoringQuestions(questions), toScoringAnswers(req.Answers))
	if err != nil {
		var unknown *scoring.UnknownQuestionError
		if errors.As(err, &unknown) {
			monitoring.SubmissionCounter.WithLabelValues("unknown_question").Inc()
			return nil, fmt.Errorf("%w: %s", util.ErrUnknownAnswerRef, unknown.QuestionID)
		}
		monitoring.SubmissionCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues("scored").Inc()
	return result, nil
}

func toScoringQuestions(questions []model.Question) []scoring.Question {
	out := make([]scoring.Question, len(questions))
	for i, q := range questions {
		opts := make([]scoring.Option, len(q.Options))
		for j, opt := range q.Options {
			opts[j] = scoring.Option{ID: opt.ID, Text: opt.Text, IsCorrect: opt.IsCorrect}
		}
		out[i] = scoring.Question{ID: q.ID, Text: q.Text, Type: q.Type, Options: opts}
	}
	return out
}

func toScoringAnswers(answers []AnswerReq) []scoring.Answer {
	out := make([]scoring.Answer, len(answers))
	for i, a := range answers {
		out[i] = scoring.Answer{
			QuestionID:        a.QuestionID,
			SelectedOptionIDs: a.SelectedOptionIDs,
			TextAnswer:        a.TextAnswer,
		}
	}
	return out
}
