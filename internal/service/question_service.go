package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const learnerQuestionsKeyPrefix = "quiz:questions:learner:"

const (
	maxQuestionTextLen = 255
	maxOptionTextLen   = 300
)

type QuestionService struct {
	Repo     *repository.QuestionRepository
	QuizRepo *repository.QuizRepository
	Redis    *redis.Client
	Cfg      *config.Config
}

func NewQuestionService(repo *repository.QuestionRepository, quizRepo *repository.QuizRepository, rdb *redis.Client, cfg *config.Config) *QuestionService {
	return &QuestionService{Repo: repo, QuizRepo: quizRepo, Redis: rdb, Cfg: cfg}
}

type OptionReq struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionReq struct {
	Text    string             `json:"text" binding:"required"`
	Type    model.QuestionType `json:"type" binding:"required"`
	Options []OptionReq        `json:"options" binding:"required,min=1,dive"`
}

// LearnerOption deliberately has no correctness field, so the learner view
// cannot leak answers no matter what the query fetched.
type LearnerOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type LearnerQuestion struct {
	ID      string             `json:"id"`
	Text    string             `json:"text"`
	Type    model.QuestionType `json:"type"`
	Options []LearnerOption    `json:"options"`
}

// validateQuestionReq is the gate in front of the store: the per-type
// correctness invariants hold for every question that passes it.
func validateQuestionReq(req QuestionReq) error {
	if req.Text == "" || len(req.Text) > maxQuestionTextLen {
		return fmt.Errorf("%w: question text must be 1-%d characters", util.ErrInvalidInput, maxQuestionTextLen)
	}
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", util.ErrInvalidInput, req.Type)
	}
	if len(req.Options) == 0 {
		return fmt.Errorf("%w: at least one option is required", util.ErrInvalidInput)
	}

	correctCount := 0
	for _, opt := range req.Options {
		if opt.Text == "" || len(opt.Text) > maxOptionTextLen {
			return fmt.Errorf("%w: option text must be 1-%d characters", util.ErrInvalidInput, maxOptionTextLen)
		}
		if opt.IsCorrect {
			correctCount++
		}
	}

	switch req.Type {
	case model.SingleChoice:
		if correctCount != 1 {
			return fmt.Errorf("%w: single-choice question must have exactly one correct option", util.ErrInvalidInput)
		}
	case model.MultipleChoice:
		if correctCount < 1 {
			return fmt.Errorf("%w: multiple-choice question must have at least one correct option", util.ErrInvalidInput)
		}
	case model.Text:
		if len(req.Options) != 1 {
			return fmt.Errorf("%w: text question must have exactly one option holding the correct answer", util.ErrInvalidInput)
		}
	}
	return nil
}

func buildOptions(req QuestionReq) []model.Option {
	options := make([]model.Option, len(req.Options))
	for i, opt := range req.Options {
		isCorrect := opt.IsCorrect
		if req.Type == model.Text {
			// 文本题的唯一选项就是标准答案
			isCorrect = true
		}
		options[i] = model.Option{Text: opt.Text, IsCorrect: isCorrect}
	}
	return options
}

func (s *QuestionService) Create(quizID string, req QuestionReq) (*model.Question, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if err := validateQuestionReq(req); err != nil {
		return nil, err
	}

	question := &model.Question{
		QuizID:  quizID,
		Text:    req.Text,
		Type:    req.Type,
		Options: buildOptions(req),
	}
	if err := s.Repo.CreateWithOptions(question); err != nil {
		return nil, err
	}

	s.invalidateCache(quizID)
	return question, nil
}

func (s *QuestionService) Get(id string) (*model.Question, error) {
	question, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

// Update replaces the question's text, type and full option set.
func (s *QuestionService) Update(id string, req QuestionReq) (*model.Question, error) {
	question, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := validateQuestionReq(req); err != nil {
		return nil, err
	}

	question.Text = req.Text
	question.Type = req.Type
	if err := s.Repo.ReplaceOptions(question, buildOptions(req)); err != nil {
		return nil, err
	}

	s.invalidateCache(question.QuizID)
	return question, nil
}

func (s *QuestionService) Delete(id string) error {
	question, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateCache(question.QuizID)
	return nil
}

// ListForLearner returns the learner projection, cached per quiz.
func (s *QuestionService) ListForLearner(ctx context.Context, quizID string) ([]LearnerQuestion, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	cacheKey := learnerQuestionsKeyPrefix + quizID
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached []LearnerQuestion
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("learner question cache read failed", zap.Error(err))
		}
	}

	questions, err := s.Repo.ListByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	view := make([]LearnerQuestion, len(questions))
	for i, q := range questions {
		opts := make([]LearnerOption, len(q.Options))
		for j, opt := range q.Options {
			opts[j] = LearnerOption{ID: opt.ID, Text: opt.Text}
		}
		view[i] = LearnerQuestion{ID: q.ID, Text: q.Text, Type: q.Type, Options: opts}
	}

	if s.Redis != nil {
		if data, err := json.Marshal(view); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, s.questionTTL()).Err(); err != nil {
				logger.Log.Warn("learner question cache write failed", zap.Error(err))
			}
		}
	}

	return view, nil
}

// ListForAdmin returns full question records including correctness flags.
func (s *QuestionService) ListForAdmin(quizID string) ([]model.Question, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.Repo.ListByQuiz(quizID)
}

func (s *QuestionService) questionTTL() time.Duration {
	if s.Cfg != nil && s.Cfg.Cache.QuestionTTL > 0 {
		return s.Cfg.Cache.QuestionTTL
	}
	return 10 * time.Minute
}

func (s *QuestionService) invalidateCache(quizID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), learnerQuestionsKeyPrefix+quizID).Err(); err != nil {
		logger.Log.Warn("learner question cache invalidation failed", zap.Error(err), zap.String("quizId", quizID))
	}
}
