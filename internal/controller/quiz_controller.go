package controller

import (
	"errors"

	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// respondServiceError maps the error taxonomy onto HTTP statuses: not-found
// kinds to 404, validation and bad references to 400, everything else to a
// logged 500.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidInput), errors.Is(err, util.ErrNoQuestions), errors.Is(err, util.ErrUnknownAnswerRef):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 创建测验
// @Tags 测验模块
// @Accept json
// @Produce json
// @Param body body service.QuizReq true "测验信息"
// @Success 201 {object} util.Response
// @Router /api/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.Create(req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// @Summary 获取测验列表（含题目数量）
// @Tags 测验模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.Service.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": quizzes, "total": len(quizzes)})
}

// @Summary 获取测验详情
// @Tags 测验模块
// @Produce json
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.Service.Get(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary 更新测验
// @Tags 测验模块
// @Accept json
// @Produce json
// @Param id path string true "测验ID"
// @Param body body service.QuizReq true "测验信息"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.Update(ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary 删除测验（级联删除题目和选项）
// @Tags 测验模块
// @Produce json
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Param("id")); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 提交答案并评分
// @Tags 测验模块
// @Accept json
// @Produce json
// @Param quizId path string true "测验ID"
// @Param body body service.SubmissionReq true "答案列表"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	var req service.SubmissionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
