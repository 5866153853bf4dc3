package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary 向测验添加题目
// @Tags 题目模块
// @Accept json
// @Produce json
// @Param quizId path string true "测验ID"
// @Param body body service.QuestionReq true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/quizzes/{quizId}/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.Create(ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary 获取测验题目（学生视图，不含答案）
// @Tags 题目模块
// @Produce json
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.Service.ListForLearner(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 获取测验题目（管理视图，含答案标记）
// @Tags 题目模块
// @Produce json
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/questions/admin [get]
func (c *QuestionController) ListQuestionsAdmin(ctx *gin.Context) {
	questions, err := c.Service.ListForAdmin(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 获取题目详情
// @Tags 题目模块
// @Produce json
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{questionId} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	question, err := c.Service.Get(ctx.Param("questionId"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 更新题目（整体替换选项）
// @Tags 题目模块
// @Accept json
// @Produce json
// @Param questionId path string true "题目ID"
// @Param body body service.QuestionReq true "题目信息"
// @Success 200 {object} util.Response
// @Router /api/questions/{questionId} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.Update(ctx.Param("questionId"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 删除题目及其选项
// @Tags 题目模块
// @Produce json
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{questionId} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Param("questionId")); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
