package handler

import (
	"net/http"
	"strconv"

	"github.com/KrishnaNAcharya/mentorstack/internal/middleware"
	"github.com/KrishnaNAcharya/mentorstack/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	svc *service.QuestionService
}

type QuestionCreateReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type AnswerCreateReq struct {
	Content string `json:"content" binding:"required"`
}

type VoteReq struct {
	Value int `json:"value" binding:"required,oneof=1 -1"`
}

func NewQuestionHandler(svc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserIDKey)

	var req QuestionCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	q, err := h.svc.Ask(userID, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": q.ID, "title": q.Title})
}

func (h *QuestionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *QuestionHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	q, answers, err := h.svc.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": q, "answers": answers})
}

func (h *QuestionHandler) Answer(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserIDKey)
	questionID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req AnswerCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	a, err := h.svc.Answer(userID, questionID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": a.ID})
}

func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserIDKey)
	questionID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	changed, err := h.svc.VoteQuestion(c.Request.Context(), userID, questionID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *QuestionHandler) VoteAnswer(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserIDKey)
	answerID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	changed, err := h.svc.VoteAnswer(c.Request.Context(), userID, answerID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Accept 提问者采纳回答
func (h *QuestionHandler) Accept(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserIDKey)
	answerID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	changed, err := h.svc.Accept(c.Request.Context(), userID, answerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}
