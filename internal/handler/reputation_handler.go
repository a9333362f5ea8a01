package handler

import (
	"net/http"
	"strconv"

	"github.com/KrishnaNAcharya/mentorstack/internal/middleware"
	"github.com/KrishnaNAcharya/mentorstack/internal/service"

	"github.com/gin-gonic/gin"
)

type ReputationHandler struct {
	svc *service.ReputationService
}

// AdjustReq 管理员手工调整请求体。不幂等：前端提交期间要禁用按钮，不能盲目重试
type AdjustReq struct {
	UserID uint64 `json:"userId" binding:"required"`
	Points int64  `json:"points" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func NewReputationHandler(svc *service.ReputationService) *ReputationHandler {
	return &ReputationHandler{svc: svc}
}

// History 用户声望流水，最新在前
func (h *ReputationHandler) History(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	entries, total, reputation, err := h.svc.History(c.Request.Context(), userID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries, "total": total, "reputation": reputation})
}

// Adjust 管理员手工调整声望，走统一的流水入口
func (h *ReputationHandler) Adjust(c *gin.Context) {
	adminID := c.GetUint64(middleware.ContextUserIDKey)

	var req AdjustReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	total, err := h.svc.ApplyManualAdjustment(c.Request.Context(), req.UserID, req.Points, req.Reason, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reputation": total})
}

// Rebuild 从流水重算缓存（运维入口）
func (h *ReputationHandler) Rebuild(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	total, err := h.svc.Rebuild(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reputation": total})
}

// Leaderboard 声望榜
func (h *ReputationHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := h.svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "leaderboard failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}
