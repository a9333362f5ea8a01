package handler

import (
	"net/http"
	"strconv"

	"github.com/KrishnaNAcharya/mentorstack/internal/service"

	"github.com/gin-gonic/gin"
)

type BadgeHandler struct {
	svc *service.BadgeService
}

type BadgeReq struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	ReputationThreshold int64  `json:"reputationThreshold"`
	ImageURL            string `json:"imageUrl"`
}

func NewBadgeHandler(svc *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{svc: svc}
}

// List 徽章目录，带派生的 awardedCount
func (h *BadgeHandler) List(c *gin.Context) {
	badges, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

// UserBadges 某用户持有的徽章
func (h *BadgeHandler) UserBadges(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	awards, err := h.svc.UserBadges(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"awards": awards})
}

func (h *BadgeHandler) Create(c *gin.Context) {
	var req BadgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	badge, err := h.svc.Create(req.Name, req.Description, req.ReputationThreshold, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badge": badge})
}

func (h *BadgeHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req BadgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Update(id, req.Name, req.Description, req.ReputationThreshold, req.ImageURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ToggleActive 启停徽章；停用不影响已授出的
func (h *BadgeHandler) ToggleActive(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.ToggleActive(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
