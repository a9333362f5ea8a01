package handler

import (
	"errors"
	"net/http"

	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"github.com/gin-gonic/gin"
)

// respondError 业务错误统一映射到 HTTP 状态码
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pkg.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, pkg.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, pkg.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"msg": err.Error()})
}
