package response

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/marketplace/pkg/logger"
)

// Response 错误响应体，message 为单行文案
type Response struct {
	Error string `json:"error"`
}

// OK 简单成功响应
type OK struct {
	OK bool `json:"ok"`
}

// Success 直接返回数据
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = OK{OK: true}
	}
	c.JSON(http.StatusOK, data)
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Error: message})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, message)
}

// InternalError 记录原始错误并上报 sentry，对外只返回通用文案
func InternalError(c *gin.Context, err error) {
	InternalErrorWithMessage(c, err, "internal server error")
}

func InternalErrorWithMessage(c *gin.Context, err error, message string) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil && err != nil {
		hub.CaptureException(err)
	}
	Fail(c, http.StatusInternalServerError, message)
}
