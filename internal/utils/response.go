package utils

import (
	"errors"
	"net/http"

	"github.com/Thanhbi2612/Dreamlens/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response error envelope
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// MessageResponse plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes body with status
func JSON(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}

// OK writes a 200 response
func OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Created writes a 201 response
func Created(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}

// Message writes a 200 acknowledgement
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// ErrorResponse writes an error envelope
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	ErrorResponse(c, http.StatusUnauthorized, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// HandleError maps a service error to a response. Unclassified errors are
// logged and answered with a generic 500.
func HandleError(c *gin.Context, logger logrus.FieldLogger, err error) {
	status := errs.HTTPStatus(err)
	if errs.KindOf(err) == errs.KindInternal && logger != nil {
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	resp := Response{Code: status, Message: errs.PublicMessage(err)}
	var e *errs.Error
	if errors.As(err, &e) {
		resp.Field = e.Field
	}
	c.JSON(status, resp)
}
