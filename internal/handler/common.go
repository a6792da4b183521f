package handler

import (
	"strconv"

	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/gin-gonic/gin"
)

// bindFailed answers a request whose body or query could not be bound
func bindFailed(c *gin.Context, err error) {
	utils.BadRequest(c, utils.FormatValidationError(err).Error())
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.ValidationField(name, "invalid "+name)
	}
	return uint(id), nil
}
