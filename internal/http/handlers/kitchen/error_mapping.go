package kitchen

import (
	"errors"

	"github.com/kds-next/internal/http/response"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

var kitchenErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "resource not found"},
	{target: service.ErrStateConflict, code: response.CodeConflict, msg: "record already transitioned, refresh and retry"},
	{target: service.ErrBatchRejected, code: response.CodeBatchRejected, msg: "table bump rejected, refresh and retry"},
	{target: service.ErrNoActiveStation, code: response.CodeConfigError, msg: "no active station configured"},
	{target: service.ErrInvalidOrder, code: response.CodeBadRequest, msg: "invalid order payload"},
	{target: service.ErrInvalidOperator, code: response.CodeBadRequest, msg: "operator is required"},
	{target: service.ErrDuplicateOrderNo, code: response.CodeBadRequest, msg: "order no already exists"},
}

// respondError 按映射表回写业务错误，未匹配的错误按内部错误处理
func respondError(c *gin.Context, err error) {
	for _, rule := range kitchenErrorRules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.msg)
			return
		}
	}
	logger.Errorw("kitchen_handler_error",
		"path", c.FullPath(),
		"error", err,
	)
	response.Error(c, response.CodeInternal, "internal error")
}
