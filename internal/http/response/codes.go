package response

const (
	CodeOK            = 0
	CodeBadRequest    = 400
	CodeNotFound      = 404
	CodeConflict      = 409 // 状态冲突，调用方刷新后重试
	CodeBatchRejected = 422 // 批量操作被整体拒绝
	CodeInternal      = 500
	CodeConfigError   = 503 // 配置缺失，无法完成路由
)
