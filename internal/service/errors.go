package service

import "errors"

// 业务错误定义
var (
	ErrNotFound         = errors.New("resource not found")
	ErrNoActiveStation  = errors.New("no active station available")
	ErrStateConflict    = errors.New("record state conflict")
	ErrBatchRejected    = errors.New("table bump rejected")
	ErrInvalidOrder     = errors.New("invalid order")
	ErrInvalidStation   = errors.New("invalid station")
	ErrInvalidOperator  = errors.New("operator is required")
	ErrDuplicateOrderNo = errors.New("order no already exists")
)
