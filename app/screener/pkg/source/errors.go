package source

import "errors"

// 数据源相关错误
var (
	ErrMissingColumn   = errors.New("required column missing")
	ErrUnknownSchema   = errors.New("unknown schema version")
	ErrNoSchemaMatch   = errors.New("no schema version matches header")
	ErrUnknownProvider = errors.New("unknown source provider")
)
