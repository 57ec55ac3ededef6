package screen

import "errors"

// 筛选相关错误
var (
	ErrInvalidBounds = errors.New("lower bound exceeds upper bound")
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidBands  = errors.New("invalid band table")
	ErrUnknownColumn = errors.New("unknown display column")
)
