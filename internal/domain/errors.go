package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidTrade = errors.New("invalid trade parameters")
	ErrRateLimited  = errors.New("rate limited")
	ErrCacheMiss    = errors.New("cache miss")
)
