package service

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrInternalServer = errors.New("internal server error")
)
