package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrRackNotFound    = errors.New("rack not found")
	ErrServerNotFound  = errors.New("server not found")
	ErrDuplicateServer = errors.New("hostname or serial number already in use")
	ErrRackFull        = errors.New("rack is full")
	ErrSlotTaken       = errors.New("slot is already occupied")
	ErrSlotRange       = errors.New("slot is out of range")
)
