package item

import "errors"

var (
	ErrNotFound      = errors.New("item not found")
	ErrLegacyIDTaken = errors.New("legacy item id already assigned to another item")
	ErrInvalidItem   = errors.New("invalid item")
)
