package sync

import "errors"

var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrListItems      = errors.New("failed to list items without legacy id")
)
