package library

import "github.com/abhisek/vastu/internal/cms"

// itemsLoadedMsg carries the result of a list fetch, including the refetch
// that follows a delete.
type itemsLoadedMsg struct {
	Items []cms.Document
	Err   error
}
