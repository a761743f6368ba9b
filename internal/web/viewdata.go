package web

import "masthead/internal/header"

// Page wraps the shared header view and page-specific Content.
type Page[T any] struct {
	Title   string
	Header  header.View
	Content T
}
