package model

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned by the API.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// MessageList is the envelope for the admin message listing, carrying the
// page of messages plus the unread counter shown in the dashboard badge.
type MessageList struct {
	Messages    []Message  `json:"messages"`
	Pagination  Pagination `json:"pagination"`
	UnreadCount int64      `json:"unread_count"`
}
