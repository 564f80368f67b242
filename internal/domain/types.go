package domain

// ID is the opaque identifier assigned by the Data Store.
type ID = string

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID    ID     `json:"userId"`
	Email     string `json:"email"`
	RequestID string `json:"requestId"`
}
