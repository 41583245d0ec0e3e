package service

import "time"

// CreateRequest carries the user supplied fields for a new token.
// ExpiryDate is an ISO 8601 date string.
type CreateRequest struct {
	ServiceName string `json:"serviceName"`
	Token       string `json:"token"`
	ExpiryDate  string `json:"expiryDate"`
}

// Stats summarizes the collection at a point in time.
type Stats struct {
	Total    int       `json:"total"`
	Active   int       `json:"active"`
	Expired  int       `json:"expired"`
	Expiring int       `json:"expiring"`
	Window   string    `json:"window"`
	At       time.Time `json:"at"`
}
