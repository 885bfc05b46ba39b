// Package dto defines the response body of the notification endpoint.
package dto

// InactiveUsersRes is the body of GET /notification.
type InactiveUsersRes struct {
	InactiveUsers []string `json:"inactiveUsers"`
	Count         int      `json:"count"`
	DaysInactive  int      `json:"daysInactive"`
}
