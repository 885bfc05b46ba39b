// Package dto holds the wire format of Google's OpenID userinfo endpoint.
package dto

// UserInfoResponse is the subset of the OpenID Connect userinfo claims we read.
type UserInfoResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
