package services

import "errors"

var (
	// Social network failures. A rate limit is retried once, anything else is logged.
	ErrRateLimited  = errors.New("rate limited by social network")
	ErrPostRejected = errors.New("post rejected by social network")

	ErrInvalidCredentials = errors.New("invalid admin password")
	ErrAuthNotConfigured  = errors.New("admin authentication is not configured")

	ErrScrapeFailed = errors.New("catalog scrape failed")
)
