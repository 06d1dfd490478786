package util

const DateFormat = "2006-01-02"

const (
	// RequestIDKey gin.Context 中请求 ID 的键
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

const (
	DefaultSampleLimit = 5
	DefaultSavedLimit  = 50
	RecentProblemLimit = 5
)
