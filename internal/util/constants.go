package util

// 客户端与服务端共享的请求头
const (
	HeaderRequestID = "X-Request-ID"
)

const (
	MimeJSON = "application/json; charset=utf-8"
)
