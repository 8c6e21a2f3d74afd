// Package middleware 提供 gin 中間件。
//
// 包含 JWT 身份驗證、帶 request id 的存取日誌，以及依客戶端 IP 的速率限制。
package middleware
