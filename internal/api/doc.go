// Package api 組裝 gin 路由與 HTTP 處理器。
//
// handlers 只負責綁定與驗證輸入、呼叫 service，並把 game 的錯誤類別轉成 HTTP 狀態碼。
// 客戶端以輪詢 /rooms/:code/status 同步狀態，伺服器不主動推送。
package api
