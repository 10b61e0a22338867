// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前包含身分解析（JWT 或未驗證的 username）以及以 zerolog 輸出的請求日誌。
package middleware
