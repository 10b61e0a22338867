// Package api 處理 HTTP 請求路由和處理。
//
// REST 路由只提供房間快照與比賽紀錄的查詢；所有會改變房間狀態的操作
// 都經由 /ws 的 WebSocket 事件送進 service.Arena。
package api
