// Package game 實作房間與回合的狀態機。
//
// 這個包只操作 models.Room 聚合本身，不做任何 I/O；
// 鎖與持久化由 service 層負責，每個操作都應在同一個房間鎖內完成。
package game
