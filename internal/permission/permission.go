// Package permission 角色能力检查
// 所有路由的权限判断都通过这里, handler 中不直接比较角色字符串
package permission

import "terminal-terrace/library/internal/model/user"

// Capability 受控操作
type Capability string

const (
	ManageUsers       Capability = "users.manage"
	ManageCatalog     Capability = "catalog.manage" // 图书与作者的增删改, 作者列表
	ViewAnyBorrowings Capability = "borrowings.view_any"
	ActForAnyUser     Capability = "borrowings.act_for_any"
	ViewReports       Capability = "reports.view"
)

// capabilities 每个角色额外拥有的能力; 普通用户只能操作自己的借阅
var capabilities = map[user.Role]map[Capability]bool{
	user.RoleAdmin: {
		ManageUsers:       true,
		ManageCatalog:     true,
		ViewAnyBorrowings: true,
		ActForAnyUser:     true,
		ViewReports:       true,
	},
	user.RoleUser: {},
}

// Allows 判断角色是否拥有某项能力, 未知角色一律拒绝
func Allows(role user.Role, c Capability) bool {
	return capabilities[role][c]
}

// CanActFor reports whether actor may operate on targetUserID's borrowings
// using the given elevated capability.
func CanActFor(actor *user.User, targetUserID uint, c Capability) bool {
	if actor == nil {
		return false
	}
	return actor.ID == targetUserID || Allows(actor.Role, c)
}
