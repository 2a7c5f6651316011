package enums

import "fmt"

// GroupType 群组类型枚举。
// - 两种群组在授权语义上完全等价，仅生命周期不同：
//   俱乐部是长期存在的，闪电聚会围绕一次活动时间存在。
type GroupType string

const (
	GroupTypeClub    GroupType = "club"    // 俱乐部（长期）
	GroupTypeThunder GroupType = "thunder" // 闪电聚会（一次性）
)

// GroupTypeFromString 将路径参数转换为 GroupType。
func GroupTypeFromString(s string) (GroupType, error) {
	switch GroupType(s) {
	case GroupTypeClub, GroupTypeThunder:
		return GroupType(s), nil
	default:
		return "", fmt.Errorf("无效的群组类型: %q", s)
	}
}
