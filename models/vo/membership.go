package vo

import "github.com/Xushengqwer/meetup_hub/models/enums"

// GroupMemberItem 群组成员名册项，连接 Members 表取昵称。
// 不携带登录键等凭证信息。
type GroupMemberItem struct {
	MemberID string                 `json:"memberId"`
	Nickname string                 `json:"nickname"`
	Role     enums.MembershipRole   `json:"role"`
	Status   enums.MembershipStatus `json:"status"`
}

// MyGroupItem "我的群组"列表项。
type MyGroupItem struct {
	GroupID   uint                   `json:"groupId"`
	GroupType enums.GroupType        `json:"groupType"`
	Name      string                 `json:"name"`
	Role      enums.MembershipRole   `json:"role"`
	Status    enums.MembershipStatus `json:"status"`
}
