package dto

// ManageMemberData 管理员对成员资格行的操作请求。
// Action 取值: approve / reject / promote / demote。
type ManageMemberData struct {
	MemberID string `json:"memberId" binding:"required"`
	Action   string `json:"action" binding:"required,oneof=approve reject promote demote"`
}

// BanMemberData 踢出成员的请求体。
type BanMemberData struct {
	MemberID string `json:"memberId" binding:"required"`
}
