package enums

// MembershipRole 成员在群组内的角色。
type MembershipRole string

const (
	RoleMember MembershipRole = "member" // 普通成员
	RoleAdmin  MembershipRole = "admin"  // 管理员，可审批/踢人
)

// MembershipStatus 成员资格状态。
// 状态机: 不存在 → pending → {approved | rejected}；
// 闪电聚会的加入直接进入 approved，不经过 pending。
// 任一状态都可通过退出/踢出回到"不存在"，之后允许重新申请。
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"  // 待审批（仅俱乐部）
	StatusApproved MembershipStatus = "approved" // 已通过
	StatusRejected MembershipStatus = "rejected" // 已拒绝
)
