package vo

// GroupSummary 群组列表项。
type GroupSummary struct {
	GroupID   uint   `json:"groupId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Region    string `json:"region"`
	MeetingAt string `json:"meetingAt,omitempty"` // 仅闪电聚会
}

// GroupDetail 群组详情。
type GroupDetail struct {
	GroupID     uint   `json:"groupId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Region      string `json:"region"`
	MeetingAt   string `json:"meetingAt,omitempty"` // 仅闪电聚会
	CreatedBy   string `json:"createdBy"`
}

// CreatedGroup 创建成功后返回的群组 ID。
type CreatedGroup struct {
	GroupID uint `json:"groupId"`
}
