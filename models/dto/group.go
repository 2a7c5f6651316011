package dto

// CreateClubData 创建俱乐部的请求体。
type CreateClubData struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Region      string `json:"region"`
}

// CreateThunderData 创建闪电聚会的请求体，聚会时间必填。
type CreateThunderData struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Region      string `json:"region" binding:"required"`
	Time        string `json:"time" binding:"required"` // RFC3339 格式的聚会时间
}

// ModifyGroupData 修改群组元数据的请求体，零值字段不更新。
type ModifyGroupData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Region      string `json:"region"`
	Time        string `json:"time"` // 仅闪电聚会有效，RFC3339
}

// GroupListQuery 群组列表的筛选条件，全部可选。
type GroupListQuery struct {
	Category string `form:"category"`
	Region   string `form:"region"`
	Date     string `form:"date"` // 仅闪电聚会有效，格式 2006-01-02
}
