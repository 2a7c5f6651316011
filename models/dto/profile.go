package dto

// UpdateProfileData 更新本人资料的请求体，零值字段不更新。
type UpdateProfileData struct {
	Nickname string  `json:"nickname" binding:"omitempty,Nickname"`
	Email    *string `json:"email" binding:"omitempty,email"`
}
