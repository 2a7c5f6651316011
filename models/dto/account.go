package dto

type AccountRegisterData struct {
	LoginKey        string  `json:"loginKey" binding:"required,LoginKey"`  // 自选登录名，使用 "LoginKey" 校验器
	Password        string  `json:"password" binding:"required,Password"`  // 使用 "Password" 校验器
	ConfirmPassword string  `json:"confirmPassword" binding:"required"`    // 与密码的一致性在服务层检查
	Nickname        string  `json:"nickname" binding:"required,Nickname"`  // 全局唯一昵称
	Email           *string `json:"email" binding:"omitempty,email"`       // 可选邮箱
}

type AccountLoginData struct {
	LoginKey string `json:"loginKey" binding:"required"` // 登录名
	Password string `json:"password" binding:"required"` // 密码
}
