package entities

import (
	"time"

	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// Member 会员身份记录，本地注册或第三方首次登录时创建。
// 不做软删除：注销必须物理删除，否则残留行仍占用
// (login_key, login_type) 与 nickname 的唯一索引，同一第三方身份将无法再次登录。
type Member struct {
	// 会员ID，使用 UUID 作为主键
	MemberID string `gorm:"type:char(36);primary_key"`

	// 登录键。本地账号为用户自选登录名，第三方账号为 "{provider}-{providerID}"。
	// 与 LoginType 组成唯一索引，身份调和的原子插入依赖该约束。
	LoginKey string `gorm:"type:varchar(255);not null;uniqueIndex:idx_login_key_type"`

	// 登录方式（local / google / kakao / naver）
	LoginType enums.LoginType `gorm:"type:varchar(32);not null;uniqueIndex:idx_login_key_type"`

	// 昵称，全局唯一；冲突时创建阶段追加随机数字后缀
	Nickname string `gorm:"type:varchar(255);not null;uniqueIndex"`

	// 密码哈希（bcrypt），第三方账号为空
	PasswordHash string `gorm:"type:varchar(255)"`

	// 邮箱，第三方资料中缺失时为空
	Email *string `gorm:"type:varchar(255)"`

	// 创建时间，默认当前时间戳
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`

	// 更新时间，默认当前时间戳，自动更新
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
}
