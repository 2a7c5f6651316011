package entities

import (
	"time"

	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// SocialIdentity 会员与单个第三方提供商之间的关联。
// 每次第三方登录都会刷新 ProviderToken。
type SocialIdentity struct {
	// 自增主键
	ID uint `gorm:"primary_key;auto_increment"`

	// 关联 Member 表的 MemberID，外键+级联删除
	MemberID string `gorm:"type:char(36);not null;index;uniqueIndex:idx_member_provider;foreignKey:MemberID;references:member_id;constraint:OnDelete:CASCADE"`

	// 提供商名称，与 MemberID 组成唯一索引（每人每提供商至多一行）
	Provider enums.LoginType `gorm:"type:varchar(32);not null;uniqueIndex:idx_member_provider"`

	// 提供商颁发的不透明令牌，每次登录刷新
	ProviderToken string `gorm:"type:varchar(512)"`

	// 创建时间，默认当前时间戳
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`

	// 更新时间，默认当前时间戳，自动更新
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
}
