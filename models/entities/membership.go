package entities

import (
	"time"

	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// Membership 成员资格行，授权判定的核心对象。
// (GroupID, MemberID) 唯一——重复加入请求依赖该约束直接被数据库拒绝，
// 不做先查后插。
type Membership struct {
	// 自增主键
	ID uint `gorm:"primary_key;auto_increment"`

	// 群组 ID，外键+级联删除
	GroupID uint `gorm:"not null;uniqueIndex:idx_group_member;foreignKey:GroupID;references:id;constraint:OnDelete:CASCADE"`

	// 成员 ID，与 GroupID 组成唯一索引
	MemberID string `gorm:"type:char(36);not null;index;uniqueIndex:idx_group_member"`

	// 角色（member / admin）
	Role enums.MembershipRole `gorm:"type:varchar(32);not null;default:'member'"`

	// 状态（pending / approved / rejected）
	Status enums.MembershipStatus `gorm:"type:varchar(32);not null"`

	// 创建时间，默认当前时间戳
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`

	// 更新时间，默认当前时间戳，自动更新
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
}
