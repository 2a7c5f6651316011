package entities

import (
	"time"

	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// Group 群组元数据，俱乐部与闪电聚会共用同一张表。
// CreatedBy 指向创建者，创建者无需成员行即拥有管理员权限（所有者直通）。
type Group struct {
	// 自增主键
	ID uint `gorm:"primary_key;auto_increment"`

	// 群组类型（club / thunder），与名称组成唯一索引
	GroupType enums.GroupType `gorm:"type:varchar(32);not null;uniqueIndex:idx_type_name"`

	// 群组名称，同类型内唯一
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:idx_type_name"`

	// 简介
	Description string `gorm:"type:varchar(1024)"`

	// 分类，如 运动 / 读书
	Category string `gorm:"type:varchar(64);index"`

	// 地区
	Region string `gorm:"type:varchar(64);index"`

	// 聚会时间，仅闪电聚会使用
	MeetingAt *time.Time `gorm:"type:timestamp;index"`

	// 创建者（所有者）的 MemberID
	CreatedBy string `gorm:"type:char(36);not null;index"`

	// 创建时间，默认当前时间戳
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`

	// 更新时间，默认当前时间戳，自动更新
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
}
