package docs

// 这个文件定义了专门用于 Swagger 文档注解的类型。
// 由于 swaggo/swag 工具目前不支持直接解析泛型类型（如 response.APIResponse[T]），
// 我们需要为每个在控制器注解中使用的具体泛型实例化类型定义一个非泛型的包装器。

import (
	"github.com/Xushengqwer/go-common/response"

	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
)

// --- 成功响应包装类型 ---

// SwaggerAPIMemberInfoResponse 包装了 response.APIResponse[vo.MemberInfo]
// 用于 AccountController.RegisterHandler
type SwaggerAPIMemberInfoResponse struct {
	response.APIResponse[vo.MemberInfo]
}

// SwaggerAPILoginResponse 包装了 response.APIResponse[vo.LoginResponse]
// 用于 AccountController.LoginHandler, SocialController.CallbackHandler
type SwaggerAPILoginResponse struct {
	response.APIResponse[vo.LoginResponse]
}

// SwaggerAPIEmptyResponse 包装了 response.APIResponse[vo.Empty] (表示成功但无数据返回)
type SwaggerAPIEmptyResponse struct {
	response.APIResponse[vo.Empty]
}

// SwaggerAPICreatedGroupResponse 包装了 response.APIResponse[vo.CreatedGroup]
// 用于 GroupController.CreateHandler
type SwaggerAPICreatedGroupResponse struct {
	response.APIResponse[vo.CreatedGroup]
}

// SwaggerAPIGroupListResponse 包装了 response.APIResponse[[]vo.GroupSummary]
// 用于 GroupController.ListHandler
type SwaggerAPIGroupListResponse struct {
	response.APIResponse[[]vo.GroupSummary]
}

// SwaggerAPIGroupDetailResponse 包装了 response.APIResponse[vo.GroupDetail]
// 用于 GroupController.DetailHandler
type SwaggerAPIGroupDetailResponse struct {
	response.APIResponse[vo.GroupDetail]
}

// joinResult 加入群组后返回的成员状态。
type joinResult struct {
	Status enums.MembershipStatus `json:"status"`
}

// SwaggerAPIJoinResponse 包装了加入群组的响应
// 用于 MembershipController.JoinHandler
type SwaggerAPIJoinResponse struct {
	response.APIResponse[joinResult]
}

// SwaggerAPIMemberListResponse 包装了 response.APIResponse[[]vo.GroupMemberItem]
// 用于 MembershipController.MembersHandler
type SwaggerAPIMemberListResponse struct {
	response.APIResponse[[]vo.GroupMemberItem]
}

// SwaggerAPIMyGroupListResponse 包装了 response.APIResponse[[]vo.MyGroupItem]
// 用于 MembershipController.MyGroupsHandler
type SwaggerAPIMyGroupListResponse struct {
	response.APIResponse[[]vo.MyGroupItem]
}

// SwaggerAPIProfileResponse 包装了 response.APIResponse[vo.ProfileVO]
// 用于 MemberController.ProfileHandler
type SwaggerAPIProfileResponse struct {
	response.APIResponse[vo.ProfileVO]
}

// --- 失败响应包装类型 ---

// SwaggerAPIErrorResponseString 包装了 response.APIResponse[string]
type SwaggerAPIErrorResponseString struct {
	response.APIResponse[string]
}
