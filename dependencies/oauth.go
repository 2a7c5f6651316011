package dependencies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// OAuthProviderClient 定义单个第三方身份提供商客户端的接口。
// - 封装授权跳转地址的构造、授权码换令牌、以及用户资料拉取。
// - 各提供商资料结构差异（字段嵌套、邮箱缺失）在实现内部抹平，
//   对服务层统一输出 dto.SocialProfile。
type OAuthProviderClient interface {
	// Provider 返回该客户端对应的提供商标识。
	Provider() enums.LoginType

	// AuthCodeURL 构造带 state 的授权跳转地址。
	AuthCodeURL(state string) string

	// FetchProfile 用授权码换取访问令牌并拉取用户资料。
	// - 返回的 ProviderID 必定非空；Email 可能为 nil。
	FetchProfile(ctx context.Context, code string) (*dto.SocialProfile, error)
}

// kakao 与 naver 的 OAuth2 端点，x/oauth2 未内置
var (
	kakaoEndpoint = oauth2.Endpoint{
		AuthURL:  "https://kauth.kakao.com/oauth/authorize",
		TokenURL: "https://kauth.kakao.com/oauth/token",
	}
	naverEndpoint = oauth2.Endpoint{
		AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
		TokenURL: "https://nid.naver.com/oauth2.0/token",
	}
)

const (
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	kakaoUserinfoURL  = "https://kapi.kakao.com/v2/user/me"
	naverUserinfoURL  = "https://openapi.naver.com/v1/nid/me"
)

// oauthProviderClient 是 OAuthProviderClient 的通用实现，
// 资料解析按 provider 分派。
type oauthProviderClient struct {
	provider    enums.LoginType
	oauthConfig *oauth2.Config
	userinfoURL string
}

// NewOAuthClients 按配置构造全部提供商客户端，键为提供商标识。
// - 未配置 client_id 的提供商不会出现在结果中，路由层据此返回"不支持"。
func NewOAuthClients(cfg *config.OAuthConfig) map[enums.LoginType]OAuthProviderClient {
	clients := make(map[enums.LoginType]OAuthProviderClient)

	if cfg.Google.ClientID != "" {
		clients[enums.LoginTypeGoogle] = &oauthProviderClient{
			provider: enums.LoginTypeGoogle,
			oauthConfig: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				RedirectURL:  cfg.Google.RedirectURL,
				Scopes:       []string{"profile", "email"},
				Endpoint:     google.Endpoint,
			},
			userinfoURL: googleUserinfoURL,
		}
	}
	if cfg.Kakao.ClientID != "" {
		clients[enums.LoginTypeKakao] = &oauthProviderClient{
			provider: enums.LoginTypeKakao,
			oauthConfig: &oauth2.Config{
				ClientID:     cfg.Kakao.ClientID,
				ClientSecret: cfg.Kakao.ClientSecret,
				RedirectURL:  cfg.Kakao.RedirectURL,
				Endpoint:     kakaoEndpoint,
			},
			userinfoURL: kakaoUserinfoURL,
		}
	}
	if cfg.Naver.ClientID != "" {
		clients[enums.LoginTypeNaver] = &oauthProviderClient{
			provider: enums.LoginTypeNaver,
			oauthConfig: &oauth2.Config{
				ClientID:     cfg.Naver.ClientID,
				ClientSecret: cfg.Naver.ClientSecret,
				RedirectURL:  cfg.Naver.RedirectURL,
				Endpoint:     naverEndpoint,
			},
			userinfoURL: naverUserinfoURL,
		}
	}
	return clients
}

func (c *oauthProviderClient) Provider() enums.LoginType {
	return c.provider
}

func (c *oauthProviderClient) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state)
}

// FetchProfile 实现接口方法，换码并拉取资料。
func (c *oauthProviderClient) FetchProfile(ctx context.Context, code string) (*dto.SocialProfile, error) {
	// 1. 授权码换访问令牌
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth.FetchProfile: 授权码交换失败 (提供商: %s): %w", c.provider, err)
	}

	// 2. 携带令牌请求用户资料端点
	httpClient := c.oauthConfig.Client(ctx, token)
	resp, err := httpClient.Get(c.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("oauth.FetchProfile: 拉取用户资料失败 (提供商: %s): %w", c.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("oauth.FetchProfile: 用户资料端点返回异常状态 (提供商: %s, 状态: %d, 响应: %s)",
			c.provider, resp.StatusCode, string(body))
	}

	// 3. 按提供商解析资料
	profile, err := c.parseProfile(resp.Body)
	if err != nil {
		return nil, err
	}
	if profile.ProviderID == "" {
		return nil, fmt.Errorf("oauth.FetchProfile: 资料中缺少稳定用户 ID (提供商: %s)", c.provider)
	}
	profile.AccessToken = token.AccessToken
	return profile, nil
}

// parseProfile 抹平各提供商资料结构的差异。
// - 邮箱缺失是合法情况，解析为 nil 而不是报错。
func (c *oauthProviderClient) parseProfile(body io.Reader) (*dto.SocialProfile, error) {
	switch c.provider {
	case enums.LoginTypeGoogle:
		var raw struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.NewDecoder(body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("oauth.parseProfile: 解析 Google 资料失败: %w", err)
		}
		return &dto.SocialProfile{
			Provider:    c.provider,
			ProviderID:  raw.ID,
			DisplayName: raw.Name,
			Email:       optionalEmail(raw.Email),
		}, nil

	case enums.LoginTypeKakao:
		var raw struct {
			ID           int64 `json:"id"`
			KakaoAccount struct {
				Email string `json:"email"`
			} `json:"kakao_account"`
			Properties struct {
				Nickname string `json:"nickname"`
			} `json:"properties"`
		}
		if err := json.NewDecoder(body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("oauth.parseProfile: 解析 Kakao 资料失败: %w", err)
		}
		var id string
		if raw.ID != 0 {
			id = strconv.FormatInt(raw.ID, 10)
		}
		return &dto.SocialProfile{
			Provider:    c.provider,
			ProviderID:  id,
			DisplayName: raw.Properties.Nickname,
			Email:       optionalEmail(raw.KakaoAccount.Email),
		}, nil

	case enums.LoginTypeNaver:
		// Naver 把资料套在 response 信封里
		var raw struct {
			Response struct {
				ID       string `json:"id"`
				Email    string `json:"email"`
				Nickname string `json:"nickname"`
			} `json:"response"`
		}
		if err := json.NewDecoder(body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("oauth.parseProfile: 解析 Naver 资料失败: %w", err)
		}
		return &dto.SocialProfile{
			Provider:    c.provider,
			ProviderID:  raw.Response.ID,
			DisplayName: raw.Response.Nickname,
			Email:       optionalEmail(raw.Response.Email),
		}, nil

	default:
		return nil, fmt.Errorf("oauth.parseProfile: 未实现的提供商: %s", c.provider)
	}
}

func optionalEmail(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}
