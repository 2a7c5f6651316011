package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/dependencies"
)

const testCookieName = "meetup_session"

func newAuthRouter(t *testing.T) (*gin.Engine, dependencies.SessionTokenInterface) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessionToken := dependencies.NewSessionTokenUtility(&config.JWTConfig{
		SecretKey: "test-secret-key",
		Issuer:    "meetup-hub-test",
	})
	cookieCfg := config.CookieConfig{SessionTokenName: testCookieName}

	router := gin.New()
	router.GET("/me", RequireSession(sessionToken, cookieCfg), func(c *gin.Context) {
		member, ok := CurrentMember(c)
		require.True(t, ok)
		c.String(http.StatusOK, member.MemberID)
	})
	return router, sessionToken
}

func perform(router *gin.Engine, configure func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if configure != nil {
		configure(req)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestMissingTokenReturns401(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := perform(router, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestBearerHeaderAccepted(t *testing.T) {
	router, sessionToken := newAuthRouter(t)
	token, err := sessionToken.GenerateSessionToken("member-1", "runner_kim", "小明")
	require.NoError(t, err)

	recorder := perform(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "member-1", recorder.Body.String())
}

func TestRawHeaderWithoutBearerAccepted(t *testing.T) {
	router, sessionToken := newAuthRouter(t)
	token, err := sessionToken.GenerateSessionToken("member-1", "runner_kim", "小明")
	require.NoError(t, err)

	recorder := perform(router, func(req *http.Request) {
		req.Header.Set("Authorization", token)
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCookieAccepted(t *testing.T) {
	router, sessionToken := newAuthRouter(t)
	token, err := sessionToken.GenerateSessionToken("member-2", "runner_lee", "小红")
	require.NoError(t, err)

	recorder := perform(router, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "member-2", recorder.Body.String())
}

// Authorization 头存在时优先于 Cookie，即使头里的令牌是坏的也不回退。
func TestHeaderTakesPrecedenceOverCookie(t *testing.T) {
	router, sessionToken := newAuthRouter(t)
	goodToken, err := sessionToken.GenerateSessionToken("member-2", "runner_lee", "小红")
	require.NoError(t, err)

	recorder := perform(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer tampered-token")
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: goodToken})
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

// 缺失、伪造、格式损坏的令牌得到同一个 401 响应体。
func TestUniform401Body(t *testing.T) {
	router, _ := newAuthRouter(t)

	missing := perform(router, nil)
	garbage := perform(router, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})
	forgedCookie := perform(router, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "forged"})
	})

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, missing.Body.String(), garbage.Body.String())
	assert.Equal(t, missing.Body.String(), forgedCookie.Body.String())
}
