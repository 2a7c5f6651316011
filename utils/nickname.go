package utils

import (
	"fmt"
	"math/rand/v2"
)

// SuffixNickname 在昵称后追加随机数字后缀，用于解决创建阶段的昵称冲突。
func SuffixNickname(nickname string) string {
	return fmt.Sprintf("%s_%04d", nickname, rand.IntN(10000))
}
