package server

import "math/rand/v2"

// 昵称词库
var (
	adjectives = []string{
		"飞驰的", "勇敢的", "稳健的", "疾速的", "酷炫的",
		"淡定的", "闪亮的", "机智的", "霸气的", "潇洒的",
		"呆萌的", "沉稳的", "狂野的", "优雅的", "神秘的",
	}

	nouns = []string{
		"赛车手", "领航员", "卡丁车", "越野车", "跑车",
		"摩托", "拖拉机", "房车", "敞篷车", "老爷车",
		"猎豹", "猎鹰", "闪电", "旋风", "火箭",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	return adjectives[rand.IntN(len(adjectives))] + nouns[rand.IntN(len(nouns))]
}
