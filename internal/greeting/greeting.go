// Package greeting serves the conversation-opening lines for the /init
// endpoint.
package greeting

import "math/rand/v2"

var greetings = []string{
	"你好呀！今天想和我聊點什麼呢？😊",
	"嗨嗨～ 有甚麼想跟我討論的嗎？",
	"啊囉哈！🌟 最近在學什麼呢？我們一起討論啊~ ",
	"嘿～👋 今天我們要一起討論什麼？是感知器、決策樹，還是線性迴歸之類的呢？",
	"嗨～很高興見到你！😄 你想從哪個主題開始聊聊呢？",
	"Hey Yo！🎉 今天要聊點什麼？ 你的夥伴已上線～",
}

// Pick returns one greeting chosen uniformly at random.
func Pick() string {
	return greetings[rand.IntN(len(greetings))]
}

// All returns a copy of the full greeting set.
func All() []string {
	out := make([]string, len(greetings))
	copy(out, greetings)
	return out
}
