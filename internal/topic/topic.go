// Package topic maps idioms to topic labels by keyword lookup.
package topic

import (
	"strings"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// Default is returned when no rule matches.
const Default = "general"

// Rule assigns Topic when any rune of Keywords occurs in the scanned text.
type Rule struct {
	Topic    string
	Keywords string
}

// DefaultRules is the built-in ordered keyword table. Order decides ties.
var DefaultRules = []Rule{
	{Topic: "animals", Keywords: "鼠牛虎兔龍龙蛇馬马羊猴雞鸡狗犬豬猪鳥鸟魚鱼蟲虫鶴鹤狼狐熊鹿燕雁蛙"},
	{Topic: "numbers", Keywords: "一二三四五六七八九十百千萬万半雙双兩两"},
	{Topic: "nature", Keywords: "天地山水風风雲云雨雪日月星花草木林石江河海火"},
	{Topic: "body", Keywords: "手足口目眼耳心頭头面身骨血肝膽胆眉鼻齒齿舌"},
	{Topic: "emotion", Keywords: "喜怒哀樂乐愁悲憂忧驚惊恐怨恨愛爱笑哭"},
}

// Classifier is a pure keyword classifier over an ordered rule list.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over the given rules; nil uses DefaultRules.
func New(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the first rule topic whose keywords hit phrase+definition.
func (c *Classifier) Classify(entry model.Entry) string {
	text := entry.Phrase + entry.Definition
	for _, rule := range c.rules {
		if strings.ContainsAny(text, rule.Keywords) {
			return rule.Topic
		}
	}
	return Default
}

// Topics lists rule topics in order followed by Default.
func (c *Classifier) Topics() []string {
	out := make([]string, 0, len(c.rules)+1)
	for _, rule := range c.rules {
		out = append(out, rule.Topic)
	}
	return append(out, Default)
}

// Known reports whether name is one of Topics.
func (c *Classifier) Known(name string) bool {
	for _, t := range c.Topics() {
		if t == name {
			return true
		}
	}
	return false
}
