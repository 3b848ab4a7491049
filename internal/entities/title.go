package entities

// Titles is the ordered rank ladder. A character's title is indexed by
// min(level/20, len(Titles)-1).
var Titles = []string{
	"初入江湖",
	"江湖新秀",
	"武林少侠",
	"江湖豪杰",
	"武林高手",
	"一派掌门",
	"江湖大侠",
	"武林宗师",
	"绝世高手",
	"江湖传奇",
	"武林神话",
}

// TitleForLevel returns the title for a character level
func TitleForLevel(level int) string {
	idx := level / 20
	if idx >= len(Titles) {
		idx = len(Titles) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return Titles[idx]
}
