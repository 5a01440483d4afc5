package schedule

const (
	// LessonCount is the fixed number of lessons in every course series.
	LessonCount = 12
	// WeekDays is the spacing between consecutive lessons.
	WeekDays = 7
	// MaxStudents caps the roster of a single lesson occurrence.
	MaxStudents = 8
)

// CurriculumEntry describes one position in the fixed 12-lesson curriculum.
type CurriculumEntry struct {
	Name        string
	Description string
}

// Curriculum is the fixed lesson plan shared by every course. Lesson names
// are copied into each course at creation time and never edited afterwards.
var Curriculum = [LessonCount]CurriculumEntry{
	{Name: "故事起航 - 認識自我與舞台", Description: "自我介紹、清晰發音、肢體語言"},
	{Name: "句子結構大師 - 清晰表達", Description: "主語、動詞、賓語結構應用"},
	{Name: "圖片說故事 - Show and Tell", Description: "觀察圖片細節、描述內容"},
	{Name: "禮儀小達人 - 優雅與尊重", Description: "社交禮儀、問候、聆聽"},
	{Name: "故事結構大挑戰 - 圖卡排序", Description: "故事邏輯、開頭經過結尾"},
	{Name: "故事連貫大師 - 連接詞應用", Description: "連接詞運用、故事流暢度"},
	{Name: "形容詞魔法 - 豐富故事描述", Description: "形容詞運用、增強感染力"},
	{Name: "故事與情感 - 聲音與表情", Description: "情感表達、聲音控制"},
	{Name: "創意故事編織 - 想像力啟動", Description: "創意思維、故事創作"},
	{Name: "即興創作 - 快速應變", Description: "即興反應、語言組織"},
	{Name: "創意畫作分享 - 繪畫與內心表達", Description: "畫作描述、內心世界分享"},
	{Name: "故事演講家 - 學習成果演示", Description: "綜合應用、成果展示"},
}

// LessonName returns the curriculum name for a 1-based lesson sequence number.
func LessonName(id int) string {
	if id < 1 || id > LessonCount {
		return ""
	}
	return Curriculum[id-1].Name
}

// LessonDescription returns the curriculum description for a 1-based lesson
// sequence number.
func LessonDescription(id int) string {
	if id < 1 || id > LessonCount {
		return ""
	}
	return Curriculum[id-1].Description
}
