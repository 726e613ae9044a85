package worksheet

// DefaultLanguage 是界面与周范围标签的默认显示语言
const DefaultLanguage = "zh"

// 翻译表的前 7 项是星期名（周一起始），其后 12 项是月份名。
// 周范围标签的解析按月份名在表中的位置反查（索引减去 weekdayCount 即月份序号），
// 所以任何一张表都不允许重排或者插入新项，新语言只能整表追加。
const (
	weekdayCount = 7
	monthCount   = 12
)

var translations = map[string][]string{
	"zh": {
		"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日",
		"一月", "二月", "三月", "四月", "五月", "六月",
		"七月", "八月", "九月", "十月", "十一月", "十二月",
	},
	"en": {
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

// Translation 返回某个语言的翻译表，未知语言退回默认语言
func Translation(lang string) []string {
	if table, exists := translations[lang]; exists {
		return table
	}
	return translations[DefaultLanguage]
}

// Languages 返回支持的语言列表
func Languages() []string {
	return []string{"zh", "en"}
}

// WeekdayLabel 返回第 i 天（0 = 周一）的星期名
func WeekdayLabel(lang string, i int) string {
	if i < 0 || i >= weekdayCount {
		return ""
	}
	return Translation(lang)[i]
}

// MonthLabel 返回 month（1~12）的月份名
func MonthLabel(lang string, month int) string {
	if month < 1 || month > monthCount {
		return ""
	}
	return Translation(lang)[weekdayCount+month-1]
}

// monthFromLabel 按位置反查月份名，返回 1~12，找不到返回 0
func monthFromLabel(lang string, label string) int {
	table := Translation(lang)
	for i := weekdayCount; i < weekdayCount+monthCount; i++ {
		if table[i] == label {
			return i - weekdayCount + 1
		}
	}
	return 0
}
