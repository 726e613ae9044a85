package utils

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleStaff,
	}

	return user, nil
}

// 常见的几种班次，随机排班从这里面抽
var commonShifts = []domain.DaySchedule{
	{Start: "09:00", End: "17:00"},
	{Start: "10:00", End: "18:00"},
	{Start: "13:30", End: "21:30"},
	{Start: "08:30", End: "16:30"},
	{Start: "22:00", End: "06:00"}, // 跨夜班
}

// GenerateRandomWeekSchedule 随机给一周里的若干天排班
func GenerateRandomWeekSchedule() domain.WeekSchedule {
	week := domain.NewWeekSchedule()
	for _, day := range domain.Weekdays {
		// 大约三分之二的日子有班
		if rand.Intn(3) == 0 {
			continue
		}
		week[day] = commonShifts[rand.Intn(len(commonShifts))]
	}
	return week
}

var projectPool = []string{
	"dashboard", "api", "infra", "website", "mobile", "docs", "ops",
}

// GenerateRandomProjects 随机抽取 0~3 个项目标签
func GenerateRandomProjects() []string {
	count := rand.Intn(4)
	shuffled := append([]string{}, projectPool...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

func GenerateRandomEmployee() *domain.Employee {
	return &domain.Employee{
		ID:       uuid.NewString(),
		Name:     GenerateRandomChineseName(),
		Schedule: GenerateRandomWeekSchedule(),
	}
}
