package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
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

var positions = []string{"收银员", "导购员", "仓管员", "客服专员", "店长助理"}

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

// GenerateEmailPrefixFromChineseName 把中文姓名转成拼音再附加随机数字
func GenerateEmailPrefixFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	prefix := strings.Join(pinyinArray, "")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		prefix += string(digits[rand.Intn(len(digits))])
	}

	return prefix
}

// GenerateRandomEmployee 生成一个随机的测试员工，工号格式为 EMPxxxx
func GenerateRandomEmployee(password string, emailDomainName string) (*domain.Employee, error) {
	name := GenerateRandomChineseName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	hireTime := now.AddDate(0, -rand.Intn(36), 0)
	hireDate := domain.NewDate(hireTime.Year(), hireTime.Month(), hireTime.Day())

	employee := &domain.Employee{
		EmployeeNo:       fmt.Sprintf("EMP%04d", rand.Intn(10000)),
		Name:             name,
		Email:            GenerateEmailPrefixFromChineseName(name) + "@" + emailDomainName,
		PasswordHash:     string(passwordHash),
		Phone:            fmt.Sprintf("138%08d", rand.Intn(100000000)),
		Position:         positions[rand.Intn(len(positions))],
		Role:             domain.RoleEmployee,
		Status:           domain.EmployeeStatusActive,
		HireDate:         &hireDate,
		MaxShiftsPerWeek: int32(rand.Intn(3) + 4),
		MaxShiftsPerDay:  int32(rand.Intn(2) + 1),
	}

	return employee, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
