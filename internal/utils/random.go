package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
	"github.com/fieldops-dev/field-dispatch/backend/internal/schedule"
	"github.com/mozillazg/go-pinyin"
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

var roles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleDispatcher,
	domain.RoleViewer,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
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
		Role:         GenerateRandomRole(),
	}

	return user, nil
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

func GenerateRandomPhone() string {
	phone := "1" + string(digits[rand.Intn(5)+3])
	for i := 0; i < 9; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

func GenerateRandomWorker(emailDomainName string) *domain.Worker {
	name := GenerateRandomChineseName()
	return &domain.Worker{
		Name:     name,
		Phone:    GenerateRandomPhone(),
		Email:    GenerateUsernameFromChineseName(name) + "@" + emailDomainName,
		IsActive: true,
	}
}

var contractorCompanies = []string{
	"恒信机电维修", "广达安装工程", "迅捷制冷服务", "众合设备维保", "安泰电气工程",
}

func GenerateRandomContractor(emailDomainName string) *domain.Contractor {
	name := GenerateRandomChineseName()
	return &domain.Contractor{
		Name:    name,
		Company: contractorCompanies[rand.Intn(len(contractorCompanies))],
		Phone:   GenerateRandomPhone(),
		Email:   GenerateUsernameFromChineseName(name) + "@" + emailDomainName,
	}
}

var jobTitles = []string{
	"空调维修", "管道疏通", "电路检修", "设备巡检", "中央空调保养",
	"消防设施检测", "电梯年检", "门禁安装", "监控调试", "外墙清洗",
}

var jobStatuses = []domain.JobStatus{
	domain.JobStatusDraft,
	domain.JobStatusScheduled,
	domain.JobStatusInProgress,
	domain.JobStatusCompleted,
	domain.JobStatusCancelled,
}

var jobPriorities = []domain.JobPriority{
	domain.JobPriorityLow,
	domain.JobPriorityNormal,
	domain.JobPriorityHigh,
	domain.JobPriorityUrgent,
}

// GenerateRandomJob 随机生成一个工单
// 大约三分之一的工单没有排期，用于覆盖未排期工单的展示
func GenerateRandomJob() *domain.Job {
	job := &domain.Job{
		Title:    jobTitles[rand.Intn(len(jobTitles))],
		Status:   jobStatuses[rand.Intn(len(jobStatuses))],
		Priority: jobPriorities[rand.Intn(len(jobPriorities))],
	}

	if rand.Intn(3) > 0 {
		start := time.Now().AddDate(0, 0, rand.Intn(30)-7)
		end := start.AddDate(0, 0, rand.Intn(5))
		job.StartTime = &start
		job.EndTime = &end
	}

	return job
}

// GenerateRandomUnavailability 为某个人员随机生成最近一个月内的不可用日期
func GenerateRandomUnavailability(assigneeID int64, n int) []*domain.Unavailability {
	records := make([]*domain.Unavailability, 0, n)
	for i := 0; i < n; i++ {
		date := time.Now().AddDate(0, 0, rand.Intn(30))
		records = append(records, &domain.Unavailability{
			AssigneeID: assigneeID,
			Date:       schedule.TruncateToDate(date).Format(schedule.DateLayout),
		})
	}
	return records
}
