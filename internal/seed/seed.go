package seed

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/repository"
)

var defaultTimeSlots = []domain.TimeSlot{
	{Name: "早班", StartTime: "08:00:00", EndTime: "12:00:00", RequiredPeople: 3, IsActive: true},
	{Name: "中班", StartTime: "12:00:00", EndTime: "18:00:00", RequiredPeople: 4, IsActive: true},
	{Name: "晚班", StartTime: "18:00:00", EndTime: "22:00:00", RequiredPeople: 2, IsActive: true},
}

var defaultSettings = []domain.SystemSetting{
	{
		Category:    domain.SettingCategoryGeneral,
		Key:         "system_config",
		Value:       json.RawMessage(`{"workDays":[1,2,3,4,5]}`),
		Description: "工作日配置，0-6 表示周日到周六",
	},
	{
		Category:    domain.SettingCategoryNotification,
		Key:         "email_events",
		Value:       json.RawMessage(`{"shiftRequestCreated":true,"shiftRequestApproved":true,"shiftRequestRejected":true}`),
		Description: "班次申请的邮件通知开关",
	},
}

// SeedBaseData 写入默认时间段和系统配置，可重复执行
func SeedBaseData(ctx context.Context, r *repository.Repository) {
	for i := range defaultTimeSlots {
		slot := defaultTimeSlots[i]
		if err := r.CreateTimeSlot(ctx, &slot); err != nil {
			// 名称唯一约束冲突说明已初始化过，跳过即可
			slog.Warn("插入默认时间段失败", "name", slot.Name, "error", err)
			continue
		}
		slog.Info("插入默认时间段成功", "name", slot.Name)
	}

	for i := range defaultSettings {
		setting := defaultSettings[i]
		if err := r.UpsertSetting(ctx, &setting); err != nil {
			slog.Error("写入默认配置失败", "category", setting.Category, "key", setting.Key, "error", err)
			continue
		}
		slog.Info("写入默认配置成功", "category", setting.Category, "key", setting.Key)
	}
}

// SeedSchedules 为所有在职员工生成未来 days 天的随机排班
func SeedSchedules(ctx context.Context, r *repository.Repository, days int) {
	employees, _, err := r.ListEmployees(ctx, repository.EmployeeFilter{
		Status: domain.EmployeeStatusActive,
		Page:   1,
		Size:   100,
	})
	if err != nil {
		slog.Error("无法获取在职员工", "error", err)
		return
	}
	if len(employees) == 0 {
		slog.Error("数据库中没有在职员工，请先插入员工")
		return
	}

	slots, err := r.GetAllTimeSlots(ctx, true)
	if err != nil {
		slog.Error("无法获取时间段", "error", err)
		return
	}
	if len(slots) == 0 {
		slog.Error("数据库中没有启用的时间段，请先初始化基础数据")
		return
	}

	cnt := 0
	now := time.Now()
	for day := 0; day < days; day++ {
		date := now.AddDate(0, 0, day)
		// 周日不排班
		if date.Weekday() == time.Sunday {
			continue
		}
		scheduleDate := domain.NewDate(date.Year(), date.Month(), date.Day())

		for _, slot := range slots {
			// 每个时间段随机挑选所需人数的员工
			shuffled := append([]*domain.Employee{}, employees...)
			rand.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			needed := int(slot.RequiredPeople)
			if needed > len(shuffled) {
				needed = len(shuffled)
			}

			for _, employee := range shuffled[:needed] {
				entry := &domain.ScheduleEntry{
					EmployeeID:     employee.ID,
					TimeSlotID:     slot.ID,
					ScheduleDate:   scheduleDate,
					Status:         domain.ScheduleStatusScheduled,
					AssignedMethod: domain.AssignMethodManual,
				}
				if err := r.CreateScheduleEntry(ctx, entry); err != nil {
					slog.Warn("插入排班失败", "employee", employee.Name, "date", scheduleDate.String(), "error", err)
					continue
				}
				cnt++
			}
		}
	}

	slog.Info("插入排班完成", "count", cnt)
}
