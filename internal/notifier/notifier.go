package notifier

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/paiban-dev/shift-scheduler/backend/internal/config"
	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/lifecycle"
	"github.com/paiban-dev/shift-scheduler/backend/internal/settings"
)

// Store 是通知器需要的最小仓库能力
type Store interface {
	GetShiftRequestDetail(ctx context.Context, id int64) (*domain.ShiftRequest, error)
	GetAdminEmails(ctx context.Context) ([]string, error)
}

// MailNotifier 把班次申请的事件投递到邮件队列。
// 所有方法都是尽力而为：任何失败只记录日志，不影响调用方
type MailNotifier struct {
	cfg         *config.Config
	store       Store
	settings    *settings.Service
	mailChannel *amqp.Channel
}

func NewMailNotifier(cfg *config.Config, store Store, svc *settings.Service, mailCh *amqp.Channel) *MailNotifier {
	return &MailNotifier{
		cfg:         cfg,
		store:       store,
		settings:    svc,
		mailChannel: mailCh,
	}
}

// emailEvents 对应 (notification, email_events) 配置项的值
type emailEvents struct {
	ShiftRequestCreated  bool `json:"shiftRequestCreated"`
	ShiftRequestApproved bool `json:"shiftRequestApproved"`
	ShiftRequestRejected bool `json:"shiftRequestRejected"`
}

// 配置缺失时默认全部开启
func (n *MailNotifier) events(ctx context.Context) emailEvents {
	enabled := emailEvents{ShiftRequestCreated: true, ShiftRequestApproved: true, ShiftRequestRejected: true}

	value, err := n.settings.GetValue(ctx, domain.SettingCategoryNotification, "email_events")
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("读取邮件通知配置失败，默认全部开启", "error", err)
		}
		return enabled
	}

	if err := json.Unmarshal(value, &enabled); err != nil {
		slog.Warn("解析邮件通知配置失败，默认全部开启", "error", err)
		return emailEvents{ShiftRequestCreated: true, ShiftRequestApproved: true, ShiftRequestRejected: true}
	}

	return enabled
}

func (n *MailNotifier) publish(ctx context.Context, message domain.MailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(n.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return n.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func formatShift(s *domain.ScheduleEntry) string {
	if s == nil {
		return ""
	}
	if s.TimeSlot == nil {
		return s.ScheduleDate.String()
	}
	return fmt.Sprintf("%s %s(%s-%s)", s.ScheduleDate.String(), s.TimeSlot.Name, s.TimeSlot.StartTime, s.TimeSlot.EndTime)
}

func requestTypeName(t domain.ShiftRequestType) string {
	switch t {
	case domain.ShiftRequestTypeSwap:
		return "换班"
	case domain.ShiftRequestTypeTransfer:
		return "调班"
	case domain.ShiftRequestTypeCancel:
		return "取消排班"
	default:
		return string(t)
	}
}

// ShiftRequestCreated 给所有在职管理员发送新申请提醒
func (n *MailNotifier) ShiftRequestCreated(ctx context.Context, req *domain.ShiftRequest) {
	if !n.events(ctx).ShiftRequestCreated {
		return
	}

	detail, err := n.store.GetShiftRequestDetail(ctx, req.ID)
	if err != nil {
		slog.Error("加载申请详情失败，跳过新申请通知", "requestID", req.ID, "error", err)
		return
	}

	emails, err := n.store.GetAdminEmails(ctx)
	if err != nil {
		slog.Error("获取管理员邮箱失败，跳过新申请通知", "requestID", req.ID, "error", err)
		return
	}

	targetShift := ""
	if detail.TargetDate != nil {
		targetShift = detail.TargetDate.String()
	}
	if detail.TargetTimeSlot != nil {
		targetShift = fmt.Sprintf("%s %s(%s-%s)", targetShift, detail.TargetTimeSlot.Name, detail.TargetTimeSlot.StartTime, detail.TargetTimeSlot.EndTime)
	}

	data := domain.ShiftRequestCreatedMailData{
		RequesterName: detail.Requester.Name,
		RequestType:   requestTypeName(detail.Type),
		OriginalShift: formatShift(detail.OriginalSchedule),
		TargetShift:   targetShift,
		Reason:        detail.Reason,
		RequestTime:   detail.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	for _, email := range emails {
		message := domain.MailMessage{
			Type: "shift_request_created",
			To:   email,
			Data: data,
		}
		if err := n.publish(ctx, message); err != nil {
			slog.Error("投递新申请通知失败", "requestID", req.ID, "to", email, "error", err)
		}
	}
}

// ShiftRequestApproved 通知申请人，换班时同时通知对方员工
func (n *MailNotifier) ShiftRequestApproved(ctx context.Context, req *domain.ShiftRequest, result *lifecycle.MutationResult) {
	if !n.events(ctx).ShiftRequestApproved {
		return
	}

	detail, err := n.store.GetShiftRequestDetail(ctx, req.ID)
	if err != nil {
		slog.Error("加载申请详情失败，跳过审批通过通知", "requestID", req.ID, "error", err)
		return
	}

	approvalDate := ""
	if detail.ApprovedAt != nil {
		approvalDate = detail.ApprovedAt.Format("2006-01-02 15:04:05")
	}

	newShift := ""
	if result != nil && result.TargetSchedule != nil {
		newShift = formatShift(result.TargetSchedule)
	} else if result != nil {
		newShift = formatShift(result.OriginalSchedule)
	}

	recipients := []struct {
		name  string
		email string
	}{
		{name: detail.Requester.Name, email: detail.Requester.Email},
	}
	if detail.Type == domain.ShiftRequestTypeSwap && detail.TargetEmployee != nil && detail.TargetEmployee.Email != "" {
		recipients = append(recipients, struct {
			name  string
			email string
		}{name: detail.TargetEmployee.Name, email: detail.TargetEmployee.Email})
	}

	for _, recipient := range recipients {
		message := domain.MailMessage{
			Type: "shift_request_approved",
			To:   recipient.email,
			Data: domain.ShiftRequestApprovedMailData{
				EmployeeName:  recipient.name,
				OriginalShift: formatShift(detail.OriginalSchedule),
				NewShift:      newShift,
				ApprovalDate:  approvalDate,
				ApprovalNotes: detail.ApprovalNotes,
			},
		}
		if err := n.publish(ctx, message); err != nil {
			slog.Error("投递审批通过通知失败", "requestID", req.ID, "to", recipient.email, "error", err)
		}
	}
}

// ShiftRequestRejected 通知申请人
func (n *MailNotifier) ShiftRequestRejected(ctx context.Context, req *domain.ShiftRequest) {
	if !n.events(ctx).ShiftRequestRejected {
		return
	}

	detail, err := n.store.GetShiftRequestDetail(ctx, req.ID)
	if err != nil {
		slog.Error("加载申请详情失败，跳过审批拒绝通知", "requestID", req.ID, "error", err)
		return
	}

	approvalDate := ""
	if detail.ApprovedAt != nil {
		approvalDate = detail.ApprovedAt.Format("2006-01-02 15:04:05")
	}

	message := domain.MailMessage{
		Type: "shift_request_rejected",
		To:   detail.Requester.Email,
		Data: domain.ShiftRequestRejectedMailData{
			EmployeeName:  detail.Requester.Name,
			OriginalShift: formatShift(detail.OriginalSchedule),
			ApprovalDate:  approvalDate,
			ApprovalNotes: detail.ApprovalNotes,
		},
	}
	if err := n.publish(ctx, message); err != nil {
		slog.Error("投递审批拒绝通知失败", "requestID", req.ID, "to", detail.Requester.Email, "error", err)
	}
}
