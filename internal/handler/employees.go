package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/repository"
	"github.com/paiban-dev/shift-scheduler/backend/internal/utils"
)

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := repository.EmployeeFilter{
		Keyword: r.URL.Query().Get("keyword"),
		Role:    domain.Role(r.URL.Query().Get("role")),
		Status:  domain.EmployeeStatus(r.URL.Query().Get("status")),
		Page:    parsePage(r),
		Size:    parseSize(r),
	}

	employees, total, err := h.repository.ListEmployees(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", PaginatedData{
		Items: employees,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	})
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseSize(r *http.Request) int {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 || size > 100 {
		return 20
	}
	return size
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeNo       string       `json:"employeeNo" validate:"required"`
		Name             string       `json:"name" validate:"required"`
		Email            string       `json:"email" validate:"required,email"`
		Phone            string       `json:"phone"`
		Position         string       `json:"position"`
		Role             string       `json:"role" validate:"required,oneof=admin employee"`
		HireDate         *domain.Date `json:"hireDate"`
		MaxShiftsPerWeek int32        `json:"maxShiftsPerWeek"`
		MaxShiftsPerDay  int32        `json:"maxShiftsPerDay"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 生成随机初始密码
	password := utils.GenerateRandomPassword(h.config.NewEmployee.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	employee := &domain.Employee{
		EmployeeNo:       req.EmployeeNo,
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     string(hashedPassword),
		Phone:            req.Phone,
		Position:         req.Position,
		Role:             domain.Role(req.Role),
		Status:           domain.EmployeeStatusActive,
		HireDate:         req.HireDate,
		MaxShiftsPerWeek: req.MaxShiftsPerWeek,
		MaxShiftsPerDay:  req.MaxShiftsPerDay,
	}

	if err := h.repository.CreateEmployee(r.Context(), employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_employee_no_key":
				h.badRequest(w, r, errors.New("工号已存在"))
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 通过邮件把初始密码发给新员工
	mailMessage := domain.MailMessage{
		Type: "create_employee",
		To:   employee.Email,
		Data: domain.CreateEmployeeMailData{
			Name:       employee.Name,
			EmployeeNo: employee.EmployeeNo,
			Email:      employee.Email,
			Password:   password,
		},
	}

	emailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        emailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工创建成功", employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)
	h.successResponse(w, r, "获取员工信息成功", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             *string      `json:"name"`
		Email            *string      `json:"email" validate:"omitempty,email"`
		Phone            *string      `json:"phone"`
		Position         *string      `json:"position"`
		Role             *string      `json:"role" validate:"omitempty,oneof=admin employee"`
		Status           *string      `json:"status" validate:"omitempty,oneof=active inactive leave"`
		HireDate         *domain.Date `json:"hireDate"`
		MaxShiftsPerWeek *int32       `json:"maxShiftsPerWeek"`
		MaxShiftsPerDay  *int32       `json:"maxShiftsPerDay"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Role != nil {
		employee.Role = domain.Role(*req.Role)
	}
	if req.Status != nil {
		employee.Status = domain.EmployeeStatus(*req.Status)
	}
	if req.HireDate != nil {
		employee.HireDate = req.HireDate
	}
	if req.MaxShiftsPerWeek != nil {
		employee.MaxShiftsPerWeek = *req.MaxShiftsPerWeek
	}
	if req.MaxShiftsPerDay != nil {
		employee.MaxShiftsPerDay = *req.MaxShiftsPerDay
	}

	if err := h.repository.UpdateEmployee(r.Context(), employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(r.Context(), employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}
