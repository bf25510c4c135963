package lifecycle

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore 是测试用的内存实现，事务通过快照/恢复来模拟提交与回滚
type memStore struct {
	schedules map[int64]*domain.ScheduleEntry
	requests  map[int64]*domain.ShiftRequest
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{
		schedules: make(map[int64]*domain.ScheduleEntry),
		requests:  make(map[int64]*domain.ShiftRequest),
		nextID:    1,
	}
}

func (s *memStore) addSchedule(entry domain.ScheduleEntry) *domain.ScheduleEntry {
	entry.ID = s.nextID
	s.nextID++
	if entry.Status == "" {
		entry.Status = domain.ScheduleStatusScheduled
	}
	s.schedules[entry.ID] = &entry
	copied := entry
	return &copied
}

func copySchedules(src map[int64]*domain.ScheduleEntry) map[int64]*domain.ScheduleEntry {
	dst := make(map[int64]*domain.ScheduleEntry, len(src))
	for id, entry := range src {
		copied := *entry
		dst[id] = &copied
	}
	return dst
}

func copyRequests(src map[int64]*domain.ShiftRequest) map[int64]*domain.ShiftRequest {
	dst := make(map[int64]*domain.ShiftRequest, len(src))
	for id, req := range src {
		copied := *req
		dst[id] = &copied
	}
	return dst
}

func (s *memStore) CreateShiftRequest(_ context.Context, req *domain.ShiftRequest) error {
	req.ID = s.nextID
	s.nextID++
	req.CreatedAt = time.Now()
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *memStore) GetShiftRequest(_ context.Context, id int64) (*domain.ShiftRequest, error) {
	req, ok := s.requests[id]
	if !ok || req.DeletedAt != nil {
		return nil, sql.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (s *memStore) UpdateShiftRequest(_ context.Context, req *domain.ShiftRequest) error {
	if _, ok := s.requests[req.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *memStore) SoftDeleteShiftRequest(_ context.Context, id int64) error {
	req, ok := s.requests[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	req.DeletedAt = &now
	return nil
}

func (s *memStore) GetScheduleEntry(_ context.Context, id int64) (*domain.ScheduleEntry, error) {
	entry, ok := s.schedules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

// checkActiveUnique 模拟 schedules_active_unique_idx 在事务提交时的延迟检查：
// 事务内部允许短暂重复，提交时不允许同一员工在同一时间段有两条有效排班
func (s *memStore) checkActiveUnique() error {
	seen := make(map[string]bool)
	for _, entry := range s.schedules {
		if !entry.IsActive() {
			continue
		}
		key := fmt.Sprintf("%d/%s/%d", entry.EmployeeID, entry.ScheduleDate, entry.TimeSlotID)
		if seen[key] {
			return fmt.Errorf("违反唯一约束 schedules_active_unique_idx: %s", key)
		}
		seen[key] = true
	}
	return nil
}

func (s *memStore) WithinTransaction(_ context.Context, fn func(tx TxStore) error) error {
	scheduleSnapshot := copySchedules(s.schedules)
	requestSnapshot := copyRequests(s.requests)
	err := fn(s)
	if err == nil {
		err = s.checkActiveUnique()
	}
	if err != nil {
		s.schedules = scheduleSnapshot
		s.requests = requestSnapshot
		return err
	}
	return nil
}

func (s *memStore) GetShiftRequestForUpdate(ctx context.Context, id int64) (*domain.ShiftRequest, error) {
	return s.GetShiftRequest(ctx, id)
}

func (s *memStore) FinalizeShiftRequest(ctx context.Context, req *domain.ShiftRequest) error {
	return s.UpdateShiftRequest(ctx, req)
}

func (s *memStore) FindActiveSchedule(_ context.Context, employeeID int64, date domain.Date, timeSlotID int64) (*domain.ScheduleEntry, error) {
	for _, entry := range s.schedules {
		if entry.EmployeeID == employeeID && entry.TimeSlotID == timeSlotID && entry.ScheduleDate.Equal(date) && entry.IsActive() {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindActiveScheduleExcluding(ctx context.Context, employeeID int64, date domain.Date, timeSlotID int64, excludeID int64) (*domain.ScheduleEntry, error) {
	for _, entry := range s.schedules {
		if entry.ID == excludeID {
			continue
		}
		if entry.EmployeeID == employeeID && entry.TimeSlotID == timeSlotID && entry.ScheduleDate.Equal(date) && entry.IsActive() {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) UpdateScheduleEmployee(_ context.Context, scheduleID int64, employeeID int64) error {
	entry, ok := s.schedules[scheduleID]
	if !ok {
		return sql.ErrNoRows
	}
	entry.EmployeeID = employeeID
	return nil
}

func (s *memStore) MoveSchedule(_ context.Context, scheduleID int64, date domain.Date, timeSlotID int64) error {
	entry, ok := s.schedules[scheduleID]
	if !ok {
		return sql.ErrNoRows
	}
	entry.ScheduleDate = date
	entry.TimeSlotID = timeSlotID
	return nil
}

func (s *memStore) UpdateScheduleStatus(_ context.Context, scheduleID int64, status domain.ScheduleStatus) error {
	entry, ok := s.schedules[scheduleID]
	if !ok {
		return sql.ErrNoRows
	}
	entry.Status = status
	return nil
}

// allWorkDays 把每一天都视为工作日
type allWorkDays struct{}

func (allWorkDays) IsWorkDay(domain.Date) bool { return true }

type weekdaysOnly struct{}

func (weekdaysOnly) IsWorkDay(d domain.Date) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// recordingNotifier 记录各类通知被触发的次数
type recordingNotifier struct {
	created  int
	approved int
	rejected int
}

func (n *recordingNotifier) ShiftRequestCreated(context.Context, *domain.ShiftRequest) { n.created++ }
func (n *recordingNotifier) ShiftRequestApproved(context.Context, *domain.ShiftRequest, *MutationResult) {
	n.approved++
}
func (n *recordingNotifier) ShiftRequestRejected(context.Context, *domain.ShiftRequest) { n.rejected++ }

func newTestManager(store *memStore) (*Manager, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewManager(store, allWorkDays{}, notifier), notifier
}

func int64ptr(v int64) *int64 { return &v }

func dateptr(d domain.Date) *domain.Date { return &d }

func TestCreateLeavesRequestPending(t *testing.T) {
	store := newMemStore()
	schedule := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, notifier := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: schedule.ID,
		Reason:             "家里有事",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ShiftRequestStatusPending, req.Status)
	assert.Nil(t, req.ApprovedBy)
	assert.Nil(t, req.ApprovedAt)
	assert.Equal(t, 1, notifier.created)
}

func TestCreateRejectsForeignSchedule(t *testing.T) {
	store := newMemStore()
	schedule := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   2,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, _ := newTestManager(store)

	_, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: schedule.ID,
	})
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestCreateRejectsMissingSchedule(t *testing.T) {
	store := newMemStore()
	mgr, _ := newTestManager(store)

	_, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: 999,
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCreateRejectsNonWorkDayTarget(t *testing.T) {
	store := newMemStore()
	schedule := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	notifier := &recordingNotifier{}
	mgr := NewManager(store, weekdaysOnly{}, notifier)

	// 2025-03-15 是周六
	_, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeTransfer,
		OriginalScheduleID: schedule.ID,
		TargetDate:         dateptr(domain.NewDate(2025, time.March, 15)),
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Zero(t, notifier.created)
}

func TestApproveSwapExchangesEmployees(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
		Notes:        "早班",
	})
	s2 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   2,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
		Notes:        "早班",
	})
	mgr, notifier := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeSwap,
		OriginalScheduleID: s1.ID,
		TargetEmployeeID:   int64ptr(2),
	})
	require.NoError(t, err)

	approved, result, err := mgr.Approve(context.Background(), req.ID, 99, "同意")
	require.NoError(t, err)

	assert.Equal(t, domain.ShiftRequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, int64(99), *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, "同意", approved.ApprovalNotes)

	// 两条排班只交换了员工，其余字段保持不变
	got1, err := store.GetScheduleEntry(context.Background(), s1.ID)
	require.NoError(t, err)
	got2, err := store.GetScheduleEntry(context.Background(), s2.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), got1.EmployeeID)
	assert.Equal(t, int64(1), got2.EmployeeID)

	want1 := *s1
	want1.EmployeeID = 2
	want2 := *s2
	want2.EmployeeID = 1
	assert.Equal(t, want1, *got1)
	assert.Equal(t, want2, *got2)

	require.NotNil(t, result.TargetSchedule)
	assert.Equal(t, s2.ID, result.TargetSchedule.ID)
	assert.Equal(t, 1, notifier.approved)
}

func TestApproveSwapAcrossDates(t *testing.T) {
	// 跨日期互换：E1 的 03-10 早班与 E2 的 03-11 晚班互换
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	s2 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   2,
		TimeSlotID:   20,
		ScheduleDate: domain.NewDate(2025, time.March, 11),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeSwap,
		OriginalScheduleID: s1.ID,
		TargetEmployeeID:   int64ptr(2),
		TargetDate:         dateptr(domain.NewDate(2025, time.March, 11)),
		TargetTimeSlotID:   int64ptr(20),
	})
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.NoError(t, err)

	got1, _ := store.GetScheduleEntry(context.Background(), s1.ID)
	got2, _ := store.GetScheduleEntry(context.Background(), s2.ID)
	assert.Equal(t, int64(2), got1.EmployeeID)
	assert.Equal(t, int64(1), got2.EmployeeID)
	// 日期和时间段保留在原来的记录上
	assert.True(t, got1.ScheduleDate.Equal(domain.NewDate(2025, time.March, 10)))
	assert.True(t, got2.ScheduleDate.Equal(domain.NewDate(2025, time.March, 11)))
}

func TestApproveSwapFailsWithoutTargetSchedule(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, notifier := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeSwap,
		OriginalScheduleID: s1.ID,
		TargetEmployeeID:   int64ptr(2),
	})
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.EqualError(t, err, "目标员工在指定时间段没有排班")

	// 事务回滚：排班未变，申请仍为 pending
	got, err := store.GetScheduleEntry(context.Background(), s1.ID)
	require.NoError(t, err)
	assert.Equal(t, *s1, *got)

	reloaded, err := store.GetShiftRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftRequestStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.ApprovedBy)
	assert.Zero(t, notifier.approved)
}

func TestApproveSwapDuplicateAtCommitRollsBack(t *testing.T) {
	// 目标员工在原排班的时间段已另有排班，交换后会产生重复的有效排班，
	// 提交时约束失败，整个审批回滚
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   2,
		TimeSlotID:   20,
		ScheduleDate: domain.NewDate(2025, time.March, 11),
	})
	store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   2,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, notifier := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeSwap,
		OriginalScheduleID: s1.ID,
		TargetEmployeeID:   int64ptr(2),
		TargetDate:         dateptr(domain.NewDate(2025, time.March, 11)),
		TargetTimeSlotID:   int64ptr(20),
	})
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.Error(t, err)

	got, err := store.GetScheduleEntry(context.Background(), s1.ID)
	require.NoError(t, err)
	assert.Equal(t, *s1, *got)

	reloaded, err := store.GetShiftRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftRequestStatusPending, reloaded.Status)
	assert.Zero(t, notifier.approved)
}

func TestApproveSelfSwapAllowed(t *testing.T) {
	// 目标员工就是申请人本人，跨日期自换班按普通换班执行
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	s2 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   20,
		ScheduleDate: domain.NewDate(2025, time.March, 11),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeSwap,
		OriginalScheduleID: s1.ID,
		TargetEmployeeID:   int64ptr(1),
		TargetDate:         dateptr(domain.NewDate(2025, time.March, 11)),
		TargetTimeSlotID:   int64ptr(20),
	})
	require.NoError(t, err)

	_, result, err := mgr.Approve(context.Background(), req.ID, 99, "")
	require.NoError(t, err)
	require.NotNil(t, result.TargetSchedule)
	assert.Equal(t, s2.ID, result.TargetSchedule.ID)
}

func TestApproveTransferDateOnly(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeTransfer,
		OriginalScheduleID: s1.ID,
		TargetDate:         dateptr(domain.NewDate(2025, time.March, 12)),
	})
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.NoError(t, err)

	got, _ := store.GetScheduleEntry(context.Background(), s1.ID)
	assert.True(t, got.ScheduleDate.Equal(domain.NewDate(2025, time.March, 12)))
	assert.Equal(t, int64(10), got.TimeSlotID)
}

func TestApproveTransferWithoutTargetsIsNoop(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeTransfer,
		OriginalScheduleID: s1.ID,
	})
	require.NoError(t, err)

	approved, result, err := mgr.Approve(context.Background(), req.ID, 99, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftRequestStatusApproved, approved.Status)
	assert.Nil(t, result.TargetSchedule)

	got, _ := store.GetScheduleEntry(context.Background(), s1.ID)
	assert.Equal(t, *s1, *got)
}

func TestApproveTransferConflict(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 12),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeTransfer,
		OriginalScheduleID: s1.ID,
		TargetDate:         dateptr(domain.NewDate(2025, time.March, 12)),
	})
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	got, _ := store.GetScheduleEntry(context.Background(), s1.ID)
	assert.Equal(t, *s1, *got)
}

func TestApproveCancelSetsCancelledOnly(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
		Notes:        "临时排班",
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: s1.ID,
	})
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.NoError(t, err)

	got, _ := store.GetScheduleEntry(context.Background(), s1.ID)
	want := *s1
	want.Status = domain.ScheduleStatusCancelled
	assert.Equal(t, want, *got)
}

func TestApproveTwiceConflictsSecondTime(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	s2 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   2,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, notifier := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeSwap,
		OriginalScheduleID: s1.ID,
		TargetEmployeeID:   int64ptr(2),
	})
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.NoError(t, err)

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// 变更只应用了一次：再次交换会换回去，这里仍然是交换后的状态
	got1, _ := store.GetScheduleEntry(context.Background(), s1.ID)
	got2, _ := store.GetScheduleEntry(context.Background(), s2.ID)
	assert.Equal(t, int64(2), got1.EmployeeID)
	assert.Equal(t, int64(1), got2.EmployeeID)
	assert.Equal(t, 1, notifier.approved)
}

func TestRejectLeavesScheduleUntouched(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, notifier := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: s1.ID,
	})
	require.NoError(t, err)

	rejected, err := mgr.Reject(context.Background(), req.ID, 99, "人手不足")
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftRequestStatusRejected, rejected.Status)
	assert.Equal(t, "人手不足", rejected.ApprovalNotes)

	got, _ := store.GetScheduleEntry(context.Background(), s1.ID)
	assert.Equal(t, *s1, *got)
	assert.Equal(t, 1, notifier.rejected)

	_, err = mgr.Reject(context.Background(), req.ID, 99, "")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestCancelRequiresOwnershipAndPending(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: s1.ID,
	})
	require.NoError(t, err)

	_, err = mgr.Cancel(context.Background(), req.ID, 2)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	cancelled, err := mgr.Cancel(context.Background(), req.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftRequestStatusCancelled, cancelled.Status)

	_, err = mgr.Cancel(context.Background(), req.ID, 1)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestUpdateOnlyPending(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: s1.ID,
		Reason:             "原因A",
	})
	require.NoError(t, err)

	newReason := "原因B"
	updated, err := mgr.Update(context.Background(), req.ID, UpdateInput{Reason: &newReason})
	require.NoError(t, err)
	assert.Equal(t, "原因B", updated.Reason)

	_, err = mgr.Reject(context.Background(), req.ID, 99, "")
	require.NoError(t, err)

	_, err = mgr.Update(context.Background(), req.ID, UpdateInput{Reason: &newReason})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestSoftDeleteHidesRequest(t *testing.T) {
	store := newMemStore()
	s1 := store.addSchedule(domain.ScheduleEntry{
		EmployeeID:   1,
		TimeSlotID:   10,
		ScheduleDate: domain.NewDate(2025, time.March, 10),
	})
	mgr, _ := newTestManager(store)

	req, err := mgr.Create(context.Background(), CreateInput{
		RequesterID:        1,
		Type:               domain.ShiftRequestTypeCancel,
		OriginalScheduleID: s1.ID,
	})
	require.NoError(t, err)

	deleted, err := mgr.SoftDelete(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, deleted.ID)

	_, err = mgr.SoftDelete(context.Background(), req.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, _, err = mgr.Approve(context.Background(), req.ID, 99, "")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestApproveUnknownRequest(t *testing.T) {
	store := newMemStore()
	mgr, _ := newTestManager(store)

	_, _, err := mgr.Approve(context.Background(), 12345, 99, "")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
