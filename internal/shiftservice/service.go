package shiftservice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/sheetstore"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/timeparse"
)

// 营业窗口：9:00 到 18:00，所有班次必须完全落在窗口内
const (
	windowOpen  = 9 * 60
	windowClose = 18 * 60
)

// Service 负责把一条排班请求原子地落到共享班表上
// 校验规则按固定顺序执行，第一条失败即返回，保证不产生部分副作用
type Service struct {
	store       sheetstore.Store
	dayCapacity int

	// 读-校验-写不是一个事务，后端表格也没有锁原语，
	// 这里用按天的互斥锁把并发请求串行化，
	// 部署是单实例的，多实例部署需要换成分布式租约
	mu       sync.Mutex
	dayLocks map[string]*sync.Mutex
}

func NewService(store sheetstore.Store, dayCapacity int) *Service {
	return &Service{
		store:       store,
		dayCapacity: dayCapacity,
		dayLocks:    make(map[string]*sync.Mutex),
	}
}

// Apply 按请求中的操作类型分发，未知操作（包括 "N/A"）直接判非法
func (s *Service) Apply(ctx context.Context, req *domain.ActionRequest) (domain.Outcome, error) {
	switch domain.Action(req.Action) {
	case domain.ActionAdd:
		return s.InsertShift(ctx, req.Name, req.Day, req.StartTime, req.EndTime)
	case domain.ActionDelete:
		return s.DeleteShift(ctx, req.Name, req.Day)
	default:
		return domain.OutcomeInvalidAction, nil
	}
}

// InsertShift 校验并写入一个新班次
// 规则顺序是契约的一部分：姓名、星期、时间、占用、容量，谁先失败就报谁
func (s *Service) InsertShift(ctx context.Context, name, day, start, end string) (domain.Outcome, error) {
	row, err := s.store.FindPersonRow(ctx, name)
	if err != nil {
		return classifyStoreError(err)
	}

	if !domain.IsValidDay(day) {
		return domain.OutcomeInvalidTime, nil
	}

	startMinute, err := timeparse.Parse(start)
	if err != nil {
		return domain.OutcomeInvalidTime, nil
	}
	endMinute, err := timeparse.Parse(end)
	if err != nil {
		return domain.OutcomeInvalidTime, nil
	}
	if startMinute >= endMinute || startMinute < windowOpen || endMinute > windowClose {
		return domain.OutcomeInvalidTime, nil
	}

	// 从这里开始要读写表格了，锁住这一天，
	// 避免两个并发请求都读到空单元格然后互相覆盖
	unlock := s.lockDay(day)
	defer unlock()

	column, err := s.store.FindDayColumn(ctx, day)
	if err != nil {
		return classifyStoreError(err)
	}

	current, err := s.store.ReadCell(ctx, row, column)
	if err != nil {
		return classifyStoreError(err)
	}
	if current != "" {
		// 不允许覆盖，用户必须先删除旧班次
		return domain.OutcomeEntryExists, nil
	}

	scheduled, err := s.store.CountDayEntries(ctx, column)
	if err != nil {
		return classifyStoreError(err)
	}
	if scheduled >= s.dayCapacity {
		return domain.OutcomeDayLimitReached, nil
	}

	if err := s.store.WriteCell(ctx, row, column, formatEntry(start, end)); err != nil {
		return classifyStoreError(err)
	}

	return domain.OutcomeUpdateSuccess, nil
}

// DeleteShift 清除某人某天的班次
// 删除一个本来就不存在的班次不算错误，因为最终状态和用户意图一致
func (s *Service) DeleteShift(ctx context.Context, name, day string) (domain.Outcome, error) {
	row, err := s.store.FindPersonRow(ctx, name)
	if err != nil {
		return classifyStoreError(err)
	}

	if !domain.IsValidDay(day) {
		return domain.OutcomeInvalidTime, nil
	}

	unlock := s.lockDay(day)
	defer unlock()

	column, err := s.store.FindDayColumn(ctx, day)
	if err != nil {
		return classifyStoreError(err)
	}

	current, err := s.store.ReadCell(ctx, row, column)
	if err != nil {
		return classifyStoreError(err)
	}
	if current == "" {
		return domain.OutcomeDeleteSuccess, nil
	}

	if err := s.store.WriteCell(ctx, row, column, ""); err != nil {
		return classifyStoreError(err)
	}

	return domain.OutcomeDeleteSuccess, nil
}

func (s *Service) lockDay(day string) func() {
	s.mu.Lock()
	lock, ok := s.dayLocks[day]
	if !ok {
		lock = &sync.Mutex{}
		s.dayLocks[day] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// classifyStoreError 把存储层的错误翻译成业务结果
// 查不到是业务失败，连不上是暂时性失败，后者附带原始错误供日志记录
func classifyStoreError(err error) (domain.Outcome, error) {
	switch {
	case errors.Is(err, sheetstore.ErrPersonNotFound):
		return domain.OutcomeInvalidName, nil
	case errors.Is(err, sheetstore.ErrDayNotFound):
		return domain.OutcomeInvalidTime, nil
	default:
		return domain.OutcomeStoreUnavailable, err
	}
}

func formatEntry(start, end string) string {
	return fmt.Sprintf("%s-%s", start, end)
}
