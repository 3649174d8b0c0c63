package shiftservice

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/sheetstore"
)

// fakeStore 用内存网格模拟后端表格，坐标约定和真实实现一致
type fakeStore struct {
	mu          sync.Mutex
	header      []string
	names       []string
	cells       map[[2]int]string
	writes      int
	unavailable bool
}

func newFakeStore(names ...string) *fakeStore {
	header := append([]string{"Name"}, domain.Days...)
	return &fakeStore{
		header: header,
		names:  names,
		cells:  make(map[[2]int]string),
	}
}

func (f *fakeStore) FindPersonRow(_ context.Context, name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return 0, fmt.Errorf("%w: 模拟断网", sheetstore.ErrStoreUnavailable)
	}
	for i, n := range f.names {
		if n == name {
			return i + 2, nil
		}
	}
	return 0, sheetstore.ErrPersonNotFound
}

func (f *fakeStore) FindDayColumn(_ context.Context, day string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return 0, fmt.Errorf("%w: 模拟断网", sheetstore.ErrStoreUnavailable)
	}
	for j, label := range f.header {
		if label == day {
			return j + 1, nil
		}
	}
	return 0, sheetstore.ErrDayNotFound
}

func (f *fakeStore) ReadCell(_ context.Context, row, column int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return "", fmt.Errorf("%w: 模拟断网", sheetstore.ErrStoreUnavailable)
	}
	return f.cells[[2]int{row, column}], nil
}

func (f *fakeStore) WriteCell(_ context.Context, row, column int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return fmt.Errorf("%w: 模拟断网", sheetstore.ErrStoreUnavailable)
	}
	f.writes++
	if value == "" {
		delete(f.cells, [2]int{row, column})
		return nil
	}
	f.cells[[2]int{row, column}] = value
	return nil
}

func (f *fakeStore) CountDayEntries(_ context.Context, column int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return 0, fmt.Errorf("%w: 模拟断网", sheetstore.ErrStoreUnavailable)
	}
	count := 0
	for key, value := range f.cells {
		if key[1] == column && value != "" {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) Snapshot(_ context.Context) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return nil, fmt.Errorf("%w: 模拟断网", sheetstore.ErrStoreUnavailable)
	}
	grid := [][]string{f.header}
	for i, name := range f.names {
		row := make([]string, len(f.header))
		row[0] = name
		for j := 1; j < len(f.header); j++ {
			row[j] = f.cells[[2]int{i + 2, j + 1}]
		}
		grid = append(grid, row)
	}
	return grid, nil
}

func (f *fakeStore) cell(row, column int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cells[[2]int{row, column}]
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func TestInsertShiftWritesFormattedEntry(t *testing.T) {
	store := newFakeStore("Alice", "Bob")
	svc := NewService(store, 3)

	outcome, err := svc.InsertShift(context.Background(), "Alice", "Monday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	// Alice 在第 2 行，Monday 在第 2 列
	assert.Equal(t, "9am-5pm", store.cell(2, 2))
}

func TestInsertThenDeleteRoundTrip(t *testing.T) {
	store := newFakeStore("Alice")
	svc := NewService(store, 3)
	ctx := context.Background()

	outcome, err := svc.InsertShift(ctx, "Alice", "Friday", "10am", "2pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	outcome, err = svc.DeleteShift(ctx, "Alice", "Friday")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDeleteSuccess, outcome)
	assert.Equal(t, "", store.cell(2, 6))
}

func TestDeleteShiftIsIdempotent(t *testing.T) {
	store := newFakeStore("Alice")
	svc := NewService(store, 3)

	outcome, err := svc.DeleteShift(context.Background(), "Alice", "Monday")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDeleteSuccess, outcome)
	// 单元格本来就是空的，不应该产生任何写入
	assert.Equal(t, 0, store.writeCount())
}

func TestInsertShiftRejectsInvalidTimes(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"结束早于开始", "5pm", "9am"},
		{"开始等于结束", "1pm", "1pm"},
		{"早于营业窗口", "8am", "5pm"},
		{"晚于营业窗口", "10am", "7pm"},
		{"开始时间无法解析", "nine", "5pm"},
		{"结束时间缺失", "9am", "N/A"},
		{"两者都缺失", "N/A", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore("Bob")
			svc := NewService(store, 3)

			outcome, err := svc.InsertShift(context.Background(), "Bob", "Monday", tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeInvalidTime, outcome)
			assert.Equal(t, 0, store.writeCount())
		})
	}
}

func TestInsertShiftRejectsInvalidDay(t *testing.T) {
	store := newFakeStore("Alice")
	svc := NewService(store, 3)

	for _, day := range []string{"N/A", "Funday", "monday", ""} {
		outcome, err := svc.InsertShift(context.Background(), "Alice", day, "9am", "5pm")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeInvalidTime, outcome, "day=%q", day)
	}
	assert.Equal(t, 0, store.writeCount())
}

func TestInsertShiftUnknownPerson(t *testing.T) {
	store := newFakeStore("Alice")
	svc := NewService(store, 3)

	outcome, err := svc.InsertShift(context.Background(), "UnknownPerson", "Tuesday", "9am", "1pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInvalidName, outcome)
	assert.Equal(t, 0, store.writeCount())
}

func TestInsertShiftNoOverwrite(t *testing.T) {
	store := newFakeStore("Alice")
	svc := NewService(store, 3)
	ctx := context.Background()

	outcome, err := svc.InsertShift(ctx, "Alice", "Monday", "9am", "5pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	outcome, err = svc.InsertShift(ctx, "Alice", "Monday", "10am", "3pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeEntryExists, outcome)
	// 第一次写入的值必须原样保留
	assert.Equal(t, "9am-5pm", store.cell(2, 2))
}

func TestInsertShiftDayLimit(t *testing.T) {
	store := newFakeStore("Alice", "Bob", "Carol")
	svc := NewService(store, 2)
	ctx := context.Background()

	outcome, err := svc.InsertShift(ctx, "Alice", "Monday", "9am", "1pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	outcome, err = svc.InsertShift(ctx, "Bob", "Monday", "1pm", "5pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	outcome, err = svc.InsertShift(ctx, "Carol", "Monday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDayLimitReached, outcome)

	// 容量是按天算的，换一天照常成功
	outcome, err = svc.InsertShift(ctx, "Carol", "Tuesday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdateSuccess, outcome)
}

// 当某人已经在满员的那天有班次时，先报 EntryExists 而不是 DayLimitReached
func TestEntryExistsBeforeDayLimit(t *testing.T) {
	store := newFakeStore("Alice", "Bob")
	svc := NewService(store, 2)
	ctx := context.Background()

	_, err := svc.InsertShift(ctx, "Alice", "Monday", "9am", "1pm")
	require.NoError(t, err)
	_, err = svc.InsertShift(ctx, "Bob", "Monday", "1pm", "5pm")
	require.NoError(t, err)

	outcome, err := svc.InsertShift(ctx, "Alice", "Monday", "2pm", "4pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeEntryExists, outcome)
}

func TestApplyDispatch(t *testing.T) {
	store := newFakeStore("Alice")
	svc := NewService(store, 3)
	ctx := context.Background()

	outcome, err := svc.Apply(ctx, &domain.ActionRequest{
		Action: "add", Name: "Alice", Day: "Monday", StartTime: "9am", EndTime: "5pm",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	outcome, err = svc.Apply(ctx, &domain.ActionRequest{
		Action: "delete", Name: "Alice", Day: "Monday",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDeleteSuccess, outcome)

	for _, action := range []string{"N/A", "", "update", "ADD"} {
		outcome, err = svc.Apply(ctx, &domain.ActionRequest{Action: action, Name: "Alice", Day: "Monday"})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeInvalidAction, outcome, "action=%q", action)
	}
}

func TestApplyAbsentRequest(t *testing.T) {
	svc := NewService(newFakeStore("Alice"), 3)

	outcome, err := svc.Apply(context.Background(), domain.AbsentRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInvalidAction, outcome)
}

func TestStoreUnavailable(t *testing.T) {
	store := newFakeStore("Alice")
	store.unavailable = true
	svc := NewService(store, 3)

	outcome, err := svc.InsertShift(context.Background(), "Alice", "Monday", "9am", "5pm")
	assert.Equal(t, domain.OutcomeStoreUnavailable, outcome)
	assert.Error(t, err)
	assert.True(t, outcome.IsRetryable())
}

// 两个并发的 add 不允许互相覆盖：恰好一个成功，另一个看到已占用
func TestConcurrentInsertSameSlot(t *testing.T) {
	store := newFakeStore("Alice")
	svc := NewService(store, 3)

	outcomes := make(chan domain.Outcome, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.InsertShift(context.Background(), "Alice", "Wednesday", "9am", "5pm")
			assert.NoError(t, err)
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	got := map[domain.Outcome]int{}
	for outcome := range outcomes {
		got[outcome]++
	}
	assert.Equal(t, 1, got[domain.OutcomeUpdateSuccess])
	assert.Equal(t, 1, got[domain.OutcomeEntryExists])
	assert.Equal(t, "9am-5pm", store.cell(2, 4))
}
