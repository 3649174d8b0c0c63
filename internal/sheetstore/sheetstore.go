package sheetstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPersonNotFound 表示花名册里找不到这个姓名
	ErrPersonNotFound = errors.New("后端表格中不存在该姓名")
	// ErrDayNotFound 表示表头里找不到这个星期标签
	ErrDayNotFound = errors.New("后端表格中不存在该星期标签")
	// ErrStoreUnavailable 表示后端表格暂时不可达，整个请求可以安全重试
	ErrStoreUnavailable = errors.New("后端表格不可用")
)

// unavailable 把底层网络/API 错误包装成可用 errors.Is 识别的暂时性错误
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// Store 把共享班表抽象成按标签寻址的单元格读写
// 行列都沿用表格的 1 起始坐标：第 1 行是星期表头，第 A 列是花名册，
// 任何实现都不允许在请求之间缓存表格内容，真实状态只在单元格里
type Store interface {
	// FindPersonRow 在花名册列中线性查找姓名（区分大小写），返回所在行号
	FindPersonRow(ctx context.Context, name string) (int, error)
	// FindDayColumn 在表头行中线性查找星期标签，返回所在列号
	FindDayColumn(ctx context.Context, day string) (int, error)
	// ReadCell 返回单元格的当前文本，空单元格返回空字符串
	ReadCell(ctx context.Context, row, column int) (string, error)
	// WriteCell 覆盖单元格文本，写入空字符串即清除
	WriteCell(ctx context.Context, row, column int, value string) error
	// CountDayEntries 统计某一天已排班的人数（该列的非空单元格数）
	CountDayEntries(ctx context.Context, column int) (int, error)
	// Snapshot 返回整张表的当前内容，供管理端展示
	Snapshot(ctx context.Context) ([][]string, error)
}
