package paginate

import "strconv"

// Page 一页结果
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	PageSize    int   `json:"page_size"`
	Count       int64 `json:"count"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// Window 已经校正过的页码和对应的 offset/limit
type Window struct {
	Number   int
	NumPages int
	Offset   int
	Limit    int
}

// ParseNumber 解析请求里的页码；非法输入按第一页处理
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// Clamp 把页码夹到 [1, numPages]；空结果集也有一页
func Clamp(number int, count int64, size int) Window {
	if size <= 0 {
		size = 10
	}
	numPages := int((count + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Window{
		Number:   number,
		NumPages: numPages,
		Offset:   (number - 1) * size,
		Limit:    size,
	}
}

// New 组装一页
func New[T any](items []T, w Window, count int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Number:      w.Number,
		NumPages:    w.NumPages,
		PageSize:    w.Limit,
		Count:       count,
		HasPrevious: w.Number > 1,
		HasNext:     w.Number < w.NumPages,
	}
}
