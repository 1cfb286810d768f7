package models

import "math"

// maxOffset: предел OFFSET, дальше любая выборка заведомо пуста.
const maxOffset = math.MaxInt32

type Pagination struct {
	Current    int  `json:"current"`
	Total      int  `json:"total"`
	TotalItems int  `json:"totalItems"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Page: нормализованные page/limit из запроса. Limit 0 значит "без лимита".
type Page struct {
	Page  int
	Limit int
}

func NewPage(page, limit, defaultLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	if limit > 0 && page-1 > maxOffset/limit {
		page = maxOffset/limit + 1
	}
	return Page{Page: page, Limit: limit}
}

// AllItems: одна страница со всеми записями.
func AllItems() Page { return Page{Page: 1} }

func (p Page) Unbounded() bool { return p.Limit <= 0 }

func (p Page) Offset() int {
	if p.Page <= 1 || p.Unbounded() {
		return 0
	}
	if p.Page-1 > maxOffset/p.Limit {
		return maxOffset
	}
	return (p.Page - 1) * p.Limit
}

// LimitArg: значение для LIMIT $n, NULL снимает ограничение.
func (p Page) LimitArg() any {
	if p.Unbounded() {
		return nil
	}
	return p.Limit
}

func (p Page) Paginate(totalItems int) Pagination {
	if p.Unbounded() {
		pages := 0
		if totalItems > 0 {
			pages = 1
		}
		return Pagination{Current: 1, Total: pages, TotalItems: totalItems}
	}
	pages := (totalItems + p.Limit - 1) / p.Limit
	return Pagination{
		Current:    p.Page,
		Total:      pages,
		TotalItems: totalItems,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}
