// Package directory содержит клиентскую часть справочника: производное представление таблицы
// (поиск, сортировка, страницы), кэш последнего снимка и двухшаговое удаление.
package directory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/GoArmGo/UserDirectory/internal/domain"
)

type SortField string

const (
	SortByFullName SortField = "fullName"
	SortByEmail    SortField = "email"
	SortByPhone    SortField = "phone"
	SortByRole     SortField = "role"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

const DefaultPageSize = 10

// ParseSortField разбирает имя колонки из флага командной строки.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortByFullName, SortByEmail, SortByPhone, SortByRole:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q (use fullName, email, phone or role)", s)
}

// ParseSortDirection разбирает направление сортировки.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(s)); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort order %q (use asc or desc)", s)
}

func (f SortField) value(u domain.User) string {
	switch f {
	case SortByEmail:
		return u.Email
	case SortByPhone:
		return u.Phone
	case SortByRole:
		return string(u.Role)
	default:
		return u.FullName
	}
}

// Query описывает состояние представления: строка поиска, сортировка и страница.
type Query struct {
	Search        string
	SortField     SortField
	SortDirection SortDirection
	PageIndex     int
	PageSize      int
}

// DefaultQuery: сортировка по имени по возрастанию, первая страница.
func DefaultQuery() Query {
	return Query{
		SortField:     SortByFullName,
		SortDirection: Asc,
		PageSize:      DefaultPageSize,
	}
}

// ToggleSort повторяет клик по заголовку колонки: активная колонка по возрастанию
// переключается на убывание, любая другая сортируется по возрастанию.
func (q Query) ToggleSort(field SortField) Query {
	if q.SortField == field && q.SortDirection == Asc {
		q.SortDirection = Desc
	} else {
		q.SortDirection = Asc
	}
	q.SortField = field
	return q
}

type Page struct {
	Users     []domain.User
	Total     int // записей после фильтрации
	PageCount int
	PageIndex int
	PageSize  int
}

// Derive строит видимые строки таблицы: фильтр, устойчивая сортировка, страница.
// Не меняет users. Номер страницы вне диапазона даёт пустую страницу.
// PageSize <= 0 означает «все записи на одной странице».
func Derive(users []domain.User, q Query) Page {
	filtered := filter(users, q.Search)

	dir := 1
	if q.SortDirection == Desc {
		dir = -1
	}
	slices.SortStableFunc(filtered, func(a, b domain.User) int {
		return dir * strings.Compare(q.SortField.value(a), q.SortField.value(b))
	})

	page := Page{
		Users:     []domain.User{},
		Total:     len(filtered),
		PageIndex: q.PageIndex,
		PageSize:  q.PageSize,
	}

	if q.PageSize <= 0 {
		page.PageSize = len(filtered)
		if len(filtered) > 0 {
			page.PageCount = 1
		}
		if q.PageIndex == 0 {
			page.Users = filtered
		}
		return page
	}

	page.PageCount = len(filtered) / q.PageSize
	if len(filtered)%q.PageSize != 0 {
		page.PageCount++
	}
	// индекс проверяется до умножения, иначе PageIndex*PageSize может переполниться
	if q.PageIndex < 0 || q.PageIndex >= page.PageCount {
		return page
	}
	start := q.PageIndex * q.PageSize
	end := start + min(q.PageSize, len(filtered)-start)
	page.Users = filtered[start:end]
	return page
}

// filter всегда возвращает копию, чтобы сортировка не трогала вход
func filter(users []domain.User, search string) []domain.User {
	out := make([]domain.User, 0, len(users))
	needle := strings.ToLower(search)
	for _, u := range users {
		if needle == "" ||
			strings.Contains(strings.ToLower(u.FullName), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) ||
			strings.Contains(strings.ToLower(u.Phone), needle) {
			out = append(out, u)
		}
	}
	return out
}
