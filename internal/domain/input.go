package domain

import (
	"strings"
)

// UserInput — кандидат на создание: все редактируемые поля без id и меток времени.
// Правила валидации заданы тегами и проверяются пакетом validation.
type UserInput struct {
	FullName  string `json:"fullName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,max=20"`
	BirthDate string `json:"birthDate,omitempty" validate:"omitempty,dateonly"`
	Role      Role   `json:"role" validate:"required,oneof=admin user"`
	Position  string `json:"position,omitempty" validate:"omitempty,max=255"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// Normalize обрезает пробелы по краям строковых полей.
func (in *UserInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Role = Role(strings.TrimSpace(string(in.Role)))
	in.Position = strings.TrimSpace(in.Position)
}

// ToUser строит новую запись из уже провалидированного ввода.
// isActive по умолчанию true.
func (in UserInput) ToUser() (*User, error) {
	u := &User{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Role:     in.Role,
		IsActive: true,
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.BirthDate != "" {
		d, err := ParseDate(in.BirthDate)
		if err != nil {
			return nil, NewValidationError("birthDate", "must be a date in YYYY-MM-DD format")
		}
		u.BirthDate = &d
	}
	if in.Position != "" {
		p := in.Position
		u.Position = &p
	}
	return u, nil
}

// UserPatch — частичное обновление. nil означает «не менять»;
// пустая строка в необязательных полях (birthDate, position) очищает значение.
type UserPatch struct {
	FullName  *string `json:"fullName,omitempty" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitnil,email,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitnil,min=1,max=20"`
	BirthDate *string `json:"birthDate,omitempty" validate:"omitnil,dateonly"`
	Role      *Role   `json:"role,omitempty" validate:"omitnil,oneof=admin user"`
	Position  *string `json:"position,omitempty" validate:"omitnil,max=255"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// Normalize обрезает пробелы по краям заданных строковых полей.
func (p *UserPatch) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(p.FullName)
	trim(p.Email)
	trim(p.Phone)
	trim(p.BirthDate)
	trim(p.Position)
	if p.Role != nil {
		r := Role(strings.TrimSpace(string(*p.Role)))
		p.Role = &r
	}
}

// Apply сливает заданные поля в существующую запись.
func (p UserPatch) Apply(u *User) error {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.BirthDate != nil {
		if *p.BirthDate == "" {
			u.BirthDate = nil
		} else {
			d, err := ParseDate(*p.BirthDate)
			if err != nil {
				return NewValidationError("birthDate", "must be a date in YYYY-MM-DD format")
			}
			u.BirthDate = &d
		}
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Position != nil {
		if *p.Position == "" {
			u.Position = nil
		} else {
			pos := *p.Position
			u.Position = &pos
		}
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return nil
}

// PatchFromUser строит полный патч из записи; так клиент отправляет форму редактирования.
func PatchFromUser(u User) UserPatch {
	birth := ""
	if u.BirthDate != nil {
		birth = u.BirthDate.String()
	}
	position := ""
	if u.Position != nil {
		position = *u.Position
	}
	role := u.Role
	active := u.IsActive
	return UserPatch{
		FullName:  &u.FullName,
		Email:     &u.Email,
		Phone:     &u.Phone,
		BirthDate: &birth,
		Role:      &role,
		Position:  &position,
		IsActive:  &active,
	}
}
