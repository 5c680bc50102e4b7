package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDateJSON(t *testing.T) {
	d := NewDate(1990, time.March, 7)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-03-07"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`"07.03.1990"`), &back))
}

func TestDateScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{name: "time", src: time.Date(2001, 2, 3, 15, 4, 5, 0, time.FixedZone("X", 3600)), want: "2001-02-03"},
		{name: "string", src: "2001-02-03", want: "2001-02-03"},
		{name: "datetime string", src: "2001-02-03 00:00:00+00:00", want: "2001-02-03"},
		{name: "bytes", src: []byte("2001-02-03"), want: "2001-02-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))

	v, err := NewDate(2001, 2, 3).Value()
	require.NoError(t, err)
	assert.Equal(t, "2001-02-03", v)
}

func TestUserInputToUser(t *testing.T) {
	in := UserInput{
		FullName:  "  Ann Lee ",
		Email:     " ann@example.com",
		Phone:     "+1 555 0100",
		BirthDate: "1990-01-02",
		Role:      RoleAdmin,
	}
	in.Normalize()

	u, err := in.ToUser()
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", u.FullName)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.True(t, u.IsActive, "isActive defaults to true")
	assert.Nil(t, u.Position)
	require.NotNil(t, u.BirthDate)
	assert.Equal(t, "1990-01-02", u.BirthDate.String())

	inactive := false
	in.IsActive = &inactive
	in.Position = "Engineer"
	u, err = in.ToUser()
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	require.NotNil(t, u.Position)
	assert.Equal(t, "Engineer", *u.Position)
}

func TestUserPatchApply(t *testing.T) {
	birth := NewDate(1980, 5, 6)
	u := User{
		ID:        3,
		FullName:  "Bob",
		Email:     "bob@example.com",
		Phone:     "100",
		BirthDate: &birth,
		Role:      RoleUser,
		Position:  strPtr("Clerk"),
		IsActive:  true,
	}

	admin := RoleAdmin
	patch := UserPatch{
		FullName:  strPtr("Robert"),
		BirthDate: strPtr(""),
		Role:      &admin,
		Position:  strPtr(""),
	}
	require.NoError(t, patch.Apply(&u))

	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "Robert", u.FullName)
	assert.Equal(t, "bob@example.com", u.Email, "absent fields stay untouched")
	assert.Nil(t, u.BirthDate, "empty birthDate clears the value")
	assert.Nil(t, u.Position, "empty position clears the value")
	assert.Equal(t, RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
}

func TestPatchFromUserRoundTrip(t *testing.T) {
	birth := NewDate(1980, 5, 6)
	u := User{FullName: "Cid", Email: "cid@example.com", Phone: "1", BirthDate: &birth, Role: RoleUser, IsActive: false}

	var target User
	require.NoError(t, PatchFromUser(u).Apply(&target))

	assert.Equal(t, u.FullName, target.FullName)
	assert.Equal(t, u.Email, target.Email)
	assert.Equal(t, "1980-05-06", target.BirthDate.String())
	assert.Nil(t, target.Position)
	assert.False(t, target.IsActive)
}

func TestValidationErrorMatching(t *testing.T) {
	err := fmt.Errorf("create: %w", &ValidationError{Fields: map[string]string{
		"phone": "is required",
		"email": "must be a valid email address",
	}})

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: email: must be a valid email address; phone: is required", errors.Unwrap(err).Error())

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Len(t, fields, 2)

	fields, ok = FieldErrors(fmt.Errorf("insert: %w", ErrEmailTaken))
	require.True(t, ok)
	assert.Contains(t, fields, "email")

	_, ok = FieldErrors(ErrUserNotFound)
	assert.False(t, ok)
}
