package console_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoArmGo/UserDirectory/internal/adapter/userapi"
	"github.com/GoArmGo/UserDirectory/internal/console"
	"github.com/GoArmGo/UserDirectory/internal/database/storage"
	"github.com/GoArmGo/UserDirectory/internal/database/testdb"
	"github.com/GoArmGo/UserDirectory/internal/directory"
	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/GoArmGo/UserDirectory/internal/handler"
	"github.com/GoArmGo/UserDirectory/internal/logger"
	"github.com/GoArmGo/UserDirectory/internal/rabbitmq"
	"github.com/GoArmGo/UserDirectory/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// newAPI поднимает настоящий сервер поверх SQLite в памяти
func newAPI(t *testing.T) *userapi.Client {
	t.Helper()
	log := logger.Discard()
	uc := usecase.NewUserUseCase(storage.NewUserStorage(testdb.New(t), log), rabbitmq.NewNopPublisher(log), log)
	srv := httptest.NewServer(handler.NewRouter(handler.RouterConfig{}, handler.NewUserHandler(uc, log), okPinger{}, log))
	t.Cleanup(srv.Close)
	return userapi.NewClient(srv.URL+"/users", srv.Client())
}

func newConsole(api directory.API, stdin string) (*console.Console, *directory.Session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	session := directory.NewSession(api)
	return console.New(session, strings.NewReader(stdin), out, logger.Discard()), session, out
}

func seed(t *testing.T, api *userapi.Client, names ...string) []domain.User {
	t.Helper()
	users := make([]domain.User, 0, len(names))
	for _, name := range names {
		u, err := api.CreateUser(context.Background(), domain.UserInput{
			FullName: name,
			Email:    strings.ToLower(name) + "@example.com",
			Phone:    "555-" + name,
			Role:     domain.RoleUser,
		})
		require.NoError(t, err)
		users = append(users, *u)
	}
	return users
}

func TestList_Empty(t *testing.T) {
	c, _, out := newConsole(newAPI(t), "")

	require.NoError(t, c.List(context.Background()))
	assert.Equal(t, "No users yet.\n", out.String())
}

func TestList_RendersSortedPage(t *testing.T) {
	api := newAPI(t)
	seed(t, api, "Cid", "Ann", "Bob")
	c, session, out := newConsole(api, "")
	session.Query = session.Query.ToggleSort(directory.SortByFullName)

	require.NoError(t, c.List(context.Background()))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "FULL NAME ↓")
	assert.Contains(t, lines[1], "Cid")
	assert.Contains(t, lines[2], "Bob")
	assert.Contains(t, lines[3], "Ann")
	assert.Contains(t, lines[1], "yes")
	assert.Equal(t, "Page 1 of 1, 3 users", lines[4])
}

func TestList_SearchWithoutMatches(t *testing.T) {
	api := newAPI(t)
	seed(t, api, "Ann")
	c, session, out := newConsole(api, "")
	session.Query.Search = "zzz"

	require.NoError(t, c.List(context.Background()))
	assert.Equal(t, "No users match \"zzz\".\n", out.String())
}

func TestList_ErrorState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
	}))
	t.Cleanup(srv.Close)

	c, _, out := newConsole(userapi.NewClient(srv.URL, srv.Client()), "")

	require.Error(t, c.List(context.Background()))
	assert.Contains(t, out.String(), "Error: could not load users")
	assert.NotContains(t, out.String(), "No users yet")
}

func TestCreate(t *testing.T) {
	c, _, out := newConsole(newAPI(t), "")
	ctx := context.Background()

	err := c.Create(ctx, `{"fullName":"Ann","email":"ann@example.com","phone":"1","role":"admin","position":"CTO"}`)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Created user #1 Ann <ann@example.com>")

	out.Reset()
	err = c.Create(ctx, `{"fullName":"Ann 2","email":"ann@example.com","phone":"1","role":"user"}`)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Contains(t, out.String(), "email: is already taken")

	out.Reset()
	require.NoError(t, c.List(ctx))
	assert.Contains(t, out.String(), "CTO")
	assert.Contains(t, out.String(), "1 users")
}

func TestCreate_FormErrors(t *testing.T) {
	c, _, out := newConsole(newAPI(t), "")
	ctx := context.Background()

	err := c.Create(ctx, `{"fullName":"","email":"x","phone":"1","role":"root"}`)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t,
		"Please fix the following fields:\n"+
			"  email: must be a valid email address\n"+
			"  fullName: is required\n"+
			"  role: must be one of: admin, user\n",
		out.String())

	out.Reset()
	assert.Error(t, c.Create(ctx, `{"name":"Ann"}`), "unknown fields are rejected")
	assert.Error(t, c.Create(ctx, ""))
}

func TestUpdate(t *testing.T) {
	api := newAPI(t)
	users := seed(t, api, "Ann")
	c, _, out := newConsole(api, "")
	ctx := context.Background()

	require.NoError(t, c.Update(ctx, users[0].ID, `{"fullName":"Ann Smith"}`))
	assert.Contains(t, out.String(), "Updated user #1 Ann Smith <ann@example.com>")

	out.Reset()
	err := c.Update(ctx, 42, `{"fullName":"Nobody"}`)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Contains(t, out.String(), "Error:")
}

func TestDelete_Confirmed(t *testing.T) {
	api := newAPI(t)
	users := seed(t, api, "Ann", "Bob", "Cid")
	c, _, out := newConsole(api, "y\n")
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, users[1].ID))
	assert.Contains(t, out.String(), "[y/N]")
	assert.Contains(t, out.String(), "Deleted user #2")

	left, err := api.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestDelete_Declined(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", "", "maybe\n"} {
		api := newAPI(t)
		users := seed(t, api, "Ann")
		c, session, out := newConsole(api, answer)

		require.NoError(t, c.Delete(context.Background(), users[0].ID))
		assert.Contains(t, out.String(), "Cancelled.")
		_, pending := session.PendingDelete()
		assert.False(t, pending)

		left, err := api.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, left, 1, "answer %q must not delete", answer)
	}
}

func TestDelete_Missing(t *testing.T) {
	c, _, out := newConsole(newAPI(t), "yes\n")

	err := c.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Contains(t, out.String(), "Error:")
}
