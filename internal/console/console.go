// Package console рисует справочник в терминале и ведёт диалоги клиента.
package console

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/GoArmGo/UserDirectory/internal/directory"
	"github.com/GoArmGo/UserDirectory/internal/domain"
)

// Console: клиентский интерфейс поверх directory.Session
type Console struct {
	session *directory.Session
	in      *bufio.Reader
	out     io.Writer
	logger  *slog.Logger
}

func New(session *directory.Session, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		session: session,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger,
	}
}

// List печатает текущую страницу таблицы. Если загрузить данные не удалось,
// печатается состояние ошибки, а не пустая таблица.
func (c *Console) List(ctx context.Context) error {
	page, err := c.session.Rows(ctx)
	if err != nil {
		c.logger.Error("failed to load users", "error", err)
		fmt.Fprintf(c.out, "Error: could not load users: %v\n", err)
		return err
	}
	c.renderPage(page, c.session.Query)
	return nil
}

// Create отправляет новую запись, data содержит JSON формы.
func (c *Console) Create(ctx context.Context, data string) error {
	var input domain.UserInput
	if err := decodeForm(data, &input); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return err
	}

	user, err := c.session.Create(ctx, input)
	if err != nil {
		c.renderError("create", err)
		return err
	}
	fmt.Fprintf(c.out, "Created user #%d %s <%s>\n", user.ID, user.FullName, user.Email)
	return nil
}

// Update отправляет изменения записи id, в data только меняемые поля.
func (c *Console) Update(ctx context.Context, id int64, data string) error {
	var patch domain.UserPatch
	if err := decodeForm(data, &patch); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return err
	}

	user, err := c.session.Update(ctx, id, patch)
	if err != nil {
		c.renderError("update", err)
		return err
	}
	fmt.Fprintf(c.out, "Updated user #%d %s <%s>\n", user.ID, user.FullName, user.Email)
	return nil
}

// Delete спрашивает подтверждение и удаляет запись только при ответе «y».
func (c *Console) Delete(ctx context.Context, id int64) error {
	c.session.RequestDelete(id)

	fmt.Fprintf(c.out, "Delete user #%d? This cannot be undone. [y/N]: ", id)
	answer, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		c.session.CancelDelete()
		return fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
	default:
		c.session.CancelDelete()
		fmt.Fprintln(c.out, "Cancelled.")
		return nil
	}

	if _, err := c.session.ConfirmDelete(ctx); err != nil {
		c.renderError("delete", err)
		return err
	}
	fmt.Fprintf(c.out, "Deleted user #%d\n", id)
	return nil
}

func (c *Console) renderPage(page directory.Page, q directory.Query) {
	if page.Total == 0 {
		if q.Search != "" {
			fmt.Fprintf(c.out, "No users match %q.\n", q.Search)
		} else {
			fmt.Fprintln(c.out, "No users yet.")
		}
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\t%s\t%s\tBIRTH DATE\t%s\tPOSITION\tACTIVE\n",
		header("FULL NAME", directory.SortByFullName, q),
		header("EMAIL", directory.SortByEmail, q),
		header("PHONE", directory.SortByPhone, q),
		header("ROLE", directory.SortByRole, q),
	)
	for _, u := range page.Users {
		birth := "-"
		if u.BirthDate != nil {
			birth = u.BirthDate.String()
		}
		position := "-"
		if u.Position != nil {
			position = *u.Position
		}
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.FullName, u.Email, u.Phone, birth, u.Role, position, active)
	}
	_ = tw.Flush()

	if len(page.Users) == 0 {
		fmt.Fprintf(c.out, "Page %d is empty.\n", page.PageIndex+1)
	}
	fmt.Fprintf(c.out, "Page %d of %d, %d users\n", page.PageIndex+1, page.PageCount, page.Total)
}

func header(title string, field directory.SortField, q directory.Query) string {
	if q.SortField != field {
		return title
	}
	if q.SortDirection == directory.Desc {
		return title + " ↓"
	}
	return title + " ↑"
}

// renderError печатает ошибки по полям формы или общее сообщение
func (c *Console) renderError(op string, err error) {
	fields, ok := domain.FieldErrors(err)
	if !ok {
		c.logger.Error("request failed", "op", op, "error", err)
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(c.out, "Please fix the following fields:")
	for _, name := range names {
		fmt.Fprintf(c.out, "  %s: %s\n", name, fields[name])
	}
}

func decodeForm(data string, dst any) error {
	if strings.TrimSpace(data) == "" {
		return fmt.Errorf("form data is empty, pass a JSON object with -data")
	}
	dec := json.NewDecoder(bytes.NewBufferString(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid form data: %w", err)
	}
	return nil
}
