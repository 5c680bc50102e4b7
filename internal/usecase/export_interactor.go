package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/GoArmGo/UserDirectory/internal/core/ports"
	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/GoArmGo/UserDirectory/internal/messaging/payloads"
)

// DirectorySnapshot описывает содержимое users.json
type DirectorySnapshot struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Count       int           `json:"count"`
	Users       []domain.User `json:"users"`
}

// exportUseCase implements ExportUseCase
type exportUseCase struct {
	userStorage ports.UserStorage
	fileStorage ports.FileStorage
	prefix      string
	logger      *slog.Logger
	now         func() time.Time
}

// NewExportUseCase создает экспортёр; prefix задаёт «папку» в бакете
func NewExportUseCase(
	userStorage ports.UserStorage,
	fileStorage ports.FileStorage,
	prefix string,
	logger *slog.Logger,
) ExportUseCase {
	return &exportUseCase{
		userStorage: userStorage,
		fileStorage: fileStorage,
		prefix:      prefix,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *exportUseCase) HandleUserEvent(ctx context.Context, event payloads.UserChangedPayload) error {
	start := time.Now()

	eventKey := path.Join(uc.prefix, "events", event.OccurredAt.UTC().Format(domain.DateLayout), event.EventID.String()+".json")
	if _, err := uc.uploadJSON(ctx, eventKey, event); err != nil {
		return fmt.Errorf("usecase: archive event %s: %w", event.EventID, err)
	}

	users, err := uc.userStorage.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("usecase: load directory for export: %w", err)
	}

	snapshot := DirectorySnapshot{
		GeneratedAt: uc.now().UTC(),
		Count:       len(users),
		Users:       users,
	}
	url, err := uc.uploadJSON(ctx, path.Join(uc.prefix, "users.json"), snapshot)
	if err != nil {
		return fmt.Errorf("usecase: upload snapshot: %w", err)
	}

	uc.logger.Info("directory exported",
		"event_id", event.EventID,
		"type", event.Type,
		"users", len(users),
		"url", url,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (uc *exportUseCase) uploadJSON(ctx context.Context, key string, v any) (string, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", key, err)
	}
	return uc.fileStorage.UploadFile(ctx, key, bytes.NewReader(body), "application/json")
}
