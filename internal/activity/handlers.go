package activity

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Имена параметров, передаваемых в источники и SQL-шаблоны.
const (
	ParamCognitoUserID = "cognito_user_id"
	ParamSearchTerm    = "search_term"
	ParamHandle        = "handle"
)

// HomeActivities домашняя лента.
type HomeActivities struct {
	source Source
	logger *logrus.Logger
}

// NewHomeActivities создает обработчик домашней ленты.
func NewHomeActivities(source Source, logger *logrus.Logger) *HomeActivities {
	return &HomeActivities{source: source, logger: logger}
}

// Run возвращает ленту. cognitoUserID может быть пустым.
func (h *HomeActivities) Run(ctx context.Context, cognitoUserID string) (Envelope, error) {
	h.logger.WithField("authenticated", cognitoUserID != "").Info("Home activities requested")

	params := map[string]any{}
	if cognitoUserID != "" {
		params[ParamCognitoUserID] = cognitoUserID
	}

	records, err := h.source.Fetch(ctx, params)
	if err != nil {
		return Envelope{}, err
	}
	return Success(records), nil
}

// SearchActivities поиск по сообщениям.
type SearchActivities struct {
	source Source
	logger *logrus.Logger
}

// NewSearchActivities создает обработчик поиска.
func NewSearchActivities(source Source, logger *logrus.Logger) *SearchActivities {
	return &SearchActivities{source: source, logger: logger}
}

// Run ищет по term. Пустой term возвращает ошибку валидации без запроса.
func (h *SearchActivities) Run(ctx context.Context, term string) (Envelope, error) {
	if strings.TrimSpace(term) == "" {
		return Failure(CodeSearchTermBlank), nil
	}

	records, err := h.source.Fetch(ctx, map[string]any{ParamSearchTerm: term})
	if err != nil {
		return Envelope{}, err
	}
	h.logger.WithField("result_length", len(records)).Debug("Search completed")
	return Success(records), nil
}

// UserActivities лента одного пользователя.
type UserActivities struct {
	source Source
	logger *logrus.Logger
}

// NewUserActivities создает обработчик ленты пользователя.
func NewUserActivities(source Source, logger *logrus.Logger) *UserActivities {
	return &UserActivities{source: source, logger: logger}
}

// Run возвращает записи пользователя handle.
func (h *UserActivities) Run(ctx context.Context, handle string) (Envelope, error) {
	if strings.TrimSpace(handle) == "" {
		return Failure(CodeBlankUserHandle), nil
	}

	records, err := h.source.Fetch(ctx, map[string]any{ParamHandle: handle})
	if err != nil {
		return Envelope{}, err
	}
	return Success(records), nil
}
