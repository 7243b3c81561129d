// Package sessions records agent chat sessions and the user messages
// appended to them. Reply generation happens elsewhere.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"github.com/aben/console/internal/pkg/pagination"
	"github.com/aben/console/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	StatusActive    = "active"
	AuthorUser      = "user"
	maxMessageChars = 8000
)

var userContentJSON = models.RawJSON(json.RawMessage(`{"role":"user"}`))

// ClientLister yields the ids of a tenant's enabled clients.
type ClientLister interface {
	EnabledIDs(ctx context.Context, tenantID string) ([]string, error)
}

type CreateSessionDTO struct {
	Title *string `json:"title" binding:"omitempty,max=255"`
}

type AppendMessageDTO struct {
	Content string `json:"content" binding:"required,max=8000"`
}

type Service struct {
	repo    Repository
	clients ClientLister
	pub     events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, clients ClientLister, pub events.Publisher, log *zap.Logger) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, clients: clients, pub: pub, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context, tenantID string, q pagination.Query) ([]models.AgentSession, response.Pagination, error) {
	return s.repo.List(ctx, tenantID, q)
}

// Create opens a session bound to the tenant's currently enabled clients.
func (s *Service) Create(ctx context.Context, tenantID, userID string, dto CreateSessionDTO) (*models.AgentSession, error) {
	ids, err := s.clients.EnabledIDs(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list enabled clients: %w", err)
	}
	if len(ids) == 0 {
		return nil, apperr.ErrNoEnabledClients
	}

	sess := &models.AgentSession{
		TenantID:  tenantID,
		CreatedBy: userID,
		Status:    StatusActive,
		ClientIDs: models.StringArray(ids),
	}
	if dto.Title != nil {
		if t := strings.TrimSpace(*dto.Title); t != "" {
			sess.Title = &t
		}
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create agent session: %w", err)
	}

	s.pub.Publish(events.New(events.AgentSessionCreated, map[string]any{
		"tenantId": tenantID, "sessionId": sess.ID, "clientIds": ids,
	}))
	return sess, nil
}

func (s *Service) Messages(ctx context.Context, tenantID, sessionID string, limit int) ([]models.AgentMessage, error) {
	return s.repo.Messages(ctx, tenantID, sessionID, limit)
}

// Append stores a user message at the end of the session.
func (s *Service) Append(ctx context.Context, tenantID, userID, sessionID string, dto AppendMessageDTO) (*models.AgentMessage, error) {
	content := strings.TrimSpace(dto.Content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if len([]rune(content)) > maxMessageChars {
		return nil, apperr.Validation(fmt.Sprintf("content must be at most %d", maxMessageChars))
	}

	author := userID
	msg := &models.AgentMessage{
		TenantID:    tenantID,
		SessionID:   sessionID,
		AuthorType:  AuthorUser,
		AuthorID:    &author,
		Content:     &content,
		ContentJSON: userContentJSON,
	}
	out, err := s.repo.Append(ctx, msg, s.now())
	if err != nil {
		return nil, fmt.Errorf("append agent message: %w", err)
	}
	if out == nil {
		return nil, apperr.ErrSessionNotFound
	}

	s.pub.Publish(events.New(events.AgentUserMessageAppend, map[string]any{
		"tenantId": tenantID, "sessionId": sessionID, "messageId": out.ID,
	}))
	s.log.Debug("agent message appended",
		zap.String("session_id", sessionID),
		zap.Int("seq", out.Seq),
	)
	return out, nil
}
