// Package events carries fire-and-forget domain notifications.
package events

import "time"

const (
	UserLoggedIn        = "auth.user.logged_in"
	UserRegistered      = "auth.user.registered"
	UserPasswordChanged = "auth.user.password_changed"
	UserTenantSwitched  = "auth.user.tenant_switched"
	UserTenantRefreshed = "auth.user.tenant_refreshed"

	ClientCreated    = "clients.client.created"
	ClientUpdated    = "clients.client.updated"
	ClientKeyRotated = "clients.client.key_rotated"

	SkillImported = "skills.skill.imported"

	LLMConfigUpserted = "llm.provider_config.upserted"
	LLMConfigDeleted  = "llm.provider_config.deleted"

	AgentSessionCreated    = "agent_sessions.session_created"
	AgentUserMessageAppend = "agent_sessions.user_message.appended"
)

// Event is a typed notification stamped with its occurrence time.
type Event struct {
	Type         string         `json:"type"`
	OccurredAtMs int64          `json:"occurredAtMs"`
	Payload      map[string]any `json:"payload"`
}

// Publisher accepts events without blocking and without reporting failure.
type Publisher interface {
	Publish(Event)
}

func New(eventType string, payload map[string]any) Event {
	return Event{Type: eventType, OccurredAtMs: time.Now().UnixMilli(), Payload: payload}
}

// UserID returns the payload's userId, if any.
func (e Event) UserID() string {
	id, _ := e.Payload["userId"].(string)
	return id
}

func LoggedIn(userID, tenantID string) Event {
	return New(UserLoggedIn, map[string]any{"userId": userID, "tenantId": tenantID})
}

func Registered(userID, tenantID string) Event {
	return New(UserRegistered, map[string]any{"userId": userID, "tenantId": tenantID})
}

func PasswordChanged(userID string) Event {
	return New(UserPasswordChanged, map[string]any{"userId": userID})
}

func TenantSwitched(userID, fromTenantID, toTenantID string) Event {
	var from any
	if fromTenantID != "" {
		from = fromTenantID
	}
	return New(UserTenantSwitched, map[string]any{"userId": userID, "fromTenantId": from, "toTenantId": toTenantID})
}

func TenantRefreshed(userID, tenantID string) Event {
	return New(UserTenantRefreshed, map[string]any{"userId": userID, "tenantId": tenantID})
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
