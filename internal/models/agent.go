package models

import "time"

type AgentSession struct {
	Base
	TenantID      string      `json:"tenantId"      gorm:"type:char(36);not null;index:idx_agent_sessions_tenant"`
	CreatedBy     string      `json:"createdBy"     gorm:"type:char(36);not null"`
	Title         *string     `json:"title"         gorm:"size:255"`
	Status        string      `json:"status"        gorm:"size:16;not null;default:active"`
	ClientIDs     StringArray `json:"clientIds"     gorm:"type:json"`
	LastMessageAt *time.Time  `json:"lastMessageAt"`
}

func (AgentSession) TableName() string { return "agent_sessions" }

type AgentMessage struct {
	Base
	TenantID         string  `json:"tenantId"         gorm:"type:char(36);not null"`
	SessionID        string  `json:"sessionId"        gorm:"type:char(36);not null;uniqueIndex:idx_agent_messages_session_seq,priority:1"`
	Seq              int     `json:"seq"              gorm:"not null;uniqueIndex:idx_agent_messages_session_seq,priority:2"`
	AuthorType       string  `json:"authorType"       gorm:"size:16;not null"`
	AuthorID         *string `json:"authorId"         gorm:"type:char(36)"`
	Content          *string `json:"content"          gorm:"type:text"`
	ContentJSON      RawJSON `json:"contentJson"      gorm:"type:json"`
	ReplyToMessageID *string `json:"replyToMessageId" gorm:"type:char(36)"`
}

func (AgentMessage) TableName() string { return "agent_messages" }

type AgentTask struct {
	Base
	TenantID           string  `json:"tenantId"           gorm:"type:char(36);not null;index:idx_agent_tasks_tenant"`
	SessionID          string  `json:"sessionId"          gorm:"type:char(36);not null;index:idx_agent_tasks_session"`
	ParentTaskID       *string `json:"parentTaskId"       gorm:"type:char(36)"`
	OrderNo            int     `json:"orderNo"            gorm:"not null;default:0"`
	Title              string  `json:"title"              gorm:"size:255;not null"`
	Goal               *string `json:"goal"               gorm:"type:text"`
	AcceptanceCriteria *string `json:"acceptanceCriteria" gorm:"type:text"`
	Status             string  `json:"status"             gorm:"size:16;not null;default:pending"`
	Lifecycle          string  `json:"lifecycle"          gorm:"size:16;not null;default:open"`
	AssignedClientID   *string `json:"assignedClientId"   gorm:"type:char(36)"`
	IdempotencyKey     *string `json:"idempotencyKey"     gorm:"size:128"`
	Input              RawJSON `json:"input"              gorm:"type:json"`
	Output             RawJSON `json:"output"             gorm:"type:json"`
}

func (AgentTask) TableName() string { return "agent_tasks" }

type AgentTaskRun struct {
	Base
	TenantID       string     `json:"tenantId"       gorm:"type:char(36);not null"`
	TaskID         string     `json:"taskId"         gorm:"type:char(36);not null;index:idx_agent_task_runs_task"`
	RunNo          int        `json:"runNo"          gorm:"not null"`
	ClientID       string     `json:"clientId"       gorm:"type:char(36);not null"`
	Status         string     `json:"status"         gorm:"size:16;not null"`
	InputSnapshot  RawJSON    `json:"inputSnapshot"  gorm:"type:json"`
	OutputSnapshot RawJSON    `json:"outputSnapshot" gorm:"type:json"`
	Error          *string    `json:"error"          gorm:"type:text"`
	StartedAt      *time.Time `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt"`
}

func (AgentTaskRun) TableName() string { return "agent_task_runs" }

type AgentTaskEvent struct {
	Base
	TenantID   string    `json:"tenantId"   gorm:"type:char(36);not null"`
	SessionID  string    `json:"sessionId"  gorm:"type:char(36);not null"`
	TaskID     *string   `json:"taskId"     gorm:"type:char(36);index:idx_agent_task_events_task"`
	RunID      *string   `json:"runId"      gorm:"type:char(36)"`
	Type       string    `json:"type"       gorm:"size:64;not null"`
	Payload    RawJSON   `json:"payload"    gorm:"type:json"`
	OccurredAt time.Time `json:"occurredAt" gorm:"not null"`
}

func (AgentTaskEvent) TableName() string { return "agent_task_events" }
