package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	ProjectID *uuid.UUID `json:"projectId,omitempty"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ListNotificationsRequest struct {
	UnreadOnly bool `query:"unreadOnly"`
	PaginationRequest
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
