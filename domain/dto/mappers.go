package dto

import (
	"github.com/google/uuid"

	"taskboard/domain/models"
)

func ToUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

func ToProjectResponse(p *models.Project) *ProjectResponse {
	if p == nil {
		return nil
	}

	members := make([]ProjectMemberResponse, 0, len(p.Members))
	for _, m := range p.Members {
		members = append(members, ProjectMemberResponse{
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
			User:     ToUserResponse(m.User),
		})
	}

	columns := make([]ColumnResponse, 0, len(p.Columns))
	for _, col := range p.Columns {
		columns = append(columns, ColumnResponse{Name: col.Name, Color: col.Color})
	}

	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Columns:     columns,
		Settings: ProjectSettingsResponse{
			AllowMembersToCreateTasks: p.Settings.AllowMembersToCreateTasks,
			NotifyOnTaskMove:          p.Settings.NotifyOnTaskMove,
		},
		Members:   members,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToProjectResponses(projects []*models.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return out
}

func ToTaskResponse(t *models.Task) *TaskResponse {
	if t == nil {
		return nil
	}

	assignees := t.Assignees
	if assignees == nil {
		assignees = models.UUIDList{}
	}
	labels := t.Labels
	if labels == nil {
		labels = models.StringList{}
	}

	attachments := make([]AttachmentResponse, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		attachments = append(attachments, AttachmentResponse{
			ID:          a.ID,
			FileName:    a.FileName,
			URL:         a.URL,
			Size:        a.Size,
			ContentType: a.ContentType,
			UploadedBy:  a.UploadedBy,
			UploadedAt:  a.UploadedAt,
		})
	}

	return &TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Column:      t.Column,
		Order:       t.Position,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Assignees:   []uuid.UUID(assignees),
		Labels:      []string(labels),
		Attachments: attachments,
		IsCompleted: t.IsCompleted,
		CompletedAt: t.CompletedAt,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTaskResponses(tasks []*models.Task) []*TaskResponse {
	out := make([]*TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t))
	}
	return out
}

func ToNotificationResponse(n *models.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		ProjectID: n.ProjectID,
		TaskID:    n.TaskID,
		ActorID:   n.ActorID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponses(notifications []*models.Notification) []*NotificationResponse {
	out := make([]*NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, ToNotificationResponse(n))
	}
	return out
}
