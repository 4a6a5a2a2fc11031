package serviceimpl

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/domain/models"
	"taskboard/domain/ports"
	"taskboard/pkg/apperrors"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Search(_ context.Context, query string, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.User
	for _, u := range r.users {
		if strings.Contains(u.Username, query) || strings.Contains(u.Email, query) {
			cp := *u
			matched = append(matched, &cp)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*models.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	project.CreatedAt = time.Now()
	cp := cloneProject(project)
	r.projects[project.ID] = cp
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, apperrors.NotFound("Project not found")
	}
	return cloneProject(p), nil
}

func (r *fakeProjectRepo) GetBySlug(_ context.Context, slugVal string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.Slug == slugVal {
			return cloneProject(p), nil
		}
	}
	return nil, apperrors.NotFound("Project not found")
}

func (r *fakeProjectRepo) SlugExists(_ context.Context, slugVal string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.Slug == slugVal {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProjectRepo) ListByMember(_ context.Context, userID uuid.UUID, offset, limit int) ([]*models.Project, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Project
	for _, p := range r.projects {
		for _, m := range p.Members {
			if m.UserID == userID {
				matched = append(matched, cloneProject(p))
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.projects[project.ID]
	if !ok {
		return apperrors.NotFound("Project not found")
	}
	cp := cloneProject(project)
	cp.Members = existing.Members
	r.projects[project.ID] = cp
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) AddMember(_ context.Context, member *models.ProjectMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[member.ProjectID]
	if !ok {
		return apperrors.NotFound("Project not found")
	}
	for _, m := range p.Members {
		if m.UserID == member.UserID {
			return apperrors.Conflict("duplicate member")
		}
	}
	p.Members = append(p.Members, *member)
	return nil
}

func (r *fakeProjectRepo) UpdateMemberRole(_ context.Context, projectID, userID uuid.UUID, role models.MemberRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return apperrors.NotFound("Project not found")
	}
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			p.Members[i].Role = role
			return nil
		}
	}
	return apperrors.NotFound("Member not found")
}

func (r *fakeProjectRepo) RemoveMember(_ context.Context, projectID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return apperrors.NotFound("Project not found")
	}
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("Member not found")
}

func cloneProject(p *models.Project) *models.Project {
	cp := *p
	cp.Columns = append(models.ColumnList{}, p.Columns...)
	cp.Members = append([]models.ProjectMember{}, p.Members...)
	return &cp
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*models.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	cp := cloneTask(task)
	r.tasks[task.ID] = cp
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("Task not found")
	}
	return cloneTask(t), nil
}

func (r *fakeTaskRepo) ListByProject(_ context.Context, projectID uuid.UUID, column string, assignee *uuid.UUID) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, t := range r.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if column != "" && t.Column != column {
			continue
		}
		if assignee != nil && !t.Assignees.Contains(*assignee) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Column != out[j].Column {
			return out[i].Column < out[j].Column
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return apperrors.NotFound("Task not found")
	}
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) MaxPosition(_ context.Context, projectID uuid.UUID, column string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := -1
	for _, t := range r.tasks {
		if t.ProjectID == projectID && t.Column == column && t.Position > max {
			max = t.Position
		}
	}
	return max, nil
}

func (r *fakeTaskRepo) ShiftRange(_ context.Context, projectID uuid.UUID, column string, from, to, delta int, excludeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ProjectID != projectID || t.Column != column || t.ID == excludeID {
			continue
		}
		if t.Position < from {
			continue
		}
		if to != -1 && t.Position > to {
			continue
		}
		t.Position += delta
	}
	return nil
}

func (r *fakeTaskRepo) ListDueBetween(_ context.Context, start, end time.Time) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, t := range r.tasks {
		if t.IsCompleted || t.DueDate == nil {
			continue
		}
		if !t.DueDate.Before(start) && t.DueDate.Before(end) {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tasks {
		if t.ProjectID == projectID {
			delete(r.tasks, id)
		}
	}
	return nil
}

func (r *fakeTaskRepo) CountByColumn(_ context.Context, projectID uuid.UUID, column string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tasks {
		if t.ProjectID == projectID && t.Column == column {
			n++
		}
	}
	return n, nil
}

func cloneTask(t *models.Task) *models.Task {
	cp := *t
	cp.Assignees = append(models.UUIDList{}, t.Assignees...)
	cp.Labels = append(models.StringList{}, t.Labels...)
	cp.Attachments = append(models.Attachments{}, t.Attachments...)
	return &cp
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[uuid.UUID]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	cp := *n
	r.rows[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	for _, n := range notifications {
		if err := r.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Notification
	for _, n := range r.rows {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		cp := *n
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return apperrors.NotFound("Notification not found")
	}
	row.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return apperrors.NotFound("Notification not found")
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeNotificationRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, row := range r.rows {
		if now.After(row.ExpiresAt) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu            sync.Mutex
	userEvents    map[uuid.UUID][]ports.Event
	projectEvents map[uuid.UUID][]ports.Event
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{
		userEvents:    make(map[uuid.UUID][]ports.Event),
		projectEvents: make(map[uuid.UUID][]ports.Event),
	}
}

func (p *capturePublisher) PublishToUser(userID uuid.UUID, event ports.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userEvents[userID] = append(p.userEvents[userID], event)
}

func (p *capturePublisher) PublishToProject(projectID uuid.UUID, event ports.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.projectEvents[projectID] = append(p.projectEvents[projectID], event)
}

func (p *capturePublisher) projectEventTypes(projectID uuid.UUID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.projectEvents[projectID] {
		out = append(out, e.Type)
	}
	return out
}

// fakeStorage keeps blobs in memory. onUpload, when set, runs before the
// blob is recorded so tests can interleave board activity with an upload.
type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	onUpload func()
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) (*ports.FileInfo, error) {
	if s.onUpload != nil {
		s.onUpload()
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return &ports.FileInfo{
		Key:         key,
		URL:         "/files/" + key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) URL(key string) string { return "/files/" + key }

func (s *fakeStorage) blobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// fakeCache is an in-memory CachePort without expiry.
type fakeCache struct {
	mu     sync.Mutex
	values map[string]int64
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]int64)}
}

func (c *fakeCache) GetInt64(_ context.Context, key string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *fakeCache) SetInt64(_ context.Context, key string, value int64, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}
