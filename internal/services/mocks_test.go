package services

import (
	"sort"
	"sync"
	"time"

	"jobconnect_backend/internal/models"
	chatmodels "jobconnect_backend/internal/models/chat"
	"jobconnect_backend/internal/repositories"

	"github.com/google/uuid"
)

// In-memory реализации репозиториев для юнит-тестов сервисов.
// Повторяют контракт gorm-реализаций, включая sentinel-ошибки.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) FindByPhone(phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone != nil && *u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) FindByEmailOrPhone(email, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if (email != "" && u.Email == email) || (phone != "" && u.Phone != nil && *u.Phone == phone) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) FindByRefreshTokenHash(hash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshTokenHash != "" && u.RefreshTokenHash == hash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
		if user.Phone != nil && u.Phone != nil && *u.Phone == *user.Phone {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) mutate(userID string, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (r *memUserRepo) UpdateRefreshTokenHash(userID, hash string) error {
	return r.mutate(userID, func(u *models.User) { u.RefreshTokenHash = hash })
}

func (r *memUserRepo) IncrementFailedLogins(userID string) error {
	return r.mutate(userID, func(u *models.User) { u.FailedLoginAttempts++ })
}

func (r *memUserRepo) ResetFailedLogins(userID string) error {
	return r.mutate(userID, func(u *models.User) { u.FailedLoginAttempts = 0 })
}

func (r *memUserRepo) UpdateRole(userID string, role models.UserRole) error {
	return r.mutate(userID, func(u *models.User) { u.Role = &role })
}

func (r *memUserRepo) VerifyEmail(userID string) error {
	return r.mutate(userID, func(u *models.User) {
		u.IsEmailVerified = true
		u.EmailVerificationCode = ""
		u.EmailCodeExpiresAt = nil
	})
}

func (r *memUserRepo) VerifyPhone(userID string) error {
	return r.mutate(userID, func(u *models.User) {
		u.IsPhoneVerified = true
		u.PhoneVerificationCode = ""
		u.PhoneCodeExpiresAt = nil
	})
}

func (r *memUserRepo) UpdatePassword(userID, passwordHash string) error {
	return r.mutate(userID, func(u *models.User) {
		u.PasswordHash = &passwordHash
		u.ResetCode = ""
		u.ResetCodeExpiresAt = nil
	})
}

func (r *memUserRepo) ClearExpiredCodes() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.users {
		if u.EmailCodeExpiresAt != nil && u.EmailCodeExpiresAt.Before(now) {
			u.EmailVerificationCode = ""
			u.EmailCodeExpiresAt = nil
		}
		if u.PhoneCodeExpiresAt != nil && u.PhoneCodeExpiresAt.Before(now) {
			u.PhoneVerificationCode = ""
			u.PhoneCodeExpiresAt = nil
		}
		if u.ResetCodeExpiresAt != nil && u.ResetCodeExpiresAt.Before(now) {
			u.ResetCode = ""
			u.ResetCodeExpiresAt = nil
		}
	}
	return nil
}

// get возвращает живой указатель для проверок в тестах
func (r *memUserRepo) get(userID string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userID]
}

type memChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*chatmodels.Chat
	messages map[string][]chatmodels.Message // chatID -> хронологический порядок
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{
		chats:    make(map[string]*chatmodels.Chat),
		messages: make(map[string][]chatmodels.Message),
	}
}

func (r *memChatRepo) FindOrCreate(itemID, userA, userB string) (*chatmodels.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pairKey := chatmodels.PairKey(itemID, userA, userB)
	for _, c := range r.chats {
		if c.PairKey == pairKey {
			cp := *c
			return &cp, nil
		}
	}

	now := time.Now()
	c := &chatmodels.Chat{
		ID:      uuid.NewString(),
		ItemID:  itemID,
		PairKey: pairKey,
		Participants: []chatmodels.ChatParticipant{
			{ID: uuid.NewString(), UserID: userA, JoinedAt: now},
			{ID: uuid.NewString(), UserID: userB, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Participants[0].ChatID = c.ID
	c.Participants[1].ChatID = c.ID
	r.chats[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *memChatRepo) FindByID(chatID string) (*chatmodels.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chats[chatID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repositories.ErrChatNotFound
}

func (r *memChatRepo) FindByUser(userID string) ([]chatmodels.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chatmodels.Chat
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memChatRepo) CreateMessage(msg *chatmodels.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[msg.ChatID]
	if !ok {
		return repositories.ErrChatNotFound
	}

	now := time.Now()
	msg.ID = uuid.NewString()
	msg.CreatedAt = now
	// Отправитель сразу в read-наборе своего сообщения
	msg.Reads = []chatmodels.MessageRead{
		{ID: uuid.NewString(), MessageID: msg.ID, UserID: msg.SenderID, ReadAt: now},
	}
	r.messages[msg.ChatID] = append(r.messages[msg.ChatID], *msg)

	c.LastMessageAt = &now
	c.UpdatedAt = now
	return nil
}

func (r *memChatRepo) FindMessages(chatID string, page, pageSize int) ([]chatmodels.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.messages[chatID]
	// Новые первыми, как в gorm-реализации
	reversed := make([]chatmodels.Message, len(all))
	for i, m := range all {
		reversed[len(all)-1-i] = m
	}

	start := (page - 1) * pageSize
	if start >= len(reversed) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[start:end], nil
}

func (r *memChatRepo) LastMessage(chatID string) (*chatmodels.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.messages[chatID]
	if len(all) == 0 {
		return nil, nil
	}
	cp := all[len(all)-1]
	return &cp, nil
}

func (r *memChatRepo) MarkRead(chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.messages[chatID]
	for i := range msgs {
		m := &msgs[i]
		if m.SenderID == userID {
			continue
		}
		already := false
		for _, rd := range m.Reads {
			if rd.UserID == userID {
				already = true
				break
			}
		}
		if !already {
			m.Reads = append(m.Reads, chatmodels.MessageRead{
				ID: uuid.NewString(), MessageID: m.ID, UserID: userID, ReadAt: time.Now(),
			})
		}
	}
	return nil
}

func (r *memChatRepo) UnreadCounts(userID string) ([]repositories.ChatUnread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []repositories.ChatUnread
	for chatID, c := range r.chats {
		if !c.HasParticipant(userID) {
			continue
		}
		var count int64
		for _, m := range r.messages[chatID] {
			if m.SenderID == userID {
				continue
			}
			read := false
			for _, rd := range m.Reads {
				if rd.UserID == userID {
					read = true
					break
				}
			}
			if !read {
				count++
			}
		}
		if count > 0 {
			out = append(out, repositories.ChatUnread{ChatID: chatID, Count: count})
		}
	}
	return out, nil
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*models.Job)}
}

func (r *memJobRepo) Create(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = uuid.NewString()
	job.CreatedAt = time.Now()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) FindByID(id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, repositories.ErrJobNotFound
}

func (r *memJobRepo) FindWithFilter(criteria repositories.JobFilter) ([]models.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if criteria.Industry != "" && j.Industry != criteria.Industry {
			continue
		}
		if criteria.Location != "" && j.Location != criteria.Location {
			continue
		}
		if criteria.JobType != "" && j.JobType != criteria.JobType {
			continue
		}
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (r *memJobRepo) FindByEmployer(employerID string) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if j.EmployerID == employerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *memJobRepo) IncrementApplications(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	j.Applications++
	return nil
}

func (r *memJobRepo) Delete(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[jobID]; !ok {
		return repositories.ErrJobNotFound
	}
	delete(r.jobs, jobID)
	return nil
}

type memApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]*models.Application
	jobs *memJobRepo
}

func newMemApplicationRepo(jobs *memJobRepo) *memApplicationRepo {
	return &memApplicationRepo{apps: make(map[string]*models.Application), jobs: jobs}
}

func (r *memApplicationRepo) Create(app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == app.UserID && a.JobID == app.JobID {
			return repositories.ErrApplicationExists
		}
	}
	app.ID = uuid.NewString()
	app.CreatedAt = time.Now()
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *memApplicationRepo) FindByID(id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	cp := *a
	// Preload("Job")
	if job, err := r.jobs.FindByID(a.JobID); err == nil {
		cp.Job = job
	}
	return &cp, nil
}

func (r *memApplicationRepo) FindByUser(userID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) FindByJob(jobID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) UpdateStatus(id string, status models.ApplicationStatus, employerMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Status = status
	a.EmployerMessage = employerMessage
	return nil
}

type memItemRepo struct {
	mu    sync.Mutex
	items map[string]*models.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]*models.Item)}
}

func (r *memItemRepo) Create(item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) FindByID(id string) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it, ok := r.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, repositories.ErrItemNotFound
}

func (r *memItemRepo) FindAll(search string, page, pageSize int) ([]models.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Item
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (r *memItemRepo) FindBySeller(sellerID string) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Item
	for _, it := range r.items {
		if it.SellerID == sellerID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *memItemRepo) Delete(itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itemID]; !ok {
		return repositories.ErrItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

// fakeEmail запоминает отправленные письма
type fakeEmail struct {
	mu   sync.Mutex
	sent []fakeMessage
}

type fakeMessage struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeEmail) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, fakeMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeEmail) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeSMS запоминает отправленные SMS
type fakeSMS struct {
	mu   sync.Mutex
	sent []fakeMessage
}

func (f *fakeSMS) Send(to, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, fakeMessage{To: to, Body: text})
	return nil
}

func (f *fakeSMS) last() (fakeMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return fakeMessage{}, false
	}
	return f.sent[len(f.sent)-1], true
}

// recordingBroadcaster копит события чата
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	ChatID  string
	Event   string
	Payload interface{}
}

func (b *recordingBroadcaster) BroadcastToChat(chatID, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{ChatID: chatID, Event: event, Payload: payload})
}

func (b *recordingBroadcaster) all() []broadcastEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]broadcastEvent(nil), b.events...)
}

var (
	_ repositories.UserRepository        = (*memUserRepo)(nil)
	_ repositories.ChatRepository        = (*memChatRepo)(nil)
	_ repositories.JobRepository         = (*memJobRepo)(nil)
	_ repositories.ApplicationRepository = (*memApplicationRepo)(nil)
	_ repositories.ItemRepository        = (*memItemRepo)(nil)
)
