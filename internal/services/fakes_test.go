package services

import (
	"sort"
	"sync"
	"time"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// store - общее in-memory хранилище для фейковых репозиториев.
// Репозитории возвращают копии, как это делала бы БД.
type store struct {
	mu            sync.Mutex
	clock         time.Time
	users         map[string]*models.User
	students      map[string]*models.StudentProfile
	companies     map[string]*models.CompanyProfile
	jobs          map[string]*models.JobPosting
	apps          map[string]*models.JobApplication
	posts         map[string]*models.Post
	notifications []*models.Notification
	tokens        map[string]*models.RefreshToken
}

func newStore() *store {
	return &store{
		clock:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		users:     map[string]*models.User{},
		students:  map[string]*models.StudentProfile{},
		companies: map[string]*models.CompanyProfile{},
		jobs:      map[string]*models.JobPosting{},
		apps:      map[string]*models.JobApplication{},
		posts:     map[string]*models.Post{},
		tokens:    map[string]*models.RefreshToken{},
	}
}

// tick возвращает монотонно растущее время создания
func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *store) stamp(m *models.BaseModel) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = s.tick()
	m.UpdatedAt = m.CreatedAt
}

func (s *store) addStudent(userID, profileID, first, last string) auth.Student {
	u := &models.User{FirstName: first, LastName: last, Email: userID + "@uni.edu", Role: models.UserRoleStudent, IsActive: true}
	u.ID = userID
	p := &models.StudentProfile{UserID: userID, University: "KBTU", User: u}
	p.ID = profileID
	u.StudentProfile = p
	s.users[userID] = u
	s.students[profileID] = p
	return auth.Student{ID: userID, ProfileID: profileID}
}

func (s *store) addCompany(userID, profileID, name string) auth.Company {
	u := &models.User{FirstName: name, LastName: "HR", Email: userID + "@corp.com", Role: models.UserRoleCompany, IsActive: true}
	u.ID = userID
	p := &models.CompanyProfile{UserID: userID, CompanyName: name, User: u}
	p.ID = profileID
	u.CompanyProfile = p
	s.users[userID] = u
	s.companies[profileID] = p
	return auth.Company{ID: userID, ProfileID: profileID}
}

func (s *store) addJob(companyProfileID string, status models.JobStatus) *models.JobPosting {
	j := &models.JobPosting{CompanyID: companyProfileID, Title: "Backend intern", Location: "Almaty", JobType: models.JobTypeInternship, Status: status}
	s.stamp(&j.BaseModel)
	s.jobs[j.ID] = j
	return j
}

func (s *store) notificationsFor(userID string) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// =======================
// Вакансии
// =======================

type fakeJobRepo struct{ *store }

func (r fakeJobRepo) load(j *models.JobPosting) *models.JobPosting {
	cp := *j
	cp.Company = r.companies[j.CompanyID]
	for _, a := range r.apps {
		if a.JobID == j.ID {
			cp.ApplicationsCount++
		}
	}
	return &cp
}

func (r fakeJobRepo) Create(db *gorm.DB, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp(&job.BaseModel)
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r fakeJobRepo) FindByID(db *gorm.DB, id string) (*models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	return r.load(j), nil
}

func (r fakeJobRepo) List(db *gorm.DB, scope auth.Scope, filter repositories.JobFilter, page repositories.Pagination) ([]models.JobPosting, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.JobPosting
	for _, j := range r.jobs {
		loaded := r.load(j)
		if scope.ActiveOnly && !loaded.IsActive() {
			continue
		}
		if scope.OwnerID != "" && (loaded.Company == nil || loaded.Company.UserID != scope.OwnerID) {
			continue
		}
		out = append(out, *loaded)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r fakeJobRepo) ListActive(db *gorm.DB, limit int) ([]models.JobPosting, error) {
	jobs, _, err := r.List(db, auth.Scope{ActiveOnly: true}, repositories.JobFilter{}, repositories.Pagination{})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	for i := range jobs {
		if jobs[i].Company != nil {
			jobs[i].Company.User = r.users[jobs[i].Company.UserID]
		}
	}
	return jobs, err
}

func (r fakeJobRepo) Update(db *gorm.DB, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return repositories.ErrJobNotFound
	}
	cp := *job
	cp.Company = nil
	r.jobs[job.ID] = &cp
	return nil
}

func (r fakeJobRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return repositories.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r fakeJobRepo) CloseExpired(db *gorm.DB, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, j := range r.jobs {
		if j.IsActive() && j.Deadline != nil && j.Deadline.Before(now) {
			j.Status = models.JobStatusClosed
			n++
		}
	}
	return n, nil
}

// =======================
// Отклики
// =======================

type fakeApplicationRepo struct{ *store }

func (r fakeApplicationRepo) load(a *models.JobApplication) *models.JobApplication {
	cp := *a
	cp.Student = r.students[a.StudentID]
	if j, ok := r.jobs[a.JobID]; ok {
		job := *j
		job.Company = r.companies[j.CompanyID]
		cp.Job = &job
	}
	return &cp
}

func (r fakeApplicationRepo) Create(db *gorm.DB, app *models.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.StudentID == app.StudentID && existing.JobID == app.JobID {
			return repositories.ErrApplicationAlreadyExists
		}
	}
	r.stamp(&app.BaseModel)
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r fakeApplicationRepo) FindByID(db *gorm.DB, id string) (*models.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	return r.load(a), nil
}

func (r fakeApplicationRepo) List(db *gorm.DB, scope auth.Scope, filter repositories.ApplicationFilter, page repositories.Pagination) ([]models.JobApplication, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.JobApplication
	for _, a := range r.apps {
		loaded := r.load(a)
		if scope.OwnerID != "" && (loaded.Student == nil || loaded.Student.UserID != scope.OwnerID) {
			continue
		}
		if scope.JobOwnerID != "" && (loaded.Job == nil || loaded.Job.Company == nil || loaded.Job.Company.UserID != scope.JobOwnerID) {
			continue
		}
		if filter.JobID != "" && loaded.JobID != filter.JobID {
			continue
		}
		if filter.Status != "" && loaded.Status != filter.Status {
			continue
		}
		out = append(out, *loaded)
	}
	return out, int64(len(out)), nil
}

func (r fakeApplicationRepo) UpdateStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	if a.Status != from {
		return repositories.ErrApplicationStatusChanged
	}
	a.Status = to
	if notes != nil {
		a.Notes = *notes
	}
	return nil
}

func (r fakeApplicationRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return repositories.ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}

// =======================
// Уведомления
// =======================

type fakeNotificationRepo struct{ *store }

func (r fakeNotificationRepo) CreateNotification(db *gorm.DB, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp(&n.BaseModel)
	r.notifications = append(r.notifications, n)
	return nil
}

func (r fakeNotificationRepo) FindUserNotifications(db *gorm.DB, userID string, criteria repositories.NotificationCriteria, page repositories.Pagination) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notificationsFor(userID) {
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r fakeNotificationRepo) MarkAsRead(db *gorm.DB, userID, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r fakeNotificationRepo) MarkAllAsRead(db *gorm.DB, userID string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (r fakeNotificationRepo) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	for _, n := range r.notificationsFor(userID) {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r fakeNotificationRepo) add(userID string, typ models.NotificationType, title string) (*models.Notification, error) {
	n := &models.Notification{UserID: userID, Type: typ, Title: title}
	return n, r.CreateNotification(nil, n)
}

func (r fakeNotificationRepo) CreateNewApplicationNotification(db *gorm.DB, companyUserID string, app *models.JobApplication, job *models.JobPosting, studentName string) (*models.Notification, error) {
	return r.add(companyUserID, models.NotificationNewApplication, studentName+" applied to "+job.Title)
}

func (r fakeNotificationRepo) CreateApplicationStatusNotification(db *gorm.DB, studentUserID string, app *models.JobApplication, jobTitle string) (*models.Notification, error) {
	return r.add(studentUserID, models.NotificationApplicationStatus, string(app.Status))
}

func (r fakeNotificationRepo) CreateApplicationWithdrawnNotification(db *gorm.DB, companyUserID string, app *models.JobApplication, jobTitle, studentName string) (*models.Notification, error) {
	return r.add(companyUserID, models.NotificationApplicationWithdraw, studentName+" withdrew")
}

// =======================
// Посты
// =======================

type fakePostRepo struct{ *store }

func (r fakePostRepo) load(p *models.Post) *models.Post {
	cp := *p
	cp.User = r.users[p.UserID]
	return &cp
}

func (r fakePostRepo) Create(db *gorm.DB, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp(&post.BaseModel)
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r fakePostRepo) FindByID(db *gorm.DB, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return r.load(p), nil
}

func (r fakePostRepo) ListRecent(db *gorm.DB, limit int) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		out = append(out, *r.load(p))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakePostRepo) ListByUser(db *gorm.DB, userID string, page repositories.Pagination) ([]models.Post, int64, error) {
	posts, _ := r.ListRecent(db, len(r.posts))
	var out []models.Post
	for _, p := range posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r fakePostRepo) Update(db *gorm.DB, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[post.ID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Content = post.Content
	p.Image = post.Image
	return nil
}

func (r fakePostRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

// =======================
// Пользователи и токены
// =======================

type fakeUserRepo struct{ *store }

func (r fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp(&user.BaseModel)
	r.users[user.ID] = user
	return nil
}

func (r fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
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

func (r fakeUserRepo) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	_, err := r.FindByEmail(db, email)
	return err == nil, nil
}

func (r fakeUserRepo) UpdateContact(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.FirstName, u.LastName, u.Phone = user.FirstName, user.LastName, user.Phone
	return nil
}

func (r fakeUserRepo) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeRefreshTokenRepo struct{ *store }

func (r fakeRefreshTokenRepo) Create(db *gorm.DB, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp(&token.BaseModel)
	r.tokens[token.Token] = token
	return nil
}

func (r fakeRefreshTokenRepo) FindValid(db *gorm.DB, token string, now time.Time) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || !t.ExpiresAt.After(now) {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	return t, nil
}

func (r fakeRefreshTokenRepo) DeleteByToken(db *gorm.DB, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return repositories.ErrRefreshTokenNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r fakeRefreshTokenRepo) DeleteByUserID(db *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r fakeRefreshTokenRepo) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if !t.ExpiresAt.After(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// =======================
// Публикация ленты
// =======================

type recordingPublisher struct {
	mu    sync.Mutex
	items []algorithms.FeedItem
}

func (p *recordingPublisher) Publish(item algorithms.FeedItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, item)
}

func (p *recordingPublisher) published() []algorithms.FeedItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]algorithms.FeedItem(nil), p.items...)
}

// =======================
// Профили
// =======================

type fakeProfileRepo struct{ *store }

func (r fakeProfileRepo) CreateStudentProfile(db *gorm.DB, p *models.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.students {
		if existing.UserID == p.UserID {
			return repositories.ErrProfileAlreadyExists
		}
	}
	r.stamp(&p.BaseModel)
	cp := *p
	r.students[p.ID] = &cp
	return nil
}

func (r fakeProfileRepo) FindStudentProfileByID(db *gorm.DB, id string) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.students[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	cp.User = r.users[p.UserID]
	return &cp, nil
}

func (r fakeProfileRepo) FindStudentProfileByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error) {
	r.mu.Lock()
	var id string
	for _, p := range r.students {
		if p.UserID == userID {
			id = p.ID
		}
	}
	r.mu.Unlock()
	return r.FindStudentProfileByID(db, id)
}

func (r fakeProfileRepo) ListStudentProfiles(db *gorm.DB, scope auth.Scope, filter repositories.ProfileFilter, page repositories.Pagination) ([]models.StudentProfile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StudentProfile
	for _, p := range r.students {
		if scope.OwnerID != "" && p.UserID != scope.OwnerID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r fakeProfileRepo) UpdateStudentProfile(db *gorm.DB, p *models.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.students[p.ID] = &cp
	return nil
}

func (r fakeProfileRepo) DeleteStudentProfile(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return repositories.ErrProfileNotFound
	}
	delete(r.students, id)
	return nil
}

func (r fakeProfileRepo) CreateCompanyProfile(db *gorm.DB, p *models.CompanyProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if existing.UserID == p.UserID {
			return repositories.ErrProfileAlreadyExists
		}
	}
	r.stamp(&p.BaseModel)
	cp := *p
	r.companies[p.ID] = &cp
	return nil
}

func (r fakeProfileRepo) FindCompanyProfileByID(db *gorm.DB, id string) (*models.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.companies[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	cp.User = r.users[p.UserID]
	return &cp, nil
}

func (r fakeProfileRepo) FindCompanyProfileByUserID(db *gorm.DB, userID string) (*models.CompanyProfile, error) {
	r.mu.Lock()
	var id string
	for _, p := range r.companies {
		if p.UserID == userID {
			id = p.ID
		}
	}
	r.mu.Unlock()
	return r.FindCompanyProfileByID(db, id)
}

func (r fakeProfileRepo) ListCompanyProfiles(db *gorm.DB, scope auth.Scope, filter repositories.ProfileFilter, page repositories.Pagination) ([]models.CompanyProfile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CompanyProfile
	for _, p := range r.companies {
		if scope.OwnerID != "" && p.UserID != scope.OwnerID {
			continue
		}
		if filter.Verified != nil && p.IsVerified != *filter.Verified {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r fakeProfileRepo) UpdateCompanyProfile(db *gorm.DB, p *models.CompanyProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	verified := r.companies[p.ID].IsVerified
	cp := *p
	cp.IsVerified = verified
	r.companies[p.ID] = &cp
	return nil
}

func (r fakeProfileRepo) SetCompanyVerified(db *gorm.DB, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.companies[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.IsVerified = verified
	return nil
}

func (r fakeProfileRepo) DeleteCompanyProfile(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return repositories.ErrProfileNotFound
	}
	delete(r.companies, id)
	return nil
}
