package algorithms

import (
	"sort"
	"time"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
)

type ItemKind string

const (
	KindPost ItemKind = "post"
	KindJob  ItemKind = "job"
)

// MediaResolver превращает ссылку из хранилища в абсолютный URL.
// Пустая ссылка дает nil.
type MediaResolver func(ref string) *string

type FeedAuthor struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
	Avatar *string         `json:"avatar"`
}

type JobSummary struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	CompanyName string           `json:"company_name"`
	Location    string           `json:"location"`
	JobType     models.JobType   `json:"job_type"`
	SalaryMin   *float64         `json:"salary_min,omitempty"`
	SalaryMax   *float64         `json:"salary_max,omitempty"`
	Status      models.JobStatus `json:"status"`
	Deadline    *time.Time       `json:"deadline,omitempty"`
}

type FeedItem struct {
	Kind      ItemKind    `json:"type"`
	ID        string      `json:"id"`
	Author    FeedAuthor  `json:"author"`
	Content   string      `json:"content"`
	Image     *string     `json:"image"`
	Job       *JobSummary `json:"job,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	CanDelete bool        `json:"can_delete"`
}

// ComposeFeed объединяет посты и активные вакансии в одну ленту.
//
// Посты ожидаются с подгруженным User (и его профилем), вакансии - с Company.User.
// Сортировка: created_at по убыванию, при равенстве пост идет раньше вакансии,
// затем по id по убыванию. Неактивные вакансии пропускаются.
func ComposeFeed(posts []models.Post, jobs []models.JobPosting, viewer auth.Actor, resolve MediaResolver) []FeedItem {
	if resolve == nil {
		resolve = func(string) *string { return nil }
	}

	items := make([]FeedItem, 0, len(posts)+len(jobs))

	for i := range posts {
		items = append(items, postItem(&posts[i], viewer, resolve))
	}
	for i := range jobs {
		if !jobs[i].IsActive() {
			continue
		}
		items = append(items, jobItem(&jobs[i], viewer, resolve))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return itemLess(items[i], items[j])
	})
	return items
}

func itemLess(a, b FeedItem) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if a.Kind != b.Kind {
		return a.Kind == KindPost
	}
	return a.ID > b.ID
}

func postItem(p *models.Post, viewer auth.Actor, resolve MediaResolver) FeedItem {
	item := FeedItem{
		Kind:      KindPost,
		ID:        p.ID,
		Content:   p.Content,
		Image:     resolve(p.Image),
		CreatedAt: p.CreatedAt,
		Author:    FeedAuthor{ID: p.UserID},
	}
	if u := p.User; u != nil {
		item.Author.Name = u.DisplayName()
		item.Author.Role = u.Role
		item.Author.Avatar = resolve(avatarRef(u))
	}

	res := auth.Resource{Kind: auth.KindPost, OwnerID: p.UserID}
	item.CanDelete = auth.Evaluate(viewer, auth.ActionDelete, res).Allowed()
	return item
}

func jobItem(j *models.JobPosting, viewer auth.Actor, resolve MediaResolver) FeedItem {
	item := FeedItem{
		Kind:      KindJob,
		ID:        j.ID,
		Content:   j.Description,
		Image:     nil,
		CreatedAt: j.CreatedAt,
		Author:    FeedAuthor{Role: models.UserRoleCompany},
		Job: &JobSummary{
			ID:        j.ID,
			Title:     j.Title,
			Location:  j.Location,
			JobType:   j.JobType,
			SalaryMin: j.SalaryMin,
			SalaryMax: j.SalaryMax,
			Status:    j.Status,
			Deadline:  j.Deadline,
		},
	}
	if c := j.Company; c != nil {
		item.Job.CompanyName = c.CompanyName
		item.Author.ID = c.UserID
		item.Author.Avatar = resolve(c.Logo)
		if c.User != nil {
			item.Author.Name = c.User.DisplayName()
		}
	}

	res := auth.JobResource(j)
	item.CanDelete = auth.Evaluate(viewer, auth.ActionDelete, res).Allowed()
	return item
}

// avatarRef - аватар автора из профиля его роли
func avatarRef(u *models.User) string {
	switch u.Role {
	case models.UserRoleStudent:
		if u.StudentProfile != nil {
			return u.StudentProfile.ProfilePicture
		}
	case models.UserRoleCompany:
		if u.CompanyProfile != nil {
			return u.CompanyProfile.Logo
		}
	}
	return ""
}
