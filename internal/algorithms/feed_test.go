package algorithms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func testResolver(ref string) *string {
	if ref == "" {
		return nil
	}
	url := "https://cdn.test/" + ref
	return &url
}

func newPost(id, userID string, created time.Time) models.Post {
	p := models.Post{UserID: userID, Content: "post " + id}
	p.ID = id
	p.CreatedAt = created
	p.User = &models.User{FirstName: "Ann", LastName: "Lee", Role: models.UserRoleStudent,
		StudentProfile: &models.StudentProfile{ProfilePicture: "avatars/ann.jpg"}}
	p.User.ID = userID
	return p
}

func newJob(id, companyUserID string, status models.JobStatus, created time.Time) models.JobPosting {
	j := models.JobPosting{Title: "Go intern", Status: status, JobType: models.JobTypeInternship}
	j.ID = id
	j.CreatedAt = created
	j.Company = &models.CompanyProfile{UserID: companyUserID, CompanyName: "Acme", Logo: "logos/acme.png",
		User: &models.User{FirstName: "Bob", LastName: "Stone", Role: models.UserRoleCompany}}
	return j
}

func ids(items []FeedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestComposeFeed_JobAfterPostComesFirst(t *testing.T) {
	posts := []models.Post{newPost("A", "u1", at(0))}
	jobs := []models.JobPosting{newJob("B", "c1", models.JobStatusActive, at(5))}

	items := ComposeFeed(posts, jobs, auth.Student{ID: "u1"}, testResolver)

	require.Len(t, items, 2)
	assert.Equal(t, []string{"B", "A"}, ids(items))
	assert.Equal(t, KindJob, items[0].Kind)
	assert.Equal(t, KindPost, items[1].Kind)
}

func TestComposeFeed_Empty(t *testing.T) {
	items := ComposeFeed(nil, nil, auth.Anonymous{}, nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestComposeFeed_SkipsInactiveJobs(t *testing.T) {
	jobs := []models.JobPosting{
		newJob("J1", "c1", models.JobStatusActive, at(1)),
		newJob("J2", "c1", models.JobStatusDraft, at(2)),
		newJob("J3", "c1", models.JobStatusClosed, at(3)),
	}
	items := ComposeFeed(nil, jobs, auth.Student{ID: "u1"}, testResolver)
	assert.Equal(t, []string{"J1"}, ids(items))
}

func TestComposeFeed_OrderingAndTieBreak(t *testing.T) {
	posts := []models.Post{
		newPost("p1", "u1", at(0)),
		newPost("p3", "u1", at(10)),
		newPost("p2", "u1", at(10)),
	}
	jobs := []models.JobPosting{
		newJob("j9", "c1", models.JobStatusActive, at(10)),
		newJob("j1", "c1", models.JobStatusActive, at(20)),
	}

	items := ComposeFeed(posts, jobs, auth.Student{ID: "u1"}, testResolver)
	assert.Equal(t, []string{"j1", "p3", "p2", "j9", "p1"}, ids(items))

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
	}
}

func TestComposeFeed_IsDeterministic(t *testing.T) {
	posts := []models.Post{newPost("p1", "u1", at(3)), newPost("p2", "u2", at(3))}
	jobs := []models.JobPosting{newJob("j1", "c1", models.JobStatusActive, at(3))}
	reversedPosts := []models.Post{posts[1], posts[0]}

	first := ComposeFeed(posts, jobs, auth.Student{ID: "u1"}, testResolver)
	second := ComposeFeed(posts, jobs, auth.Student{ID: "u1"}, testResolver)
	third := ComposeFeed(reversedPosts, jobs, auth.Student{ID: "u1"}, testResolver)

	assert.Equal(t, first, second)
	assert.Equal(t, ids(first), ids(third))
}

func TestComposeFeed_Authors(t *testing.T) {
	posts := []models.Post{newPost("p1", "u1", at(0))}
	jobs := []models.JobPosting{newJob("j1", "c1", models.JobStatusActive, at(1))}

	items := ComposeFeed(posts, jobs, auth.Company{ID: "c1", ProfileID: "cp1"}, testResolver)
	require.Len(t, items, 2)

	job := items[0]
	assert.Equal(t, "c1", job.Author.ID)
	assert.Equal(t, "Bob Stone", job.Author.Name)
	assert.Equal(t, models.UserRoleCompany, job.Author.Role)
	require.NotNil(t, job.Author.Avatar)
	assert.Equal(t, "https://cdn.test/logos/acme.png", *job.Author.Avatar)
	require.NotNil(t, job.Job)
	assert.Equal(t, "Acme", job.Job.CompanyName)
	assert.True(t, job.CanDelete)

	post := items[1]
	assert.Equal(t, "Ann Lee", post.Author.Name)
	assert.Equal(t, models.UserRoleStudent, post.Author.Role)
	require.NotNil(t, post.Author.Avatar)
	assert.Equal(t, "https://cdn.test/avatars/ann.jpg", *post.Author.Avatar)
	assert.Nil(t, post.Image)
	assert.False(t, post.CanDelete)
}

func TestComposeFeed_AvatarAbsentWithoutProfile(t *testing.T) {
	p := newPost("p1", "u1", at(0))
	p.User.StudentProfile = nil

	items := ComposeFeed([]models.Post{p}, nil, auth.Student{ID: "u1"}, testResolver)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Author.Avatar)
	assert.True(t, items[0].CanDelete)
}
