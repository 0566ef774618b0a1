package services

import (
	"context"
	"testing"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type applicationFixture struct {
	store   *store
	svc     ApplicationService
	student auth.Student
	other   auth.Student
	owner   auth.Company
	rival   auth.Company
	job     *models.JobPosting
}

func newApplicationFixture() *applicationFixture {
	st := newStore()
	f := &applicationFixture{
		store:   st,
		student: st.addStudent("s1-user", "s1-profile", "Aida", "Nur"),
		other:   st.addStudent("s2-user", "s2-profile", "Timur", "Ali"),
		owner:   st.addCompany("c1-user", "c1-profile", "Kaspi"),
		rival:   st.addCompany("c2-user", "c2-profile", "Halyk"),
	}
	f.job = st.addJob("c1-profile", models.JobStatusActive)
	f.svc = NewApplicationService(fakeApplicationRepo{st}, fakeJobRepo{st}, fakeNotificationRepo{st}, nil, nil)
	return f
}

func (f *applicationFixture) apply(t *testing.T) *dto.ApplicationResponse {
	t.Helper()
	resp, err := f.svc.Apply(context.Background(), nil, f.student, &dto.CreateApplicationRequest{JobID: f.job.ID, CoverLetter: " hello "})
	require.NoError(t, err)
	return resp
}

func TestApply_SecondAttemptIsConflict(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()

	first := f.apply(t)
	assert.Equal(t, models.ApplicationStatusPending, first.Status)
	assert.Equal(t, "hello", first.CoverLetter)
	require.NotNil(t, first.Job)
	assert.Equal(t, f.job.ID, first.Job.ID)

	_, err := f.svc.Apply(ctx, nil, f.student, &dto.CreateApplicationRequest{JobID: f.job.ID})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)

	assert.Len(t, f.store.apps, 1)
}

func TestApply_NotifiesCompany(t *testing.T) {
	f := newApplicationFixture()
	f.apply(t)

	notes := f.store.notificationsFor(f.owner.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationNewApplication, notes[0].Type)
	assert.Contains(t, notes[0].Title, "Aida Nur")
}

func TestApply_RoleExclusivity(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()
	req := &dto.CreateApplicationRequest{JobID: f.job.ID}

	tests := []struct {
		name  string
		actor auth.Actor
	}{
		{"company", f.owner},
		{"admin", auth.Admin{ID: "admin"}},
		{"student without profile", auth.Student{ID: "s9-user"}},
		{"anonymous", auth.Anonymous{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Apply(ctx, nil, tt.actor, req)
			assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied), "got %v", err)
		})
	}
	assert.Empty(t, f.store.apps)
}

func TestApply_JobState(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()

	closed := f.store.addJob("c1-profile", models.JobStatusClosed)
	_, err := f.svc.Apply(ctx, nil, f.student, &dto.CreateApplicationRequest{JobID: closed.ID})
	assert.ErrorIs(t, err, apperrors.ErrJobNotActive)

	draft := f.store.addJob("c1-profile", models.JobStatusDraft)
	_, err = f.svc.Apply(ctx, nil, f.student, &dto.CreateApplicationRequest{JobID: draft.ID})
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	_, err = f.svc.Apply(ctx, nil, f.student, &dto.CreateApplicationRequest{JobID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestUpdateStatus_OtherCompanyDenied(t *testing.T) {
	f := newApplicationFixture()
	app := f.apply(t)

	_, err := f.svc.UpdateStatus(context.Background(), nil, f.rival, app.ID,
		&dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusAccepted})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))
	assert.Equal(t, models.ApplicationStatusPending, f.store.apps[app.ID].Status)
}

func TestUpdateStatus_StudentDenied(t *testing.T) {
	f := newApplicationFixture()
	app := f.apply(t)

	_, err := f.svc.UpdateStatus(context.Background(), nil, f.student, app.ID,
		&dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusAccepted})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()
	app := f.apply(t)

	notes := "strong profile"
	resp, err := f.svc.UpdateStatus(ctx, nil, f.owner, app.ID,
		&dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusRejected, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, resp.Status)
	assert.Equal(t, "strong profile", resp.Notes)
	assert.Equal(t, models.ApplicationStatusRejected, f.store.apps[app.ID].Status)

	studentNotes := f.store.notificationsFor(f.student.ID)
	require.Len(t, studentNotes, 1)
	assert.Equal(t, models.NotificationApplicationStatus, studentNotes[0].Type)

	_, err = f.svc.UpdateStatus(ctx, nil, f.owner, app.ID,
		&dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusPending})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))

	_, err = f.svc.UpdateStatus(ctx, nil, f.owner, app.ID,
		&dto.UpdateApplicationStatusRequest{Status: "hired"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newApplicationFixture()
	app := f.apply(t)

	resp, err := f.svc.UpdateStatus(context.Background(), nil, f.owner, app.ID,
		&dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusPending})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, resp.Status)
	assert.Empty(t, f.store.notificationsFor(f.student.ID))
}

func TestGetApplication_Visibility(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()
	app := f.apply(t)

	for _, actor := range []auth.Actor{f.student, f.owner, auth.Admin{ID: "admin"}} {
		resp, err := f.svc.GetApplication(ctx, nil, actor, app.ID)
		require.NoError(t, err)
		assert.Equal(t, app.ID, resp.ID)
	}

	for _, actor := range []auth.Actor{f.other, f.rival} {
		_, err := f.svc.GetApplication(ctx, nil, actor, app.ID)
		assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	}
}

func TestListApplications_Scoped(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()
	f.apply(t)
	_, err := f.svc.Apply(ctx, nil, f.other, &dto.CreateApplicationRequest{JobID: f.job.ID})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor auth.Actor
		want  int64
	}{
		{"student sees own", f.student, 1},
		{"owner company sees all on its postings", f.owner, 2},
		{"other company sees nothing", f.rival, 0},
		{"admin sees all", auth.Admin{ID: "admin"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.ListApplications(ctx, nil, tt.actor, &dto.ApplicationListQuery{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Total)
		})
	}

	_, err = f.svc.ListApplications(ctx, nil, auth.Anonymous{}, &dto.ApplicationListQuery{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))
}

func TestWithdraw(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()
	app := f.apply(t)

	err := f.svc.Withdraw(ctx, nil, f.other, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	err = f.svc.Withdraw(ctx, nil, f.owner, app.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	require.NoError(t, f.svc.Withdraw(ctx, nil, f.student, app.ID))
	assert.Empty(t, f.store.apps)

	companyNotes := f.store.notificationsFor(f.owner.ID)
	require.Len(t, companyNotes, 2)
	assert.Equal(t, models.NotificationApplicationWithdraw, companyNotes[1].Type)

	// после отзыва можно откликнуться снова
	f.apply(t)
}

// staleApplicationRepo отдает снимок, прочитанный до параллельного запроса
type staleApplicationRepo struct {
	fakeApplicationRepo
	snapshot *models.JobApplication
}

func (r staleApplicationRepo) FindByID(db *gorm.DB, id string) (*models.JobApplication, error) {
	cp := *r.snapshot
	return &cp, nil
}

func TestUpdateStatus_ConcurrentChangeIsConflict(t *testing.T) {
	f := newApplicationFixture()
	ctx := context.Background()
	app := f.apply(t)

	snapshot, err := fakeApplicationRepo{f.store}.FindByID(nil, app.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusPending, snapshot.Status)

	// первый запрос успел перевести отклик в терминальный статус
	_, err = f.svc.UpdateStatus(ctx, nil, f.owner, app.ID, &dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusAccepted})
	require.NoError(t, err)

	stale := NewApplicationService(staleApplicationRepo{fakeApplicationRepo{f.store}, snapshot}, fakeJobRepo{f.store}, fakeNotificationRepo{f.store}, nil, nil)
	_, err = stale.UpdateStatus(ctx, nil, f.owner, app.ID, &dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusReviewing})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	current, err := f.svc.GetApplication(ctx, nil, f.owner, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, current.Status)
	assert.Len(t, f.store.notificationsFor(f.student.ID), 1)
}
