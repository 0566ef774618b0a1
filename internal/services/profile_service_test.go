package services

import (
	"bytes"
	"context"
	"testing"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProfile_RoleAndUniqueness(t *testing.T) {
	st := newStore()
	svc := NewProfileService(fakeProfileRepo{st}, nil)
	ctx := context.Background()
	student := auth.Student{ID: "s-new"}
	company := auth.Company{ID: "c-new"}

	req := &dto.CreateStudentProfileRequest{University: " KBTU ", Career: "CS", Semester: 2}
	resp, err := svc.CreateStudentProfile(ctx, nil, student, req)
	require.NoError(t, err)
	assert.Equal(t, "KBTU", resp.University)

	_, err = svc.CreateStudentProfile(ctx, nil, student, req)
	assert.ErrorIs(t, err, apperrors.ErrProfileAlreadyExists)

	_, err = svc.CreateStudentProfile(ctx, nil, company, req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	_, err = svc.CreateCompanyProfile(ctx, nil, student, &dto.CreateCompanyProfileRequest{CompanyName: "X", Industry: models.IndustryTech, Description: "d"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))
}

func TestCompanyVerification_AdminOnly(t *testing.T) {
	st := newStore()
	owner := st.addCompany("c1-user", "c1-profile", "Kaspi")
	svc := NewProfileService(fakeProfileRepo{st}, nil)
	ctx := context.Background()

	_, err := svc.SetCompanyVerified(ctx, nil, owner, "c1-profile", true)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	name := "Kaspi Bank"
	resp, err := svc.UpdateCompanyProfile(ctx, nil, owner, "c1-profile", &dto.UpdateCompanyProfileRequest{CompanyName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Kaspi Bank", resp.CompanyName)
	assert.False(t, resp.IsVerified)

	resp, err = svc.SetCompanyVerified(ctx, nil, auth.Admin{ID: "admin"}, "c1-profile", true)
	require.NoError(t, err)
	assert.True(t, resp.IsVerified)
	assert.True(t, st.companies["c1-profile"].IsVerified)

	// повторное сохранение владельцем не сбрасывает флаг
	_, err = svc.UpdateCompanyProfile(ctx, nil, owner, "c1-profile", &dto.UpdateCompanyProfileRequest{CompanyName: &name})
	require.NoError(t, err)
	assert.True(t, st.companies["c1-profile"].IsVerified)
}

func TestStudentProfile_VisibilityAndOwnership(t *testing.T) {
	st := newStore()
	alice := st.addStudent("s1-user", "s1-profile", "Aida", "Nur")
	bob := st.addStudent("s2-user", "s2-profile", "Timur", "Ali")
	company := st.addCompany("c1-user", "c1-profile", "Kaspi")
	svc := NewProfileService(fakeProfileRepo{st}, nil)
	ctx := context.Background()

	_, err := svc.GetStudentProfile(ctx, nil, bob, "s1-profile")
	assert.ErrorIs(t, err, apperrors.ErrStudentProfileNotFound)

	got, err := svc.GetStudentProfile(ctx, nil, company, "s1-profile")
	require.NoError(t, err)
	assert.Equal(t, "KBTU", got.University)

	bio := "gopher"
	_, err = svc.UpdateStudentProfile(ctx, nil, bob, "s1-profile", &dto.UpdateStudentProfileRequest{Bio: &bio})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	mine, err := svc.GetMyStudentProfile(ctx, nil, alice)
	require.NoError(t, err)
	assert.Equal(t, "s1-profile", mine.ID)

	list, err := svc.ListStudentProfiles(ctx, nil, alice, &dto.ProfileListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	list, err = svc.ListStudentProfiles(ctx, nil, company, &dto.ProfileListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
}

func TestUploadCompanyLogo_ReplacesPrevious(t *testing.T) {
	uploads, store := newTestUploads(t, UploadConfig{MaxSize: 1 << 20, AllowedTypes: []string{"image/png"}})
	st := newStore()
	owner := st.addCompany("c1-user", "c1-profile", "Kaspi")
	svc := NewProfileService(fakeProfileRepo{st}, uploads)
	ctx := context.Background()
	data := testPNG(t, 20, 20)

	first, err := svc.UploadCompanyLogo(ctx, nil, owner, "c1-profile", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.NotNil(t, first.LogoURL)
	firstKey := st.companies["c1-profile"].Logo

	_, err = svc.UploadCompanyLogo(ctx, nil, owner, "c1-profile", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	secondKey := st.companies["c1-profile"].Logo
	assert.NotEqual(t, firstKey, secondKey)

	exists, err := store.Exists(ctx, firstKey)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.UploadCompanyLogo(ctx, nil, auth.Company{ID: "c2-user", ProfileID: "x"}, "c1-profile", bytes.NewReader(data), int64(len(data)))
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))
}
