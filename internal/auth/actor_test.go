package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campusjobs_backend/internal/models"
)

func TestActorFromUser(t *testing.T) {
	assert.Equal(t, Anonymous{}, ActorFromUser(nil))

	student := &models.User{Role: models.UserRoleStudent}
	student.ID = "u1"
	assert.Equal(t, Student{ID: "u1"}, ActorFromUser(student))

	student.StudentProfile = &models.StudentProfile{}
	student.StudentProfile.ID = "p1"
	assert.Equal(t, Student{ID: "u1", ProfileID: "p1"}, ActorFromUser(student))

	company := &models.User{Role: models.UserRoleCompany, CompanyProfile: &models.CompanyProfile{}}
	company.ID = "u2"
	company.CompanyProfile.ID = "p2"
	assert.Equal(t, Company{ID: "u2", ProfileID: "p2"}, ActorFromUser(company))

	adm := &models.User{Role: models.UserRoleAdmin}
	adm.ID = "u3"
	a := ActorFromUser(adm)
	assert.Equal(t, Admin{ID: "u3"}, a)
	assert.Equal(t, models.UserRoleAdmin, a.Role())
	assert.False(t, IsAnonymous(a))
	assert.True(t, IsAnonymous(nil))
}
