package auth

import "campusjobs_backend/internal/models"

// Actor - участник запроса: аноним, студент, компания или администратор.
// Набор реализаций закрыт (isActor не экспортируется).
type Actor interface {
	UserID() string
	Role() models.UserRole
	isActor()
}

// Anonymous - неаутентифицированный запрос
type Anonymous struct{}

// Student - пользователь с ролью student. ProfileID пуст, пока профиль не создан.
type Student struct {
	ID        string
	ProfileID string
}

// Company - пользователь с ролью company. ProfileID пуст, пока профиль не создан.
type Company struct {
	ID        string
	ProfileID string
}

type Admin struct {
	ID string
}

func (Anonymous) UserID() string        { return "" }
func (Anonymous) Role() models.UserRole { return "" }
func (Anonymous) isActor()              {}
func (s Student) UserID() string        { return s.ID }
func (Student) Role() models.UserRole   { return models.UserRoleStudent }
func (Student) isActor()                {}
func (c Company) UserID() string        { return c.ID }
func (Company) Role() models.UserRole   { return models.UserRoleCompany }
func (Company) isActor()                {}
func (a Admin) UserID() string          { return a.ID }
func (Admin) Role() models.UserRole     { return models.UserRoleAdmin }
func (Admin) isActor()                  {}

// IsAnonymous сообщает, что запрос не аутентифицирован
func IsAnonymous(a Actor) bool {
	if a == nil {
		return true
	}
	_, ok := a.(Anonymous)
	return ok
}

// ActorFromUser строит Actor по пользователю с подгруженными профилями.
// nil-пользователь дает Anonymous.
func ActorFromUser(u *models.User) Actor {
	if u == nil {
		return Anonymous{}
	}
	switch u.Role {
	case models.UserRoleStudent:
		s := Student{ID: u.ID}
		if u.StudentProfile != nil {
			s.ProfileID = u.StudentProfile.ID
		}
		return s
	case models.UserRoleCompany:
		c := Company{ID: u.ID}
		if u.CompanyProfile != nil {
			c.ProfileID = u.CompanyProfile.ID
		}
		return c
	case models.UserRoleAdmin:
		return Admin{ID: u.ID}
	}
	return Anonymous{}
}
