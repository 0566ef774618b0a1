package auth

import (
	"campusjobs_backend/internal/models"
	"campusjobs_backend/pkg/apperrors"
)

type Action string

const (
	ActionList               Action = "list"
	ActionRead               Action = "read"
	ActionCreate             Action = "create"
	ActionUpdate             Action = "update"
	ActionDelete             Action = "delete"
	ActionReviewApplications Action = "review_applications"
	ActionChangeStatus       Action = "change_status"
	ActionVerify             Action = "verify"
)

type ResourceKind string

const (
	KindJobPosting     ResourceKind = "job_posting"
	KindJobApplication ResourceKind = "job_application"
	KindPost           ResourceKind = "post"
	KindStudentProfile ResourceKind = "student_profile"
	KindCompanyProfile ResourceKind = "company_profile"
	KindNotification   ResourceKind = "notification"
)

// Resource - снимок ресурса, достаточный для принятия решения.
// Для list/create заполняется только Kind.
type Resource struct {
	Kind ResourceKind
	// OwnerID - user id владельца: автор поста, владелец профиля,
	// компания-владелец вакансии, студент-автор отклика.
	OwnerID string
	// JobOwnerID - user id компании, владеющей вакансией, на которую ссылается отклик
	JobOwnerID string
	// Active - вакансия в статусе active
	Active bool
}

// JobResource строит снимок вакансии. Company должна быть подгружена.
func JobResource(job *models.JobPosting) Resource {
	res := Resource{Kind: KindJobPosting, Active: job.IsActive()}
	if job.Company != nil {
		res.OwnerID = job.Company.UserID
	}
	return res
}

// ApplicationResource строит снимок отклика. Student и Job.Company должны быть подгружены.
func ApplicationResource(app *models.JobApplication) Resource {
	res := Resource{Kind: KindJobApplication}
	if app.Student != nil {
		res.OwnerID = app.Student.UserID
	}
	if app.Job != nil {
		res.Active = app.Job.IsActive()
		if app.Job.Company != nil {
			res.JobOwnerID = app.Job.Company.UserID
		}
	}
	return res
}

type Effect int

const (
	Deny Effect = iota
	Allow
	AllowWithScope
)

func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case AllowWithScope:
		return "allow_with_scope"
	default:
		return "deny"
	}
}

// Scope - фильтр, который репозиторий накладывает на выборку
type Scope struct {
	// OwnerID - строки должны принадлежать этому пользователю
	OwnerID string
	// JobOwnerID - отклики только на вакансии компании этого пользователя
	JobOwnerID string
	// ActiveOnly - только вакансии в статусе active
	ActiveOnly bool
}

type Decision struct {
	Effect Effect
	Scope  Scope
	Reason string
	kind   ResourceKind
}

func (d Decision) Allowed() bool {
	return d.Effect != Deny
}

// Err возвращает PermissionDenied для запрещающего решения и nil иначе
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return apperrors.ErrPermissionDenied(string(d.kind), d.Reason)
}

// Evaluate принимает решение о доступе. Чистая функция: без состояния и обращений к БД.
//
// Порядок правил:
//  1. аноним может только листать активные вакансии и читать активную вакансию;
//  2. изменение и удаление - только владельцу ресурса;
//  3. листинг сужается по роли;
//  4. создавать вакансии может только компания с профилем, отклики - только студент с профилем;
//  5. просмотр откликов вакансии и смена статуса отклика - только компании-владельцу вакансии.
func Evaluate(actor Actor, action Action, res Resource) Decision {
	if IsAnonymous(actor) {
		return evaluateAnonymous(action, res)
	}

	switch action {
	case ActionUpdate, ActionDelete:
		return evaluateOwnership(actor, res)
	case ActionList:
		return evaluateList(actor, res)
	case ActionCreate:
		return evaluateCreate(actor, res)
	case ActionReviewApplications, ActionChangeStatus:
		return evaluateJobOwner(actor, res)
	case ActionRead:
		return evaluateRead(actor, res)
	case ActionVerify:
		if _, ok := actor.(Admin); ok && res.Kind == KindCompanyProfile {
			return allow(res)
		}
		return deny(res, "only administrators can verify companies")
	}
	return deny(res, "unknown action")
}

func evaluateAnonymous(action Action, res Resource) Decision {
	if res.Kind == KindJobPosting {
		switch action {
		case ActionList:
			return scoped(res, Scope{ActiveOnly: true})
		case ActionRead:
			if res.Active {
				return allow(res)
			}
		}
	}
	return deny(res, "authentication required")
}

func evaluateOwnership(actor Actor, res Resource) Decision {
	if res.OwnerID != "" && res.OwnerID == actor.UserID() {
		return allow(res)
	}
	return deny(res, "only the owner can modify this resource")
}

func evaluateList(actor Actor, res Resource) Decision {
	switch res.Kind {
	case KindJobPosting:
		if _, ok := actor.(Company); ok {
			return scoped(res, Scope{OwnerID: actor.UserID()})
		}
		return scoped(res, Scope{ActiveOnly: true})
	case KindJobApplication:
		switch actor.(type) {
		case Student:
			return scoped(res, Scope{OwnerID: actor.UserID()})
		case Company:
			return scoped(res, Scope{JobOwnerID: actor.UserID()})
		}
		return allow(res)
	case KindStudentProfile:
		if _, ok := actor.(Student); ok {
			return scoped(res, Scope{OwnerID: actor.UserID()})
		}
		return allow(res)
	case KindCompanyProfile:
		if _, ok := actor.(Company); ok {
			return scoped(res, Scope{OwnerID: actor.UserID()})
		}
		return allow(res)
	case KindNotification:
		return scoped(res, Scope{OwnerID: actor.UserID()})
	case KindPost:
		return allow(res)
	}
	return deny(res, "unknown resource")
}

func evaluateCreate(actor Actor, res Resource) Decision {
	switch res.Kind {
	case KindJobPosting:
		if c, ok := actor.(Company); ok && c.ProfileID != "" {
			return allow(res)
		}
		return deny(res, "only companies with a profile can create job postings")
	case KindJobApplication:
		if s, ok := actor.(Student); ok && s.ProfileID != "" {
			return allow(res)
		}
		return deny(res, "only students with a profile can apply to jobs")
	case KindStudentProfile:
		if _, ok := actor.(Student); ok {
			return allow(res)
		}
		return deny(res, "only students can create a student profile")
	case KindCompanyProfile:
		if _, ok := actor.(Company); ok {
			return allow(res)
		}
		return deny(res, "only companies can create a company profile")
	case KindPost:
		return allow(res)
	}
	return deny(res, "resource cannot be created")
}

func evaluateJobOwner(actor Actor, res Resource) Decision {
	if _, ok := actor.(Company); ok && res.JobOwnerID != "" && res.JobOwnerID == actor.UserID() {
		return allow(res)
	}
	return deny(res, "only the company that owns the job posting can do this")
}

func evaluateRead(actor Actor, res Resource) Decision {
	uid := actor.UserID()
	switch res.Kind {
	case KindJobPosting:
		if res.Active || res.OwnerID == uid {
			return allow(res)
		}
		return deny(res, "job posting is not published")
	case KindJobApplication:
		if _, ok := actor.(Admin); ok || res.OwnerID == uid || res.JobOwnerID == uid {
			return allow(res)
		}
		return deny(res, "application belongs to another user")
	case KindStudentProfile:
		if _, ok := actor.(Student); ok && res.OwnerID != uid {
			return deny(res, "students can only view their own profile")
		}
		return allow(res)
	case KindCompanyProfile:
		if _, ok := actor.(Company); ok && res.OwnerID != uid {
			return deny(res, "companies can only view their own profile")
		}
		return allow(res)
	case KindNotification:
		return evaluateOwnership(actor, res)
	case KindPost:
		return allow(res)
	}
	return deny(res, "unknown resource")
}

func allow(res Resource) Decision {
	return Decision{Effect: Allow, kind: res.Kind}
}

func scoped(res Resource, s Scope) Decision {
	return Decision{Effect: AllowWithScope, Scope: s, kind: res.Kind}
}

func deny(res Resource, reason string) Decision {
	return Decision{Effect: Deny, Reason: reason, kind: res.Kind}
}
