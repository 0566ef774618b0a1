package algorithms

import (
	"fmt"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/pkg/apperrors"
)

var allowedTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusPending: {
		models.ApplicationStatusReviewing,
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
	},
	models.ApplicationStatusReviewing: {
		models.ApplicationStatusInterview,
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
	},
	models.ApplicationStatusInterview: {
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
	},
}

// CanTransition сообщает, разрешен ли переход from -> to.
// Переход в тот же статус считается разрешенным.
func CanTransition(from, to models.ApplicationStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplyStatusTransition проверяет смену статуса отклика и возвращает новый статус.
// app должен содержать Job.Company. Сам app не изменяется.
func ApplyStatusTransition(app *models.JobApplication, requested models.ApplicationStatus, actor auth.Actor) (models.ApplicationStatus, error) {
	decision := auth.Evaluate(actor, auth.ActionChangeStatus, auth.ApplicationResource(app))
	if err := decision.Err(); err != nil {
		return app.Status, err
	}

	if !requested.IsValid() {
		return app.Status, apperrors.ErrInvalidStatus("application", fmt.Sprintf("unknown status %q", requested))
	}
	if !CanTransition(app.Status, requested) {
		return app.Status, apperrors.ErrInvalidStatus("application",
			fmt.Sprintf("cannot change status from %s to %s", app.Status, requested))
	}
	return requested, nil
}
