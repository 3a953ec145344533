package service

import (
	"context"
	"encoding/json"

	"socialhub/internal/entity"
	"socialhub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// auditor writes security log rows. A failed write is logged and never
// fails the request that triggered it.
type auditor struct {
	repo   repository.SecurityLogRepository
	logger logrus.FieldLogger
}

func (a auditor) record(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) {
	if a.repo == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			a.warn(err, action)
			return
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := a.repo.Log(ctx, log); err != nil {
		a.warn(err, action)
	}
}

func (a auditor) warn(err error, action entity.SecurityAction) {
	if a.logger == nil {
		return
	}
	a.logger.WithError(err).WithField("action", action).Warn("security log write failed")
}
