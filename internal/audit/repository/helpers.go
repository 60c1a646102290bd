package repository

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/leasehold/internal/errors"
)

func parseEventID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to parse audit event id")
	}
	return id, nil
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
