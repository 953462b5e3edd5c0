package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/cycletrack/internal/i18n"
	"github.com/terraincognita07/cycletrack/internal/services"
)

type Handler struct {
	tracker   *services.CycleTracker
	i18n      *i18n.Manager
	secretKey []byte
	now       func() time.Time
}

func NewHandler(tracker *services.CycleTracker, i18nManager *i18n.Manager, secret string) (*Handler, error) {
	if tracker == nil {
		return nil, errors.New("cycle tracker is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("secret key is required")
	}

	return &Handler{
		tracker:   tracker,
		i18n:      i18nManager,
		secretKey: []byte(secret),
		now:       time.Now,
	}, nil
}
