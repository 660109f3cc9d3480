package handlers

import (
	"net/http"

	"github.com/megalink-ti/fatura-tracker/internal/config"
	"github.com/megalink-ti/fatura-tracker/internal/registry"
	"github.com/megalink-ti/fatura-tracker/internal/stats"
	"github.com/megalink-ti/fatura-tracker/internal/storage"
	"github.com/megalink-ti/fatura-tracker/internal/tracking"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const boletoExample = "/boleto?empresa=megalink&codigo=ABC123&idFatura=FAT001"

type TrackerHandler struct {
	cfg      *config.Config
	registry *registry.Registry
	tracker  *tracking.Tracker
	stats    *stats.Service
	images   storage.Storage
	db       *gorm.DB
	log      *logrus.Entry
}

func NewTrackerHandler(logger *logrus.Logger, cfg *config.Config, reg *registry.Registry, tracker *tracking.Tracker, statsSvc *stats.Service, images storage.Storage, db *gorm.DB) *TrackerHandler {
	return &TrackerHandler{
		cfg:      cfg,
		registry: reg,
		tracker:  tracker,
		stats:    statsSvc,
		images:   images,
		db:       db,
		log:      logger.WithField("component", "tracker_handler"),
	}
}

func (h *TrackerHandler) requestMeta(r *http.Request) tracking.RequestMeta {
	return tracking.RequestMeta{
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}
}
