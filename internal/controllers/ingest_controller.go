package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"decayd/internal/models"
	"decayd/internal/providers"
	"decayd/internal/services"
	"decayd/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type IngestController struct {
	logger providers.Logger
	stakes services.StakeServiceInterface
	node   *storage.Node
}

func NewIngestController(logger providers.Logger, stakes services.StakeServiceInterface, node *storage.Node) *IngestController {
	return &IngestController{
		logger: logger,
		stakes: stakes,
		node:   node,
	}
}

// ContentCreated accepts a content creation event: the stake is locked
// first, then the payload is stored and replicated. A stake that fails
// validation leaves no payload behind.
func (ic *IngestController) ContentCreated(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var ev services.ContentCreatedEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if ev.ContentID == "" || ev.OwnerID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ic.stakes.OnContentCreated(&ev); err != nil {
		if errors.Is(err, services.ErrStakeOutOfRange) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		ic.logger.Errorf(providers.TypeHttp, "Content created ingest failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if len(ev.Payload) > 0 {
		rec := &models.ContentRecord{
			ContentID:  ev.ContentID,
			BoardID:    ev.BoardID,
			AuthorID:   ev.OwnerID,
			DecayScore: 100,
		}
		if err := ic.node.Store(r.Context(), rec, ev.Payload); err != nil {
			ic.logger.Errorf(providers.TypeHttp, "Payload store failed for %s: %s", ev.ContentID, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
}

type engagementResponse struct {
	Reward int64 `json:"reward"`
}

// Engagement accepts an engagement event and returns the reward granted.
func (ic *IngestController) Engagement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var ev services.EngagementEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if ev.ContentID == "" || ev.EngagerID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reward, err := ic.stakes.RecordEngagement(ev.ContentID, ev.Kind, ev.EngagerID, ev.EventID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEngagementKind):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrContentNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
		default:
			ic.logger.Errorf(providers.TypeHttp, "Engagement ingest failed: %s", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	gson, err := json.Marshal(engagementResponse{Reward: reward})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

type emergencyRequest struct {
	ContentID string `json:"content_id"`
	Enabled   bool   `json:"enabled"`
}

// Emergency toggles accelerated decay on flagged content.
func (ic *IngestController) Emergency(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req emergencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.ContentID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ic.stakes.SetEmergency(req.ContentID, req.Enabled); err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ic.logger.Infof(providers.TypeApp, "Emergency mode %t for content %s", req.Enabled, req.ContentID)
	w.WriteHeader(http.StatusOK)
}
