package controllers

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"decayd/internal/providers"
	"decayd/internal/services"
	"decayd/internal/structures"
)

type QueryController struct {
	conf       *structures.Config
	logger     providers.Logger
	stakes     services.StakeServiceInterface
	reputation services.ReputationServiceInterface
	supply     services.SupplyServiceInterface
	cache      providers.CacheProviderInterface
}

func NewQueryController(conf *structures.Config, logger providers.Logger, stakes services.StakeServiceInterface, reputation services.ReputationServiceInterface, supply services.SupplyServiceInterface, cache providers.CacheProviderInterface) *QueryController {
	return &QueryController{
		conf:       conf,
		logger:     logger,
		stakes:     stakes,
		reputation: reputation,
		supply:     supply,
		cache:      cache,
	}
}

func (qc *QueryController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := qc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	qc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (qc *QueryController) GetStake(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	qc.serveFromCacheOrCompute(w, "stake:"+id, func() (any, error) {
		return qc.stakes.GetStakeInfo(id)
	})
}

type scoreResponse struct {
	ContentID string `json:"content_id"`
	Score     int    `json:"score"`
	Visible   bool   `json:"visible"`
}

func (qc *QueryController) GetScore(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	// Scores move with every sweep; serving through the read cache keeps
	// the hot feed-ranking path off the stake store.
	qc.serveFromCacheOrCompute(w, "score:"+id, func() (any, error) {
		score, ok := qc.stakes.VisibilityScore(id, time.Now().UTC())
		if !ok {
			return nil, services.ErrContentNotFound
		}
		visible := score > qc.conf.Storage.VisibilityFloor
		return scoreResponse{ContentID: id, Score: score, Visible: visible}, nil
	})
}

type reputationResponse struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

func (qc *QueryController) GetReputation(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	qc.serveFromCacheOrCompute(w, "rep:"+user, func() (any, error) {
		return reputationResponse{UserID: user, Score: qc.reputation.GetUserReputation(user)}, nil
	})
}

func (qc *QueryController) GetTopUsers(w http.ResponseWriter, r *http.Request) {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	qc.serveFromCacheOrCompute(w, "top:"+cast.ToString(limit), func() (any, error) {
		return qc.reputation.TopUsers(limit), nil
	})
}

func (qc *QueryController) GetNetworkStats(w http.ResponseWriter, r *http.Request) {
	qc.serveFromCacheOrCompute(w, "stats", func() (any, error) {
		return qc.supply.GetNetworkStats()
	})
}
