package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gojira-holdings/validator-web/pkg/httpkit"
	"github.com/gojira-holdings/validator-web/web/api"
	"github.com/gojira-holdings/validator-web/web/stats"
)

const (
	GetHeroStatsRoute        = http.MethodGet + " " + "/api/stats/hero"
	GetValidatorDetailsRoute = http.MethodGet + " " + "/api/stats/validator"
	GetStakingDataRoute      = http.MethodGet + " " + "/api/stats/staking"
)

// StatsProvider aggregates upstream metrics with built-in fallbacks, so
// these handlers always succeed.
type StatsProvider interface {
	Hero(ctx context.Context) stats.HeroStats
	Validator(ctx context.Context) stats.ValidatorDetails
	Staking(ctx context.Context, now time.Time) stats.StakingData
}

// BalanceProvider exposes the connected wallet's spendable balance.
type BalanceProvider interface {
	Connected() bool
	Balance() float64
}

type GetStats struct {
	stats  StatsProvider
	wallet BalanceProvider
	now    func() time.Time
}

func NewGetStats(provider StatsProvider, wallet BalanceProvider) *GetStats {
	return &GetStats{
		stats:  provider,
		wallet: wallet,
		now:    time.Now,
	}
}

func (h *GetStats) AddRoutes(m *http.ServeMux) {
	m.Handle(GetHeroStatsRoute, httpkit.HandlerFunc(h.GetHeroStats))
	m.Handle(GetValidatorDetailsRoute, httpkit.HandlerFunc(h.GetValidatorDetails))
	m.Handle(GetStakingDataRoute, httpkit.HandlerFunc(h.GetStakingData))
}

func (h *GetStats) GetHeroStats(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	hero := h.stats.Hero(r.Context())

	return httpkit.JSON(api.HeroStats{
		TotalStakedUSD: hero.TotalStakedUSD,
		TotalStakedSOL: hero.TotalStakedSOL,
		APY:            hero.APY,
		Uptime30d:      hero.Uptime30d,
		SolPrice:       hero.SolPrice,
	})
}

func (h *GetStats) GetValidatorDetails(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	details := h.stats.Validator(r.Context())

	return httpkit.JSON(api.ValidatorDetails{
		Identity:      details.Identity,
		VoteAccount:   details.VoteAccount,
		Commission:    details.Commission,
		APY:           details.APY,
		Uptime30d:     details.Uptime30d,
		Status:        details.Status,
		TotalStakeSOL: details.TotalStakeSOL,
		Version:       details.Version,
		Location:      details.Location,
	})
}

func (h *GetStats) GetStakingData(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	data := h.stats.Staking(r.Context(), h.now())

	var available float64
	if h.wallet != nil && h.wallet.Connected() {
		available = h.wallet.Balance()
	}

	return httpkit.JSON(api.StakingData{
		APY:              data.APY,
		AvailableBalance: available,
		NextEpoch:        data.NextEpoch.UTC().Format(time.RFC3339),
		EpochProgress:    data.EpochProgress,
	})
}
