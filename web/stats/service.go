// Package stats aggregates live validator metrics from StakeWiz, CoinGecko
// and Solana RPC. Every upstream is optional at runtime: when one fails, the
// affected fields fall back to fixed defaults so the public endpoints never
// surface an upstream outage.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/gojira-holdings/validator-web/pkg/solanarpc"
	"github.com/gojira-holdings/validator-web/pkg/stakewiz"
)

// Fallback values served when an upstream is unreachable.
const (
	fallbackSolPrice       = 147.50
	fallbackAPY            = 7.2
	fallbackUptime30d      = 99.98
	fallbackTotalStakedSOL = 850_000
	fallbackCommission     = 5
	fallbackVersion        = "1.18.15"
	fallbackLocation       = "Tokyo, JP"
	fallbackEpochProgress  = 45
	fallbackEpochRemaining = 48 * time.Hour
)

// approxSlotDuration converts remaining slots into wall-clock time.
const approxSlotDuration = 400 * time.Millisecond

const defaultUpstreamTimeout = 5 * time.Second

// ValidatorClient reads validator records from StakeWiz.
type ValidatorClient interface {
	GetValidator(ctx context.Context, voteAccount string) (*stakewiz.Validator, error)
}

// PriceClient reads the SOL/USD spot price.
type PriceClient interface {
	GetSolPriceUSD(ctx context.Context) (float64, error)
}

// EpochClient reads epoch progress from the chain.
type EpochClient interface {
	CurrentEpoch(ctx context.Context) (solanarpc.EpochInfo, error)
}

// HeroStats feeds the landing page banner.
type HeroStats struct {
	TotalStakedUSD float64
	TotalStakedSOL float64
	APY            float64
	Uptime30d      float64
	SolPrice       float64
}

// ValidatorDetails describes the validator itself.
type ValidatorDetails struct {
	Identity      string
	VoteAccount   string
	Commission    float64
	APY           float64
	Uptime30d     float64
	Status        string
	TotalStakeSOL float64
	Version       string
	Location      string
}

// StakingData feeds the staking widget.
type StakingData struct {
	APY              float64
	AvailableBalance float64
	NextEpoch        time.Time
	EpochProgress    float64
}

// Service fans out to the upstreams with a bounded timeout per request.
type Service struct {
	validators ValidatorClient
	prices     PriceClient
	chain      EpochClient
	log        *slog.Logger

	identity    string
	voteAccount string
	timeout     time.Duration
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func New(validators ValidatorClient, prices PriceClient, chain EpochClient, identity, voteAccount string, opts ...Option) *Service {
	s := &Service{
		validators:  validators,
		prices:      prices,
		chain:       chain,
		log:         slog.Default(),
		identity:    identity,
		voteAccount: voteAccount,
		timeout:     defaultUpstreamTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Hero returns the banner numbers, falling back per field.
func (s *Service) Hero(ctx context.Context) HeroStats {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	price := s.solPrice(ctx)

	stats := HeroStats{
		TotalStakedSOL: fallbackTotalStakedSOL,
		APY:            fallbackAPY,
		Uptime30d:      fallbackUptime30d,
		SolPrice:       price,
	}

	if v, err := s.validators.GetValidator(ctx, s.voteAccount); err != nil {
		s.log.Debug("validator lookup failed, serving fallbacks", slog.Any("error", err))
	} else {
		stats.TotalStakedSOL = v.ActivatedStake
		stats.APY = v.APY
		stats.Uptime30d = v.Uptime
	}

	stats.TotalStakedUSD = stats.TotalStakedSOL * price

	return stats
}

// Validator returns the validator profile, falling back per field.
func (s *Service) Validator(ctx context.Context) ValidatorDetails {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	details := ValidatorDetails{
		Identity:      s.identity,
		VoteAccount:   s.voteAccount,
		Commission:    fallbackCommission,
		APY:           fallbackAPY,
		Uptime30d:     fallbackUptime30d,
		Status:        "Active",
		TotalStakeSOL: fallbackTotalStakedSOL,
		Version:       fallbackVersion,
		Location:      fallbackLocation,
	}

	v, err := s.validators.GetValidator(ctx, s.voteAccount)
	if err != nil {
		s.log.Debug("validator lookup failed, serving fallbacks", slog.Any("error", err))
		return details
	}

	if v.Identity != "" {
		details.Identity = v.Identity
	}
	details.Commission = v.Commission
	details.APY = v.APY
	details.Uptime30d = v.Uptime
	details.Status = validatorStatus(v)
	details.TotalStakeSOL = v.ActivatedStake
	if v.Version != "" {
		details.Version = v.Version
	}
	if v.IPCity != "" && v.IPCountry != "" {
		details.Location = v.IPCity + ", " + v.IPCountry
	}

	return details
}

// Staking returns the staking widget numbers. AvailableBalance is filled in
// by the caller from the wallet session; this surface only knows the chain.
func (s *Service) Staking(ctx context.Context, now time.Time) StakingData {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data := StakingData{
		APY:           fallbackAPY,
		NextEpoch:     now.Add(fallbackEpochRemaining),
		EpochProgress: fallbackEpochProgress,
	}

	if v, err := s.validators.GetValidator(ctx, s.voteAccount); err != nil {
		s.log.Debug("validator lookup failed, serving fallbacks", slog.Any("error", err))
	} else {
		data.APY = v.APY
	}

	if epoch, err := s.chain.CurrentEpoch(ctx); err != nil {
		s.log.Debug("epoch lookup failed, serving fallbacks", slog.Any("error", err))
	} else if epoch.SlotsInEpoch > 0 {
		data.EpochProgress = float64(epoch.SlotIndex) / float64(epoch.SlotsInEpoch) * 100
		remaining := time.Duration(epoch.SlotsInEpoch-epoch.SlotIndex) * approxSlotDuration
		data.NextEpoch = now.Add(remaining)
	}

	return data
}

func (s *Service) solPrice(ctx context.Context) float64 {
	price, err := s.prices.GetSolPriceUSD(ctx)
	if err != nil {
		s.log.Debug("price lookup failed, serving fallback", slog.Any("error", err))
		return fallbackSolPrice
	}

	return price
}

func validatorStatus(v *stakewiz.Validator) string {
	switch {
	case v.Delinquent:
		return "Delinquent"
	case v.ActivatedStake == 0:
		return "Inactive"
	default:
		return "Active"
	}
}
