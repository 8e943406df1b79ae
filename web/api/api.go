package api

// PortfolioItem is one entry of GET /api/portfolio.
type PortfolioItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	WebsiteURL  string `json:"websiteUrl,omitempty"`
	Category    string `json:"category,omitempty"`
}

// HeroStats is the response of GET /api/stats/hero.
type HeroStats struct {
	TotalStakedUSD float64 `json:"totalStakedUsd"`
	TotalStakedSOL float64 `json:"totalStakedSol"`
	APY            float64 `json:"apy"`
	Uptime30d      float64 `json:"uptime30d"`
	SolPrice       float64 `json:"solPrice"`
}

// ValidatorDetails is the response of GET /api/stats/validator.
type ValidatorDetails struct {
	Identity      string  `json:"identity"`
	VoteAccount   string  `json:"voteAccount"`
	Commission    float64 `json:"commission"`
	APY           float64 `json:"apy"`
	Uptime30d     float64 `json:"uptime30d"`
	Status        string  `json:"status"`
	TotalStakeSOL float64 `json:"totalStakeSol"`
	Version       string  `json:"version"`
	Location      string  `json:"location"`
}

// StakingData is the response of GET /api/stats/staking.
type StakingData struct {
	APY              float64 `json:"apy"`
	AvailableBalance float64 `json:"availableBalance"`
	NextEpoch        string  `json:"nextEpoch"`
	EpochProgress    float64 `json:"epochProgress"`
}
