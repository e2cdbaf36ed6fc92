package catan

import "fmt"

// Config holds the per-game rule toggles.
type Config struct {
	Radius        int  `json:"radius"`
	VictoryPoints int  `json:"victory_points"`
	FreeBuild     bool `json:"free_build"`
	MixedTrade    bool `json:"mixed_trade"`
	AutoDiscard   bool `json:"auto_discard"`
	ShuffleSeats  bool `json:"shuffle_seats"`
}

// DefaultConfig is the standard 19-hex game to 10 points.
func DefaultConfig() Config {
	return Config{Radius: 2, VictoryPoints: 10}
}

// Validate rejects configurations no board can be built for.
func (c Config) Validate() error {
	if !SupportedRadius(c.Radius) {
		return fmt.Errorf("radius %d not supported (2-4)", c.Radius)
	}
	if c.VictoryPoints < 3 {
		return fmt.Errorf("victory points %d below minimum of 3", c.VictoryPoints)
	}
	return nil
}
