package risk

import (
	"errors"
	"fmt"
)

// Policy holds the per-position risk limits. Percentages are fractions:
// 0.02 means 2%.
type Policy struct {
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`     // 0.02
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"` // 0.04
	FeeRate       float64 `json:"fee_rate" yaml:"fee_rate"`               // 0.0005 per leg
}

func DefaultPolicy() Policy {
	return Policy{
		StopLossPct:   0.02,
		TakeProfitPct: 0.04,
		FeeRate:       0.0005,
	}
}

func (p Policy) Validate() error {
	var errs []error
	if p.StopLossPct <= 0 {
		errs = append(errs, fmt.Errorf("stop_loss_pct must be positive, got %v", p.StopLossPct))
	}
	if p.TakeProfitPct <= 0 {
		errs = append(errs, fmt.Errorf("take_profit_pct must be positive, got %v", p.TakeProfitPct))
	}
	if p.FeeRate < 0 {
		errs = append(errs, fmt.Errorf("fee_rate must not be negative, got %v", p.FeeRate))
	}
	return errors.Join(errs...)
}
