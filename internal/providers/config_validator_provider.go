package providers

import (
	"decayd/internal/structures"
	"fmt"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if cv.conf.Stake.MinStake > cv.conf.Stake.MaxStake {
		return fmt.Errorf("stake.minStake %d exceeds stake.maxStake %d", cv.conf.Stake.MinStake, cv.conf.Stake.MaxStake)
	}
	if cv.conf.Decay.ReputationFloor <= 0 {
		return fmt.Errorf("decay.reputationFloor must be positive, got %f", cv.conf.Decay.ReputationFloor)
	}
	if cv.conf.Decay.ReputationCeiling < cv.conf.Decay.ReputationFloor {
		return fmt.Errorf("decay.reputationCeiling %f below decay.reputationFloor %f",
			cv.conf.Decay.ReputationCeiling, cv.conf.Decay.ReputationFloor)
	}
	if f := cv.conf.Decay.MinDecayFraction; f < 0 || f >= 1 {
		return fmt.Errorf("decay.minDecayFraction must be in [0, 1), got %f", f)
	}
	if f := cv.conf.Decay.ExpireFraction; f < 0 || f >= 1 {
		return fmt.Errorf("decay.expireFraction must be in [0, 1), got %f", f)
	}
	return nil
}
