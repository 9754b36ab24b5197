// Package classify checks that the certificate class fits the producer's
// declared annual income.
package classify

import (
	"fmt"
	"math"

	"sadapurne/internal/certificate"
)

// Config holds the income tier boundaries in rupees. Each boundary belongs to
// the higher tier.
type Config struct {
	StateLicenseThreshold   float64 `toml:"state_license_threshold"`
	CentralLicenseThreshold float64 `toml:"central_license_threshold"`
}

// DefaultConfig uses 12 lakh for state licenses and 50 lakh for central licenses.
func DefaultConfig() Config {
	return Config{
		StateLicenseThreshold:   1_200_000,
		CentralLicenseThreshold: 5_000_000,
	}
}

func (c Config) Validate() error {
	t1, t2 := c.StateLicenseThreshold, c.CentralLicenseThreshold
	if math.IsNaN(t1) || math.IsInf(t1, 0) || math.IsNaN(t2) || math.IsInf(t2, 0) {
		return fmt.Errorf("income thresholds must be finite")
	}
	if t1 <= 0 || t1 >= t2 {
		return fmt.Errorf("income thresholds must satisfy 0 < state (%v) < central (%v)", t1, t2)
	}
	return nil
}

type Outcome struct {
	Passed         bool             `json:"passed"`
	Expected       certificate.Type `json:"expected_type"`
	Actual         certificate.Type `json:"actual_type"`
	DeclaredIncome float64          `json:"declared_income"`
	Message        string           `json:"message"`
}

type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// ExpectedType maps an income to the certificate class it requires.
func (c *Classifier) ExpectedType(income float64) certificate.Type {
	switch {
	case income >= c.cfg.CentralLicenseThreshold:
		return certificate.TypeCentralLicense
	case income >= c.cfg.StateLicenseThreshold:
		return certificate.TypeStateLicense
	default:
		return certificate.TypeBasicRegistration
	}
}

// Classify passes iff actual is the class the income requires.
func (c *Classifier) Classify(actual certificate.Type, income float64) Outcome {
	out := Outcome{
		Expected:       c.ExpectedType(income),
		Actual:         actual,
		DeclaredIncome: income,
	}
	switch {
	case !actual.IsKnown():
		out.Message = "certificate type could not be determined"
	case actual != out.Expected:
		out.Message = fmt.Sprintf("certificate type %s does not match declared income; expected %s", actual, out.Expected)
	default:
		out.Passed = true
		out.Message = "certificate type matches declared income"
	}
	return out
}
