package sim

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DistSpec parameterizes a statistical distribution applied to a rate
// category. A sample is a multiplicative noise factor, centered at 1.0 by
// the usual configuration.
type DistSpec struct {
	Name   string
	Type   string
	Params map[string]float64
}

// Sampler produces one multiplicative rate factor per draw. Samples are raw
// draws; clamping the perturbed rate is the resolver's responsibility.
type Sampler interface {
	Sample() float64
}

type normalSampler struct{ dist distuv.Normal }

func (s normalSampler) Sample() float64 { return s.dist.Rand() }

type logNormalSampler struct{ dist distuv.LogNormal }

func (s logNormalSampler) Sample() float64 { return s.dist.Rand() }

type uniformSampler struct{ dist distuv.Uniform }

func (s uniformSampler) Sample() float64 { return s.dist.Rand() }

// NewSampler constructs a Sampler for the given spec. Unsupported types and
// invalid parameters are ConfigurationErrors so a misconfigured scenario is
// rejected before simulation starts; callers validate with src == nil at
// load time and bind a real source afterwards.
func NewSampler(spec DistSpec, src rand.Source) (Sampler, error) {
	field := "distributions." + spec.Name
	switch spec.Type {
	case "normal":
		mean := param(spec.Params, "mean", 1.0)
		stdDev := param(spec.Params, "std_dev", 0.0)
		if stdDev < 0 {
			return nil, NewConfigurationError(field, "std_dev %v must be >= 0", stdDev)
		}
		return normalSampler{distuv.Normal{Mu: mean, Sigma: stdDev, Src: src}}, nil
	case "lognormal":
		sigma := param(spec.Params, "sigma", 0.0)
		if sigma < 0 {
			return nil, NewConfigurationError(field, "sigma %v must be >= 0", sigma)
		}
		return logNormalSampler{distuv.LogNormal{
			Mu:    param(spec.Params, "mu", 0.0),
			Sigma: sigma,
			Src:   src,
		}}, nil
	case "uniform":
		lo := param(spec.Params, "min", 0.0)
		hi := param(spec.Params, "max", 1.0)
		if hi < lo {
			return nil, NewConfigurationError(field, "max %v is below min %v", hi, lo)
		}
		return uniformSampler{distuv.Uniform{Min: lo, Max: hi, Src: src}}, nil
	}
	return nil, NewConfigurationError(field, "unsupported distribution type %q", spec.Type)
}

// ValidateDistSpec checks a spec without binding an RNG source.
func ValidateDistSpec(spec DistSpec) error {
	_, err := NewSampler(spec, nil)
	return err
}

func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}
