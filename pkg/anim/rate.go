package anim

import (
	"math"
	"sort"
	"sync"

	"github.com/charmbracelet/harmonica"
)

// RateFunc maps linear progress in [0, 1] to eased progress.
type RateFunc func(float64) float64

// Rate function names.
const (
	RateLinear       = "linear"
	RateSmooth       = "smooth"
	RateThereAndBack = "there_and_back"
	RateSpring       = "spring"
)

var rates = map[string]RateFunc{
	RateLinear:       Linear,
	RateSmooth:       Smooth,
	RateThereAndBack: ThereAndBack,
	RateSpring:       Spring,
}

// Rate returns the rate function registered under name. Unknown and empty
// names resolve to Smooth.
func Rate(name string) RateFunc {
	if f, ok := rates[name]; ok {
		return f
	}
	return Smooth
}

// RateNames returns the registered rate function names, sorted.
func RateNames() []string {
	names := make([]string, 0, len(rates))
	for n := range rates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Linear is the identity rate.
func Linear(t float64) float64 { return clamp01(t) }

// Smooth is a sigmoid ease-in-out with inflection 10, normalised so that
// Smooth(0) = 0 and Smooth(1) = 1.
func Smooth(t float64) float64 {
	const inflection = 10.0
	e := sigmoid(-inflection / 2)
	return clamp01((sigmoid(inflection*(t-0.5)) - e) / (1 - 2*e))
}

// ThereAndBack rises smoothly to 1 at the midpoint and returns to 0.
func ThereAndBack(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return Smooth(2 * t)
	}
	return Smooth(2 * (1 - t))
}

// Spring follows a critically damped spring released from 0 toward 1.
// The curve is sampled once with harmonica and interpolated.
func Spring(t float64) float64 {
	t = clamp01(t)
	if t == 1 {
		return 1
	}
	curve := springCurve()
	x := t * float64(len(curve)-1)
	i := int(x)
	frac := x - float64(i)
	return curve[i] + (curve[i+1]-curve[i])*frac
}

const (
	springSteps     = 120
	springFrequency = 9.0
	springDamping   = 1.0
)

var springCurve = sync.OnceValue(func() []float64 {
	s := harmonica.NewSpring(harmonica.FPS(springSteps), springFrequency, springDamping)
	curve := make([]float64, springSteps+1)
	pos, vel := 0.0, 0.0
	for i := 1; i <= springSteps; i++ {
		pos, vel = s.Update(pos, vel, 1)
		curve[i] = pos
	}
	end := curve[springSteps]
	if end > 0 {
		for i := range curve {
			curve[i] /= end
		}
	}
	return curve
})

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func clamp01(t float64) float64 { return math.Max(0, math.Min(1, t)) }
