package simulation

import "math"

// proximityThreshold is the proximity reward above which going straight earns the forward bonus.
const proximityThreshold = 0.75

// Reward shapes the reward of every agent for the tick just simulated and empties its digestion.
// Only wall readings lower the proximity term; items and agents in view count as open space.
func (w *World) Reward() []float64 {
	rewards := make([]float64, len(w.agents))
	for i, a := range w.agents {
		proximity := 0.0
		for _, e := range a.Eyes {
			if e.Sensed == CategoryWall {
				proximity += e.Proximity / e.MaxRange
			} else {
				proximity += 1.0
			}
		}
		proximity = math.Min(1.0, 2*proximity/float64(len(a.Eyes)))

		forward := 0.0
		if a.Action == w.cfg.StraightAction && proximity > proximityThreshold {
			forward = w.cfg.ForwardBonus * proximity
		}

		digestion := a.Digestion
		a.Digestion = 0

		a.LastReward = proximity + forward + digestion
		rewards[i] = a.LastReward
	}
	return rewards
}
