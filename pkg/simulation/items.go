package simulation

import "go.uber.org/zap"

// UpdateItems ages every item, lets agents eat what they touch, despawns stale items and
// respawns at most one new item per tick.
func (w *World) UpdateItems() {
	w.grid.rebuild(w.agents)

	var candidates []int
	eaten, expired := 0, 0
	for _, it := range w.items {
		it.grow()

		candidates = w.grid.nearby(candidates, it.Position)
		for _, i := range candidates {
			a := w.agents[i]
			if it.Position.DistanceTo(a.Position) >= it.Radius+a.Radius {
				continue
			}
			// an item behind a wall cannot be reached even when touching
			if _, blocked := w.QueryNearest(a.Position, it.Position, Query{Walls: true}); blocked {
				continue
			}
			w.consume(a, it)
			eaten++
			break
		}

		if !it.dead && w.shouldDespawn(it) {
			it.kill()
			expired++
		}
	}

	if eaten > 0 || expired > 0 {
		w.items = compact(w.items)
		w.log.Debug("items removed",
			zap.Uint64("clock", w.clock),
			zap.Int("eaten", eaten),
			zap.Int("expired", expired),
			zap.Int("left", len(w.items)))
	}

	if len(w.items) < w.cfg.ItemTarget && every(w.clock, w.cfg.RespawnPeriod) &&
		w.rng.Float64() < w.cfg.RespawnProbability {
		it := w.spawnItem()
		w.items = append(w.items, it)
		w.log.Debug("item spawned",
			zap.Uint64("clock", w.clock),
			zap.Stringer("kind", it.Kind),
			zap.Stringer("position", it.Position))
	}
}

func (w *World) consume(a *Agent, it *Item) {
	it.kill()
	switch it.Kind {
	case ItemBeneficial:
		a.Digestion += w.cfg.BeneficialReward
		a.BeneficialEaten++
	case ItemHarmful:
		a.Digestion += w.cfg.HarmfulReward
		a.HarmfulEaten++
	}
}

func (w *World) shouldDespawn(it *Item) bool {
	return it.age > w.cfg.DespawnAge && every(w.clock, w.cfg.DespawnPeriod) &&
		w.rng.Float64() < w.cfg.DespawnProbability
}

// every reports whether clock falls on a multiple of period. A non-positive period never fires.
func every(clock uint64, period int) bool {
	return period > 0 && clock%uint64(period) == 0
}

// compact drops dead items in place, keeping the survivors in order.
func compact(items []*Item) []*Item {
	out := items[:0]
	for _, it := range items {
		if !it.dead {
			out = append(out, it)
		}
	}
	clear(items[len(out):])
	return out
}
