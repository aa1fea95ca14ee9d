package progress

import (
	"time"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// Charge spends one stamina point. Spending from full restarts the
// regeneration clock at now. The engine never refuses a charge; callers gate
// submissions on CanAnswer.
func (e *Engine) Charge(p *model.Profile, now time.Time) {
	if p.Stamina >= e.rules.MaxStamina {
		p.StaminaAnchor = now
	}
	p.Stamina = e.clamp(p.Stamina - 1)
}

// Refund returns one stamina point, never above the ceiling.
func (e *Engine) Refund(p *model.Profile) {
	p.Stamina = e.clamp(p.Stamina + 1)
}

// CanAnswer reports whether the profile has stamina left.
func (e *Engine) CanAnswer(p *model.Profile) bool {
	return p.Stamina > 0
}

// Regenerate credits one point per whole RegenInterval elapsed since the
// anchor and moves the anchor forward by exactly the consumed intervals, so the
// remainder keeps accruing. It returns the points gained.
func (e *Engine) Regenerate(p *model.Profile, now time.Time) int {
	p.Stamina = e.clamp(p.Stamina)
	if p.StaminaAnchor.IsZero() {
		p.StaminaAnchor = now
		return 0
	}
	if p.Stamina >= e.rules.MaxStamina {
		if now.After(p.StaminaAnchor) {
			p.StaminaAnchor = now
		}
		return 0
	}
	elapsed := now.Sub(p.StaminaAnchor)
	if elapsed <= 0 {
		return 0
	}
	units := int(elapsed / e.rules.RegenInterval)
	if units == 0 {
		return 0
	}
	before := p.Stamina
	p.Stamina = e.clamp(p.Stamina + units)
	p.StaminaAnchor = p.StaminaAnchor.Add(time.Duration(units) * e.rules.RegenInterval)
	return p.Stamina - before
}

// NextRegen returns how long until the next point, or zero when full.
func (e *Engine) NextRegen(p *model.Profile, now time.Time) time.Duration {
	if p.Stamina >= e.rules.MaxStamina {
		return 0
	}
	wait := e.rules.RegenInterval - now.Sub(p.StaminaAnchor)
	if wait < 0 {
		return 0
	}
	return wait
}

func (e *Engine) clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > e.rules.MaxStamina {
		return e.rules.MaxStamina
	}
	return v
}
