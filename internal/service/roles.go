package service

import (
	"bootcamp-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Summoner ability ids carrying a lane signal.
const (
	SpellExhaust  = 3
	SpellHeal     = 7
	SpellSmite    = 11
	SpellTeleport = 12
	SpellIgnite   = 14
)

var roleOrder = []domain.Role{
	domain.RoleTop,
	domain.RoleJungle,
	domain.RoleMiddle,
	domain.RoleBottom,
	domain.RoleUtility,
}

// RoleClassifier infers a unique lane role for each member of a live-game
// roster from champion playrates and held summoner abilities.
type RoleClassifier struct {
	logger zerolog.Logger
}

func NewRoleClassifier(logger zerolog.Logger) *RoleClassifier {
	return &RoleClassifier{logger: logger}
}

// Classify assigns InferredRole in place, per team. Best effort: a team
// that cannot be resolved to five distinct roles is logged, never fatal.
func (c *RoleClassifier) Classify(roster []domain.Participant, rates map[int]domain.ChampionPlayrate) {
	for _, teamID := range []int{100, 200} {
		var team []*domain.Participant
		for i := range roster {
			if roster[i].TeamID == teamID {
				team = append(team, &roster[i])
			}
		}
		if len(team) == 0 {
			continue
		}
		c.classifyTeam(teamID, team, rates)
	}
}

func (c *RoleClassifier) classifyTeam(teamID int, team []*domain.Participant, rates map[int]domain.ChampionPlayrate) {
	assigned := map[domain.Role]bool{}

	// Smite fully determines jungle; the signal is unique within a team.
	for _, p := range team {
		if p.Spell1ID == SpellSmite || p.Spell2ID == SpellSmite {
			p.InferredRole = domain.RoleJungle
			assigned[domain.RoleJungle] = true
			break
		}
	}

	var open []*domain.Participant
	for _, p := range team {
		if p.InferredRole == "" {
			open = append(open, p)
		}
	}
	var roles []domain.Role
	for _, role := range roleOrder {
		if !assigned[role] {
			roles = append(roles, role)
		}
	}

	// Probability matrix: rows are players in roster order, columns are
	// the remaining roles in fixed order. Greedy strictly-greater
	// assignment keeps the matrix scan order as the tie-break, so the
	// result is run-to-run stable for identical inputs.
	matrix := make([][]float64, len(open))
	for i, p := range open {
		matrix[i] = make([]float64, len(roles))
		for j, role := range roles {
			matrix[i][j] = c.probability(p, role, rates, len(roles))
		}
	}

	taken := make([]bool, len(roles))
	done := make([]bool, len(open))
	for n := 0; n < len(open) && n < len(roles); n++ {
		best, bi, bj := -1.0, -1, -1
		for i := range open {
			if done[i] {
				continue
			}
			for j := range roles {
				if taken[j] {
					continue
				}
				if matrix[i][j] > best {
					best, bi, bj = matrix[i][j], i, j
				}
			}
		}
		if bi < 0 {
			break
		}
		open[bi].InferredRole = roles[bj]
		done[bi] = true
		taken[bj] = true
	}

	distinct := map[domain.Role]bool{}
	for _, p := range team {
		distinct[p.InferredRole] = true
	}
	if len(distinct) != len(team) {
		c.logger.Warn().
			Int("team_id", teamID).
			Int("members", len(team)).
			Int("distinct_roles", len(distinct)).
			Msg("role assignment did not resolve to distinct roles")
	}
}

// probability seeds from the champion's historical per-role play
// frequency (equal split for unknown champions) and applies the
// deterministic ability bonuses.
func (c *RoleClassifier) probability(p *domain.Participant, role domain.Role, rates map[int]domain.ChampionPlayrate, openRoles int) float64 {
	prob := 100.0 / float64(openRoles)
	if r, ok := rates[p.ChampionID]; ok {
		prob = r.Rate(role)
	}

	for _, spell := range []int{p.Spell1ID, p.Spell2ID} {
		switch {
		case spell == SpellHeal && role == domain.RoleBottom:
			prob *= 3
		case spell == SpellExhaust && role == domain.RoleUtility:
			prob *= 2.5
		case spell == SpellTeleport && role == domain.RoleTop:
			prob *= 2
		case spell == SpellIgnite && role == domain.RoleMiddle:
			prob *= 1.5
		case spell == SpellIgnite && role == domain.RoleUtility:
			prob *= 1.3
		}
	}
	return prob
}
