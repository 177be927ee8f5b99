package service

import (
	"testing"

	"bootcamp-tracker/internal/domain"

	"github.com/rs/zerolog"
)

func fullTeam(teamID int, spells [5][2]int, champs [5]int) []domain.Participant {
	team := make([]domain.Participant, 5)
	for i := range team {
		team[i] = domain.Participant{
			Puuid:      string(rune('a' + i)),
			ChampionID: champs[i],
			Spell1ID:   spells[i][0],
			Spell2ID:   spells[i][1],
			TeamID:     teamID,
		}
	}
	return team
}

func rolesOf(team []domain.Participant) map[domain.Role]int {
	counts := map[domain.Role]int{}
	for _, p := range team {
		counts[p.InferredRole]++
	}
	return counts
}

func TestClassifySmiteHolderIsJungle(t *testing.T) {
	c := NewRoleClassifier(zerolog.Nop())
	roster := fullTeam(100, [5][2]int{
		{4, 12}, {SpellSmite, 4}, {4, 14}, {4, SpellHeal}, {4, SpellExhaust},
	}, [5]int{0, 0, 0, 0, 0})

	c.Classify(roster, nil)

	if roster[1].InferredRole != domain.RoleJungle {
		t.Fatalf("smite holder got %q, want JUNGLE", roster[1].InferredRole)
	}
	for i, p := range roster {
		if i != 1 && p.InferredRole == domain.RoleJungle {
			t.Fatalf("participant %d without smite assigned JUNGLE", i)
		}
	}
}

func TestClassifyFiveDistinctRoles(t *testing.T) {
	c := NewRoleClassifier(zerolog.Nop())
	roster := append(
		fullTeam(100, [5][2]int{
			{4, SpellTeleport}, {SpellSmite, 4}, {4, SpellIgnite}, {4, SpellHeal}, {4, SpellExhaust},
		}, [5]int{1, 2, 3, 4, 5}),
		fullTeam(200, [5][2]int{
			{SpellTeleport, 4}, {4, SpellSmite}, {SpellIgnite, 4}, {SpellHeal, 4}, {SpellExhaust, 4},
		}, [5]int{6, 7, 8, 9, 10})...,
	)

	c.Classify(roster, nil)

	for _, teamID := range []int{100, 200} {
		var team []domain.Participant
		for _, p := range roster {
			if p.TeamID == teamID {
				team = append(team, p)
			}
		}
		counts := rolesOf(team)
		if len(counts) != 5 {
			t.Fatalf("team %d resolved to %d distinct roles: %v", teamID, len(counts), counts)
		}
		for role, n := range counts {
			if n != 1 {
				t.Fatalf("team %d assigned role %s %d times", teamID, role, n)
			}
		}
	}
}

func TestClassifyAbilitySignalsWithoutPlayrates(t *testing.T) {
	c := NewRoleClassifier(zerolog.Nop())
	roster := fullTeam(100, [5][2]int{
		{SpellSmite, 4},
		{4, SpellHeal},
		{4, SpellExhaust},
		{SpellTeleport, 4},
		{SpellIgnite, 4},
	}, [5]int{0, 0, 0, 0, 0})

	c.Classify(roster, nil)

	want := []domain.Role{
		domain.RoleJungle,
		domain.RoleBottom,
		domain.RoleUtility,
		domain.RoleTop,
		domain.RoleMiddle,
	}
	for i, role := range want {
		if roster[i].InferredRole != role {
			t.Errorf("participant %d: got %s, want %s", i, roster[i].InferredRole, role)
		}
	}
}

func TestClassifyPlayrateDominates(t *testing.T) {
	c := NewRoleClassifier(zerolog.Nop())
	rates := map[int]domain.ChampionPlayrate{
		// a champion that almost exclusively plays top
		86: {ChampionID: 86, Top: 92.4, Jungle: 0.1, Middle: 5.0, Bottom: 0.1, Utility: 0.1},
	}
	roster := fullTeam(100, [5][2]int{
		{4, 6}, {SpellSmite, 4}, {4, 6}, {4, 6}, {4, 6},
	}, [5]int{86, 0, 0, 0, 0})

	c.Classify(roster, rates)

	if roster[0].InferredRole != domain.RoleTop {
		t.Fatalf("high top-playrate champion got %q, want TOP", roster[0].InferredRole)
	}
}

func TestClassifyNoSignalFallsBackToScanOrder(t *testing.T) {
	c := NewRoleClassifier(zerolog.Nop())
	roster := fullTeam(100, [5][2]int{
		{4, 6}, {4, 6}, {4, 6}, {4, 6}, {4, 6},
	}, [5]int{0, 0, 0, 0, 0})

	c.Classify(roster, nil)

	want := []domain.Role{
		domain.RoleTop,
		domain.RoleJungle,
		domain.RoleMiddle,
		domain.RoleBottom,
		domain.RoleUtility,
	}
	for i, role := range want {
		if roster[i].InferredRole != role {
			t.Errorf("participant %d: got %s, want %s", i, roster[i].InferredRole, role)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewRoleClassifier(zerolog.Nop())
	rates := map[int]domain.ChampionPlayrate{
		1: {Top: 30, Jungle: 10, Middle: 40, Bottom: 10, Utility: 10},
		2: {Top: 25, Jungle: 25, Middle: 25, Bottom: 15, Utility: 10},
		3: {Top: 5, Jungle: 5, Middle: 10, Bottom: 60, Utility: 20},
		4: {Top: 10, Jungle: 10, Middle: 10, Bottom: 10, Utility: 60},
		5: {Top: 50, Jungle: 20, Middle: 20, Bottom: 5, Utility: 5},
	}
	build := func() []domain.Participant {
		return fullTeam(100, [5][2]int{
			{4, 6}, {SpellSmite, 4}, {4, 6}, {4, 6}, {4, 6},
		}, [5]int{1, 2, 3, 4, 5})
	}

	first := build()
	c.Classify(first, rates)
	for run := 0; run < 5; run++ {
		again := build()
		c.Classify(again, rates)
		for i := range first {
			if again[i].InferredRole != first[i].InferredRole {
				t.Fatalf("run %d participant %d: got %s, want %s", run, i, again[i].InferredRole, first[i].InferredRole)
			}
		}
	}
}
