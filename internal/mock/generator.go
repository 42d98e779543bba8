// Package mock seeds a demo catalog and feeds the tracker a stream of
// randomized matches, so the dashboard has something to show without a
// real match source.
package mock

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/Starman965/mongoose-sub000/internal/achievement"
	"github.com/Starman965/mongoose-sub000/internal/match"
	"github.com/google/uuid"
)

var (
	warzoneModes = []string{"Quads", "Trios", "Duos", "Resurgence"}
	warzoneMaps  = []string{"Verdansk", "Rebirth Island", "Urzikstan", "Fortune's Keep"}
	mpModes      = []string{"Domination", "Hardpoint", "Team Deathmatch", "Search and Destroy"}
	mpMaps       = []string{"Nuketown", "Shipment", "Raid", "Hijacked"}
)

type Generator struct {
	tracker  *achievement.Tracker
	squad    []string
	interval time.Duration
	rng      *rand.Rand
}

func NewGenerator(tracker *achievement.Tracker, squad []string, interval time.Duration) *Generator {
	return &Generator{
		tracker:  tracker,
		squad:    squad,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start seeds the catalog if it is empty and begins emitting matches until
// ctx is cancelled.
func (g *Generator) Start(ctx context.Context) {
	if len(g.tracker.Catalog()) == 0 {
		g.seedCatalog(ctx)
	}
	go g.run(ctx)
}

func (g *Generator) seedCatalog(ctx context.Context) {
	now := time.Now().UTC()

	rules := []achievement.Rule{
		{
			ID:          "wz-first-win",
			Title:       "Dub Club",
			Description: "Win a Warzone match",
			Points:      250,
			Difficulty:  achievement.DifficultyModerate,
			GameType:    achievement.Exactly(match.GameTypeWarzone),
			GameMode:    achievement.Any(),
			Map:         achievement.Any(),
			Placement:   achievement.MaxRank(1),
			Active:      true, Repeatable: true, TimesRequired: 1,
			CreatedAt: now,
		},
		{
			ID:          "squad-wipe",
			Title:       "Squad Wipe Machine",
			Description: "Drop 20 squad kills in one match, any mode",
			Points:      500,
			Difficulty:  achievement.DifficultyHard,
			GameType:    achievement.Any(),
			GameMode:    achievement.Any(),
			Map:         achievement.Any(),
			Placement:   achievement.AnyPlacement(),
			TotalKills:  &achievement.Condition{Op: achievement.OpAtLeast, Value: 20},
			Active:      true, Repeatable: true, TimesRequired: 1,
			CreatedAt: now,
		},
		{
			ID:          "rebirth-grind",
			Title:       "Island Regulars",
			Description: "Finish five Rebirth Island matches",
			Points:      150,
			Difficulty:  achievement.DifficultyEasy,
			GameType:    achievement.Exactly(match.GameTypeWarzone),
			GameMode:    achievement.Any(),
			Map:         achievement.Exactly("Rebirth Island"),
			Placement:   achievement.AnyPlacement(),
			Active:      true, TimesRequired: 5,
			CreatedAt: now,
		},
		{
			ID:          "mp-streak",
			Title:       "Pub Stompers",
			Description: "Win three Multiplayer matches",
			Points:      300,
			Difficulty:  achievement.DifficultyModerate,
			GameType:    achievement.Exactly(match.GameTypeMultiplayer),
			GameMode:    achievement.Any(),
			Map:         achievement.Any(),
			Placement:   achievement.RequireOutcome(match.OutcomeWon),
			Active:      true, TimesRequired: 3,
			CreatedAt: now,
		},
		{
			ID:          "weekend-warriors",
			Title:       "Weekend Warriors",
			Description: "Take a weekend Warzone top five",
			Points:      200,
			Difficulty:  achievement.DifficultyModerate,
			GameType:    achievement.Exactly(match.GameTypeWarzone),
			GameMode:    achievement.Any(),
			Map:         achievement.Any(),
			Placement:   achievement.MaxRank(5),
			DaysOfWeek:  []time.Weekday{time.Saturday, time.Sunday},
			Active:      true, Repeatable: true, TimesRequired: 1,
			CreatedAt: now,
		},
	}

	for _, rule := range rules {
		if _, err := g.tracker.AddRule(ctx, rule); err != nil {
			log.Printf("mock: seed rule %s: %v", rule.ID, err)
		}
	}
	log.Printf("mock: seeded %d demo achievements", len(rules))
}

func (g *Generator) run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rec := g.randomMatch()
			res, err := g.tracker.RecordMatch(ctx, &rec)
			if err != nil {
				log.Printf("mock: record match: %v", err)
				continue
			}
			log.Printf("mock: %s on %s, %d kills, %d achievement updates",
				rec.GameMode, rec.Map, rec.TotalKills, len(res.Updated))
		}
	}
}

func (g *Generator) randomMatch() match.Record {
	rec := match.Record{
		ID:        uuid.NewString(),
		Kills:     make(map[string]int, len(g.squad)),
		Timestamp: time.Now().UTC(),
	}

	if g.rng.Intn(2) == 0 {
		rec.GameType = match.GameTypeWarzone
		rec.GameMode = warzoneModes[g.rng.Intn(len(warzoneModes))]
		rec.Map = warzoneMaps[g.rng.Intn(len(warzoneMaps))]
		// Placement skews toward the middle of the lobby.
		rec.Placement = match.Rank(1 + g.rng.Intn(40))
	} else {
		rec.GameType = match.GameTypeMultiplayer
		rec.GameMode = mpModes[g.rng.Intn(len(mpModes))]
		rec.Map = mpMaps[g.rng.Intn(len(mpMaps))]
		if g.rng.Intn(2) == 0 {
			rec.Placement = match.Outcome(match.OutcomeWon)
		} else {
			rec.Placement = match.Outcome(match.OutcomeLost)
		}
	}

	for _, member := range g.squad {
		kills := g.rng.Intn(13)
		rec.Kills[member] = kills
		rec.TotalKills += kills
	}
	return rec
}
