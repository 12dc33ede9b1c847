package simulation

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	percentDivisor     = 100
)

// Constants for action mix percentages (cumulative).
const (
	passShare  = 62
	carryShare = 84
	shotShare  = 93
)

// Constants for outcome percentages.
const (
	passSuccessPercent  = 78
	carrySuccessPercent = 85
	shotGoalPercent     = 11
	otherSuccessPercent = 50
	inPlayPercent       = 95
)

// Constants for coordinate generation.
const (
	passForwardBias  = 35.0
	passBackwardBias = 20.0
	passLateralRange = 50.0
	carryForward     = 20.0
	carryBackward    = 5.0
	carryLateral     = 20.0
	shotMinX         = 70.0
	shotMinY         = 20.0
	shotYRange       = 60.0
	shotValueFloor   = 0.02
	shotValueRange   = 0.5
	maxCoordinate    = 100.0
)

// Constants for match clock and squads.
const (
	matchMinutes     = 93
	squadSize        = 14
	startersPerTeam  = 11
	benchMinutesBase = 20.0
	benchMinutesSpan = 40.0
	starterMinutes   = 90.0
	starterBias      = 3
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// Roster holds the generated player pool and its team assignment.
type Roster struct {
	PlayerIDs []string
	TeamIDs   []string
	byTeam    map[string][]string
}

// buildRoster spreads the configured number of players round-robin
// across the configured teams.
func buildRoster(config *Config) *Roster {
	r := &Roster{
		PlayerIDs: make([]string, config.Players),
		TeamIDs:   make([]string, config.Teams),
		byTeam:    make(map[string][]string, config.Teams),
	}

	for t := 0; t < config.Teams; t++ {
		r.TeamIDs[t] = fmt.Sprintf("team-%02d", t+1)
	}
	for p := 0; p < config.Players; p++ {
		id := fmt.Sprintf("player-%04d", p+1)
		team := r.TeamIDs[p%config.Teams]
		r.PlayerIDs[p] = id
		r.byTeam[team] = append(r.byTeam[team], id)
	}
	return r
}

// generateMatches creates the configured number of match batches with
// unique match IDs.
func generateMatches(ctx context.Context, config *Config, roster *Roster, stats *Stats) ([]model.MatchBatch, error) {
	logger.Get().Info(ctx, "generating matches",
		logger.Int("numMatches", config.NumMatches),
		logger.Int("actionsPerMatch", config.ActionsPerMatch),
		logger.Int("players", config.Players),
		logger.Int("teams", config.Teams))

	batches := make([]model.MatchBatch, config.NumMatches)

	type matchResult struct {
		index int
		batch model.MatchBatch
		err   error
	}

	resultChan := make(chan matchResult, config.NumMatches)

	workerCount := minInt(config.Workers, config.NumMatches)
	matchesPerWorker := config.NumMatches / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * matchesPerWorker
		end := start + matchesPerWorker
		if worker == workerCount-1 {
			end = config.NumMatches
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- matchResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- matchResult{index: i, batch: generateSingleMatch(i, config, roster)}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumMatches; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during match generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate match %d: %w", result.index, result.err)
			}
			batches[result.index] = result.batch
		}
	}

	stats.MatchesGenerated = len(batches)
	logger.Get().Info(ctx, "generated matches successfully", logger.Int("count", len(batches)))

	return batches, nil
}

// generateSingleMatch synthesizes one match between two distinct teams.
func generateSingleMatch(index int, config *Config, roster *Roster) model.MatchBatch {
	a := index % len(roster.TeamIDs)
	b := (a + 1 + getRandomInt(len(roster.TeamIDs)-1)) % len(roster.TeamIDs)
	home, away := roster.TeamIDs[a], roster.TeamIDs[b]

	homeSquad := pickSquad(roster.byTeam[home])
	awaySquad := pickSquad(roster.byTeam[away])

	appearances := make([]model.Appearance, 0, len(homeSquad)+len(awaySquad))
	appearances = append(appearances, squadAppearances(home, homeSquad)...)
	appearances = append(appearances, squadAppearances(away, awaySquad)...)

	actions := make([]model.Action, 0, config.ActionsPerMatch)
	clockStep := float64(matchMinutes*60) / float64(config.ActionsPerMatch)
	possessionHome := true

	for i := 0; i < config.ActionsPerMatch; i++ {
		team, squad := home, homeSquad
		if !possessionHome {
			team, squad = away, awaySquad
		}

		action := generateAction(team, squad)
		seconds := int(float64(i) * clockStep)
		action.Minute = seconds / 60
		action.Second = seconds % 60
		actions = append(actions, action)

		// Unsuccessful actions turn the ball over.
		if !action.Successful() {
			possessionHome = !possessionHome
		}
	}

	return model.MatchBatch{
		MatchID:     uuid.New().String(),
		Competition: "simulated-league",
		Kickoff:     time.Now().UTC().Add(-time.Duration(index) * time.Hour),
		Actions:     actions,
		Appearances: appearances,
	}
}

// pickSquad caps a team's roster slice at the match day squad size.
func pickSquad(players []string) []string {
	if len(players) <= squadSize {
		return players
	}
	return players[:squadSize]
}

// squadAppearances assigns starter and bench minutes.
func squadAppearances(team string, squad []string) []model.Appearance {
	out := make([]model.Appearance, 0, len(squad))
	for i, id := range squad {
		minutes := starterMinutes
		if i >= startersPerTeam {
			minutes = benchMinutesBase + getRandomFloat()*benchMinutesSpan
		}
		out = append(out, model.Appearance{
			PlayerID: id,
			TeamID:   team,
			Minutes:  minutes,
		})
	}
	return out
}

// generateAction synthesizes one action for the possessing team.
func generateAction(team string, squad []string) model.Action {
	// Starters see more of the ball than the bench.
	idx := getRandomInt(len(squad) + startersPerTeam*starterBias)
	if idx >= len(squad) {
		idx %= minInt(startersPerTeam, len(squad))
	}
	actor := squad[idx]

	action := model.Action{
		ActorID: actor,
		TeamID:  team,
		InPlay:  getRandomInt(percentDivisor) < inPlayPercent,
	}

	switch n := getRandomInt(percentDivisor); {
	case n < passShare:
		action.Type = model.ActionPass
		action.Outcome = rollOutcome(passSuccessPercent)
		setEndpoint(&action, passBackwardBias, passForwardBias, passLateralRange)
	case n < carryShare:
		action.Type = model.ActionCarry
		action.Outcome = rollOutcome(carrySuccessPercent)
		setEndpoint(&action, carryBackward, carryForward, carryLateral)
	case n < shotShare:
		action.Type = model.ActionShot
		action.Outcome = rollOutcome(shotGoalPercent)
		action.StartX = shotMinX + getRandomFloat()*(maxCoordinate-shotMinX)
		action.StartY = shotMinY + getRandomFloat()*shotYRange
		action.ShotValue = shotValueFloor + getRandomFloat()*shotValueRange
	default:
		action.Type = model.ActionOther
		action.Outcome = rollOutcome(otherSuccessPercent)
		action.StartX = getRandomFloat() * maxCoordinate
		action.StartY = getRandomFloat() * maxCoordinate
	}

	return action
}

// rollOutcome converts a success percentage into an outcome value.
func rollOutcome(successPercent int) model.Outcome {
	if getRandomInt(percentDivisor) < successPercent {
		return model.OutcomeSuccessful
	}
	return model.OutcomeUnsuccessful
}

// setEndpoint fills start and forward-biased end coordinates.
func setEndpoint(action *model.Action, backward, forward, lateral float64) {
	action.StartX = getRandomFloat() * maxCoordinate
	action.StartY = getRandomFloat() * maxCoordinate

	endX := clampCoordinate(action.StartX - backward + getRandomFloat()*(forward+backward))
	endY := clampCoordinate(action.StartY - lateral/2 + getRandomFloat()*lateral)
	action.EndX = &endX
	action.EndY = &endY
}

// clampCoordinate keeps a coordinate on the normalized pitch.
func clampCoordinate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxCoordinate {
		return maxCoordinate
	}
	return v
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
