package game

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServiceLifecycle(t *testing.T) {
	svc := newTestService()

	st, err := svc.NewGame(NewGameInput{PlayerID: "alice", CharacterID: "graduate", Difficulty: "normal", Seed: 1})
	require.NoError(t, err)
	require.Equal(t, 1, st.Month)

	_, err = svc.NewGame(NewGameInput{PlayerID: "alice", CharacterID: "nurse", Difficulty: "normal"})
	require.ErrorIs(t, err, ErrPlayerExists)

	_, err = svc.NewGame(NewGameInput{PlayerID: "bob", CharacterID: "astronaut", Difficulty: "normal"})
	require.ErrorIs(t, err, ErrUnknownCharacter)

	_, _, err = svc.Advance("nobody")
	require.ErrorIs(t, err, ErrPlayerNotFound)

	next, rep, err := svc.Advance("alice")
	if errors.Is(err, ErrScenarioPending) {
		t.Fatalf("fresh game cannot have a pending scenario")
	}
	require.NoError(t, err)
	require.Equal(t, 2, next.Month)
	require.Equal(t, 2, rep.Month)

	stored, err := svc.State("alice")
	require.NoError(t, err)
	require.Equal(t, next.Month, stored.Month)
	require.Equal(t, []string{"alice"}, svc.Players())
}

func TestServiceRejectedActionKeepsState(t *testing.T) {
	svc := newTestService()
	_, err := svc.NewGame(NewGameInput{PlayerID: "p", CharacterID: "graduate", Difficulty: "normal", Seed: 1})
	require.NoError(t, err)
	before, _ := svc.State("p")

	_, err = svc.Enroll("p", "mba")
	require.ErrorIs(t, err, ErrInsufficientCash)
	_, err = svc.UseAction("p", "chores")
	require.ErrorIs(t, err, ErrModeRestricted)

	after, _ := svc.State("p")
	require.Equal(t, before, after)
}

func TestServiceStateIsACopy(t *testing.T) {
	svc := newTestService()
	st, err := svc.NewGame(NewGameInput{PlayerID: "p", CharacterID: "nurse", Difficulty: "easy", Seed: 2})
	require.NoError(t, err)
	st.Cash = 1
	st.Liabilities[0].Balance = 1

	got, _ := svc.State("p")
	require.NotEqual(t, int64(1), got.Cash)
	require.NotEqual(t, int64(1), got.Liabilities[0].Balance)
}

func TestServiceSimulateDoesNotStore(t *testing.T) {
	svc := newTestService()
	_, err := svc.NewGame(NewGameInput{PlayerID: "p", CharacterID: "tradesperson", Difficulty: "normal", Seed: 3})
	require.NoError(t, err)

	out, reports, err := svc.Simulate("p", 12)
	require.NoError(t, err)
	require.Len(t, reports, 12)
	require.Equal(t, 13, out.Month)

	st, _ := svc.State("p")
	require.Equal(t, 1, st.Month)
}

func TestServiceAdvanceIsReproducible(t *testing.T) {
	run := func() GameState {
		svc := newTestService()
		_, err := svc.NewGame(NewGameInput{PlayerID: "p", CharacterID: "graduate", Difficulty: "hard", Seed: 99})
		require.NoError(t, err)
		for i := 0; i < 24; i++ {
			st, _ := svc.State("p")
			if st.PendingScenario != nil {
				_, _, err = svc.ChooseOption("p", affordableOption(st))
				require.NoError(t, err)
			}
			_, _, err = svc.Advance("p")
			require.NoError(t, err)
		}
		st, _ := svc.State("p")
		return st
	}
	require.Equal(t, run(), run())
}

func TestServiceConcurrentPlayers(t *testing.T) {
	svc := newTestService()
	players := []string{"a", "b", "c", "d"}
	for i, id := range players {
		_, err := svc.NewGame(NewGameInput{PlayerID: id, CharacterID: "graduate", Difficulty: "easy", Seed: int64(i)})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, id := range players {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if st, err := svc.State(id); err == nil && st.PendingScenario != nil {
					_, _, _ = svc.ChooseOption(id, affordableOption(st))
				}
				_, _, _ = svc.Advance(id)
			}
		}(id)
	}
	wg.Wait()

	snap := svc.Snapshot()
	require.Len(t, snap, len(players))
	for i, st := range snap {
		require.Equal(t, players[i], st.PlayerID)
		require.Equal(t, 11, st.Month)
		checkInvariants(t, st)
	}
}
