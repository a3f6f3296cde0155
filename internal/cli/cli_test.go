package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tycoon/internal/api"
	"tycoon/internal/config"
	"tycoon/internal/content"
	"tycoon/internal/game"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("TYCOON_HOME", t.TempDir())

	_, err := LoadSession()
	require.Error(t, err)
	require.Error(t, SaveSession(Session{}))

	require.NoError(t, SaveSession(Session{PlayerID: "alice", CharacterID: "nurse"}))
	s, err := LoadSession()
	require.NoError(t, err)
	require.Equal(t, "alice", s.PlayerID)
	require.False(t, s.UsedAt.IsZero())

	require.NoError(t, ClearSession())
	require.NoError(t, ClearSession())
	_, err = LoadSession()
	require.Error(t, err)
}

func TestRecentSessions(t *testing.T) {
	t.Setenv("TYCOON_HOME", t.TempDir())

	for _, id := range []string{"a", "b", "c", "a"} {
		require.NoError(t, SaveSession(Session{PlayerID: id}))
	}
	recent, err := RecentSessions()
	require.NoError(t, err)
	ids := make([]string, 0, len(recent))
	for _, r := range recent {
		ids = append(ids, r.PlayerID)
	}
	require.Equal(t, []string{"a", "c", "b"}, ids)

	require.NoError(t, ClearSession())
	s, err := SwitchSession("b")
	require.NoError(t, err)
	require.Equal(t, "b", s.PlayerID)
	cur, err := LoadSession()
	require.NoError(t, err)
	require.Equal(t, "b", cur.PlayerID)

	_, err = SwitchSession("zed")
	require.Error(t, err)

	for i := 0; i < 15; i++ {
		require.NoError(t, SaveSession(Session{PlayerID: fmt.Sprintf("p%d", i)}))
	}
	recent, err = RecentSessions()
	require.NoError(t, err)
	require.Len(t, recent, maxRecent)
}

func TestClientAgainstServer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := api.New(config.APIConfig{}, logger, game.NewService(content.Default(), logger), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx := context.Background()
	c := NewClient(ts.URL + "/")

	cat, err := c.Content(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cat.Content["characters"])

	st, err := c.NewGame(ctx, game.NewGameInput{PlayerID: "alice", CharacterID: "graduate", Seed: 3})
	require.NoError(t, err)
	require.Equal(t, 1, st.Month)

	_, err = c.NewGame(ctx, game.NewGameInput{PlayerID: "alice", CharacterID: "graduate"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 409, se.Status)
	require.Contains(t, se.Message, "already has a game")

	turn, err := c.Advance(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, turn.State.Month)
	require.Equal(t, turn.State.Cash, turn.Report.CashAfter)

	q, err := c.Quests(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, q.Active)

	require.NoError(t, c.SaveGame(ctx, "alice", "main", "Main"))
	list, err := c.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Main", list[0].Label)

	payload, err := c.ExportSave(ctx, "main")
	require.NoError(t, err)
	require.NoError(t, c.ImportSave(ctx, payload, "backup", ""))
	loaded, err := c.LoadSave(ctx, "backup", "bob")
	require.NoError(t, err)
	require.Equal(t, "bob", loaded.PlayerID)
	require.Equal(t, 2, loaded.Month)

	require.NoError(t, c.RenameSave(ctx, "backup", "Backup"))
	require.NoError(t, c.DeleteSave(ctx, "backup"))
}
