package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tycoon/internal/config"
	"tycoon/internal/content"
	"tycoon/internal/game"
	"tycoon/internal/saves"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := game.NewService(content.Default(), logger)
	mgr := saves.NewManager(saves.NewMemoryStore(), logger)
	srv := New(config.APIConfig{DefaultSeed: 7}, logger, svc, mgr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestHealthAndContent(t *testing.T) {
	ts := testServer(t)
	code, body := call(t, ts, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["ok"])

	code, body = call(t, ts, http.MethodGet, "/v1/content", "")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, body["digest"])
	groups := body["content"].(map[string]any)
	require.NotEmpty(t, groups["characters"])
	require.NotEmpty(t, groups["marketItems"])
}

func TestGameLifecycle(t *testing.T) {
	ts := testServer(t)

	code, body := call(t, ts, http.MethodPost, "/v1/games", `{"playerId":"alice","characterId":"graduate"}`)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, float64(300_000), body["cash"])
	require.Equal(t, float64(7), body["seed"])
	require.Equal(t, "normal", body["difficulty"])

	code, _ = call(t, ts, http.MethodPost, "/v1/games", `{"playerId":"alice","characterId":"graduate"}`)
	require.Equal(t, http.StatusConflict, code)

	code, _ = call(t, ts, http.MethodPost, "/v1/games", `{"playerId":"bad id!","characterId":"graduate"}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, ts, http.MethodPost, "/v1/games", `{"characterId":"graduate","color":"blue"}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, body = call(t, ts, http.MethodPost, "/v1/games", `{"characterId":"graduate"}`)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, body["playerId"])

	code, _ = call(t, ts, http.MethodGet, "/v1/games/nobody", "")
	require.Equal(t, http.StatusNotFound, code)

	code, body = call(t, ts, http.MethodGet, "/v1/games/alice/quests", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["active"], 3)

	code, body = call(t, ts, http.MethodGet, "/v1/games/alice/cashflow", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "net")

	code, _ = call(t, ts, http.MethodPost, "/v1/games/alice/actions/chores", "")
	require.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, ts, http.MethodPost, "/v1/games/alice/education/enroll", `{"educationId":"mba"}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, ts, http.MethodPost, "/v1/games/alice/quests/not_a_quest/claim", "")
	require.Equal(t, http.StatusNotFound, code)

	code, body = call(t, ts, http.MethodPost, "/v1/games/alice/advance", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(2), body["state"].(map[string]any)["month"])
	require.NotNil(t, body["report"])

	code, body = call(t, ts, http.MethodGet, "/v1/games/alice/networth", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["history"], 2)

	code, _ = call(t, ts, http.MethodPost, "/v1/games/alice/simulate", `{"months":0}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, ts, http.MethodDelete, "/v1/games/alice", "")
	require.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, ts, http.MethodGet, "/v1/games/alice", "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestSaveSlots(t *testing.T) {
	ts := testServer(t)
	code, _ := call(t, ts, http.MethodPost, "/v1/games", `{"playerId":"alice","characterId":"graduate"}`)
	require.Equal(t, http.StatusCreated, code)

	code, _ = call(t, ts, http.MethodPost, "/v1/saves/main", `{"playerId":"alice","label":"Main"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, ts, http.MethodPost, "/v1/saves/main", `{"playerId":"ghost"}`)
	require.Equal(t, http.StatusNotFound, code)

	code, body := call(t, ts, http.MethodGet, "/v1/saves", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["saves"], 1)

	code, body = call(t, ts, http.MethodGet, "/v1/saves/main/export", "")
	require.Equal(t, http.StatusOK, code)
	payload := body["payload"].(string)
	require.NotEmpty(t, payload)

	imp, err := json.Marshal(map[string]string{"payload": payload, "slotId": "copy"})
	require.NoError(t, err)
	code, _ = call(t, ts, http.MethodPost, "/v1/saves/import", string(imp))
	require.Equal(t, http.StatusCreated, code)

	code, _ = call(t, ts, http.MethodPost, "/v1/saves/import", `{"payload":"tycoon1.garbage","slotId":"junk"}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, body = call(t, ts, http.MethodPost, "/v1/saves/copy/load", `{"playerId":"bob"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "bob", body["playerId"])

	code, body = call(t, ts, http.MethodGet, "/v1/games/bob", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(1), body["month"])

	code, _ = call(t, ts, http.MethodPatch, "/v1/saves/copy", `{"label":"Copy"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, ts, http.MethodDelete, "/v1/saves/copy", "")
	require.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, ts, http.MethodPost, "/v1/saves/copy/load", "")
	require.Equal(t, http.StatusNotFound, code)
}
