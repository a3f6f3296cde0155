package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tycoon/internal/game"
	"tycoon/internal/saves"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StatusError carries a non-2xx reply from the API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

type TurnReply struct {
	State  game.GameState     `json:"state"`
	Report game.MonthlyReport `json:"report"`
}

type SimulateReply struct {
	State   game.GameState       `json:"state"`
	Reports []game.MonthlyReport `json:"reports"`
}

type ChoiceReply struct {
	State  game.GameState      `json:"state"`
	Result game.ScenarioResult `json:"result"`
}

type PromotionReply struct {
	State     game.GameState       `json:"state"`
	Promotion game.PromotionResult `json:"promotion"`
}

type QuizReply struct {
	State   game.GameState      `json:"state"`
	Quiz    *game.Quiz          `json:"quiz"`
	Attempt *game.CourseAttempt `json:"attempt"`
}

type SaleReply struct {
	State game.GameState  `json:"state"`
	Sale  game.SaleResult `json:"sale"`
}

type QuestsReply struct {
	Active       []game.QuestProgress `json:"active"`
	ReadyToClaim []game.QuestProgress `json:"readyToClaim"`
	Completed    []string             `json:"completed"`
}

type CashFlowReply struct {
	Estimate game.CashFlowEstimate `json:"estimate"`
	Net      int64                 `json:"net"`
}

type ContentEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int64  `json:"cost"`
	Mode string `json:"mode"`
}

type ContentReply struct {
	Digest  string                    `json:"digest"`
	Content map[string][]ContentEntry `json:"content"`
}

func (c *Client) Content(ctx context.Context) (ContentReply, error) {
	var out ContentReply
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/content", nil, &out)
	return out, err
}

func (c *Client) NewGame(ctx context.Context, in game.NewGameInput) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", in, &out)
	return out, err
}

func (c *Client) State(ctx context.Context, player string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodGet, playerPath(player, ""), nil, &out)
	return out, err
}

func (c *Client) CashFlow(ctx context.Context, player string) (CashFlowReply, error) {
	var out CashFlowReply
	err := c.jsonRequest(ctx, http.MethodGet, playerPath(player, "/cashflow"), nil, &out)
	return out, err
}

func (c *Client) Advance(ctx context.Context, player string) (TurnReply, error) {
	var out TurnReply
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/advance"), nil, &out)
	return out, err
}

func (c *Client) Simulate(ctx context.Context, player string, months int) (SimulateReply, error) {
	var out SimulateReply
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/simulate"), map[string]any{"months": months}, &out)
	return out, err
}

func (c *Client) ChooseOption(ctx context.Context, player string, option int) (ChoiceReply, error) {
	var out ChoiceReply
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/events/choose"), map[string]any{"option": option}, &out)
	return out, err
}

func (c *Client) Enroll(ctx context.Context, player, educationID string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/education/enroll"), map[string]any{"educationId": educationID}, &out)
	return out, err
}

func (c *Client) StartHustle(ctx context.Context, player, hustleID string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/hustles/"+url.PathEscape(hustleID)+"/start"), nil, &out)
	return out, err
}

func (c *Client) StopHustle(ctx context.Context, player, hustleID string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/hustles/"+url.PathEscape(hustleID)+"/stop"), nil, &out)
	return out, err
}

func (c *Client) BuyUpgrade(ctx context.Context, player, hustleID, upgradeID string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/hustles/"+url.PathEscape(hustleID)+"/upgrade"), map[string]any{"upgradeId": upgradeID}, &out)
	return out, err
}

func (c *Client) Promote(ctx context.Context, player string) (PromotionReply, error) {
	var out PromotionReply
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/career/promote"), nil, &out)
	return out, err
}

func (c *Client) UseAction(ctx context.Context, player, actionID string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/actions/"+url.PathEscape(actionID)), nil, &out)
	return out, err
}

func (c *Client) Quests(ctx context.Context, player string) (QuestsReply, error) {
	var out QuestsReply
	err := c.jsonRequest(ctx, http.MethodGet, playerPath(player, "/quests"), nil, &out)
	return out, err
}

func (c *Client) ClaimQuest(ctx context.Context, player, questID string) (bool, error) {
	var out struct {
		Claimed bool `json:"claimed"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/quests/"+url.PathEscape(questID)+"/claim"), nil, &out)
	return out.Claimed, err
}

func (c *Client) ClaimAllQuests(ctx context.Context, player string) (int, error) {
	var out struct {
		Claimed int `json:"claimed"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/quests/claim-all"), nil, &out)
	return out.Claimed, err
}

func (c *Client) StartCourse(ctx context.Context, player, courseID string) (QuizReply, error) {
	var out QuizReply
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/courses/"+url.PathEscape(courseID)+"/start"), nil, &out)
	return out, err
}

func (c *Client) AnswerQuiz(ctx context.Context, player string, option int) (QuizReply, error) {
	var out QuizReply
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/courses/answer"), map[string]any{"option": option}, &out)
	return out, err
}

func (c *Client) BuyAsset(ctx context.Context, player, itemID string, quantity float64) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/assets/buy"), map[string]any{
		"itemId":   itemID,
		"quantity": quantity,
	}, &out)
	return out, err
}

func (c *Client) SellAsset(ctx context.Context, player, assetID string, quantity float64) (SaleReply, error) {
	var out SaleReply
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/assets/sell"), map[string]any{
		"assetId":  assetID,
		"quantity": quantity,
	}, &out)
	return out, err
}

func (c *Client) Repay(ctx context.Context, player, liabilityID string, amountCents int64) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, playerPath(player, "/liabilities/"+url.PathEscape(liabilityID)+"/repay"), map[string]any{
		"amountCents": amountCents,
	}, &out)
	return out, err
}

func (c *Client) ListSaves(ctx context.Context) ([]saves.Summary, error) {
	var out struct {
		Saves []saves.Summary `json:"saves"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/saves", nil, &out)
	return out.Saves, err
}

func (c *Client) SaveGame(ctx context.Context, player, slotID, label string) error {
	return c.jsonRequest(ctx, http.MethodPost, slotPath(slotID, ""), map[string]any{
		"playerId": player,
		"label":    label,
	}, nil)
}

func (c *Client) LoadSave(ctx context.Context, slotID, player string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, slotPath(slotID, "/load"), map[string]any{"playerId": player}, &out)
	return out, err
}

func (c *Client) RenameSave(ctx context.Context, slotID, label string) error {
	return c.jsonRequest(ctx, http.MethodPatch, slotPath(slotID, ""), map[string]any{"label": label}, nil)
}

func (c *Client) DeleteSave(ctx context.Context, slotID string) error {
	return c.jsonRequest(ctx, http.MethodDelete, slotPath(slotID, ""), nil, nil)
}

func (c *Client) ExportSave(ctx context.Context, slotID string) (string, error) {
	var out struct {
		Payload string `json:"payload"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, slotPath(slotID, "/export"), nil, &out)
	return out.Payload, err
}

func (c *Client) ImportSave(ctx context.Context, payload, slotID, label string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/saves/import", map[string]any{
		"payload": payload,
		"slotId":  slotID,
		"label":   label,
	}, nil)
}

func playerPath(player, suffix string) string {
	return "/v1/games/" + url.PathEscape(player) + suffix
}

func slotPath(slotID, suffix string) string {
	return "/v1/saves/" + url.PathEscape(slotID) + suffix
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
