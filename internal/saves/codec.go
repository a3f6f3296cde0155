package saves

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"tycoon/internal/game"
)

// ExportPrefix tags the export format; the rest of the string is
// base64url(zstd(json envelope)).
const ExportPrefix = "tycoon1."

const (
	envelopeVersion   = 1
	maxDecodedPayload = 16 << 20
)

//go:embed save.schema.json
var saveSchemaJSON string

var saveSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("save.schema.json", saveSchemaJSON)
})

type envelope struct {
	Version int             `json:"version"`
	Label   string          `json:"label,omitempty"`
	SavedAt time.Time       `json:"savedAt"`
	State   json.RawMessage `json:"state"`
}

// Encode packs a state into a shareable export string.
func Encode(st game.GameState, label string, now time.Time) (string, error) {
	state, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	raw, err := json.Marshal(envelope{Version: envelopeVersion, Label: label, SavedAt: now.UTC(), State: state})
	if err != nil {
		return "", err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}
	defer enc.Close()
	packed := enc.EncodeAll(raw, nil)
	return ExportPrefix + base64.RawURLEncoding.EncodeToString(packed), nil
}

// Decode reverses Encode. Anything that fails to unpack, fails the schema
// or fails to decode into a GameState is ErrCorrupt.
func Decode(payload string) (game.GameState, string, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, ExportPrefix) {
		return game.GameState{}, "", fmt.Errorf("%w: missing %q prefix", ErrCorrupt, ExportPrefix)
	}
	packed, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(payload, ExportPrefix))
	if err != nil {
		return game.GameState{}, "", fmt.Errorf("%w: base64: %v", ErrCorrupt, err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedPayload))
	if err != nil {
		return game.GameState{}, "", err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(packed, nil)
	if err != nil {
		return game.GameState{}, "", fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
	}
	if err := validate(raw); err != nil {
		return game.GameState{}, "", err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return game.GameState{}, "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	st, err := decodeState(env.State)
	if err != nil {
		return game.GameState{}, "", err
	}
	return st, env.Label, nil
}

// DecodeStored checks a stored state blob against the schema and decodes it.
func DecodeStored(state json.RawMessage) (game.GameState, error) {
	wrapped, err := json.Marshal(envelope{Version: envelopeVersion, State: state})
	if err != nil {
		return game.GameState{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := validate(wrapped); err != nil {
		return game.GameState{}, err
	}
	return decodeState(state)
}

func decodeState(raw json.RawMessage) (game.GameState, error) {
	var st game.GameState
	if err := json.Unmarshal(raw, &st); err != nil {
		return game.GameState{}, fmt.Errorf("%w: state: %v", ErrCorrupt, err)
	}
	return st, nil
}

func validate(raw []byte) error {
	schema, err := saveSchema()
	if err != nil {
		return fmt.Errorf("compile save schema: %w", err)
	}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var doc any
	if err := d.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}
