package regexgenpb

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// TranslateRequest is the payload of Translate.
type TranslateRequest struct {
	Input     string `json:"input"`
	Direction string `json:"direction"`
	Model     string `json:"model,omitempty"`
}

// TranslateResponse reports the outcome of Translate. Output is the display
// string; Text is set only on success.
type TranslateResponse struct {
	Outcome string `json:"outcome"`
	Output  string `json:"output"`
	Text    string `json:"text,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Model describes one catalog entry.
type Model struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Provider string   `json:"provider"`
	Aliases  []string `json:"aliases,omitempty"`
}

// Options is the payload of ListOptions.
type Options struct {
	Directions             []string `json:"directions"`
	Models                 []Model  `json:"models"`
	DefaultModel           string   `json:"default_model"`
	FlaggingEnabled        bool     `json:"flagging_enabled"`
	CompletionTimeoutMilli int64    `json:"completion_timeout_ms"`
}

// FlagRequest is the payload of Flag.
type FlagRequest struct {
	Input     string `json:"input"`
	Direction string `json:"direction"`
	Model     string `json:"model"`
	Output    string `json:"output"`
	Reason    string `json:"reason,omitempty"`
}

// FlagEntry is a stored flag.
type FlagEntry struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Direction string    `json:"direction"`
	Model     string    `json:"model"`
	Output    string    `json:"output"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFlagsRequest is the payload of ListFlags.
type ListFlagsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// GetFlagRequest is the payload of GetFlag.
type GetFlagRequest struct {
	ID string `json:"id"`
}

// ListFlagsResponse is the result of ListFlags.
type ListFlagsResponse struct {
	Flags []FlagEntry `json:"flags"`
}

// Encode converts v to a Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

// Decode fills v from s through its JSON form. Unknown fields are ignored.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
