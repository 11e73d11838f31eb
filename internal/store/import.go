package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/soundstep/internal/trial"
)

// trialSchema describes one line of a trial import file.
const trialSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["result", "createdAt"],
	"properties": {
		"id": {"type": "string"},
		"userId": {"type": "string", "minLength": 1},
		"result": {"enum": ["correct", "incorrect", "skipped"]},
		"userResponse": {"type": ["string", "null"]},
		"correctResponse": {"type": ["string", "null"]},
		"contentTags": {"type": ["object", "null"]},
		"responseTimeMs": {"type": ["integer", "null"], "minimum": 0},
		"createdAt": {"type": "string", "minLength": 1}
	}
}`

const trialSchemaURL = "schema://trial.json"

// compiledTrialSchema compiles the import schema once.
var compiledTrialSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(trialSchema))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(trialSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(trialSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
})

type wireTrial struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	Result          string         `json:"result"`
	UserResponse    *string        `json:"userResponse"`
	CorrectResponse *string        `json:"correctResponse"`
	ContentTags     map[string]any `json:"contentTags"`
	ResponseTimeMs  *int           `json:"responseTimeMs"`
	CreatedAt       string         `json:"createdAt"`
}

// DecodeTrial validates one JSON trial record and converts it to an event.
func DecodeTrial(line []byte) (trial.Event, error) {
	schema, err := compiledTrialSchema()
	if err != nil {
		return trial.Event{}, err
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(line))
	if err != nil {
		return trial.Event{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return trial.Event{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var w wireTrial
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return trial.Event{}, fmt.Errorf("decode trial: %w", err)
	}

	result, err := trial.ParseResult(w.Result)
	if err != nil {
		return trial.Event{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return trial.Event{}, fmt.Errorf("createdAt: %w", err)
	}

	e := trial.Event{
		ID:              w.ID,
		UserID:          w.UserID,
		Result:          result,
		UserResponse:    w.UserResponse,
		CorrectResponse: w.CorrectResponse,
		Tags:            trial.ParseTags(w.ContentTags),
		CreatedAt:       createdAt,
	}
	if w.ResponseTimeMs != nil && *w.ResponseTimeMs > 0 {
		e.ResponseTimeMs = w.ResponseTimeMs
	}
	return e, nil
}

// Import appends every trial in a JSON Lines stream. Records without a
// userId are attributed to defaultUser. Blank lines are skipped. Import
// stops at the first bad line and reports its number; lines before it
// stay imported.
func (r *TrialRepo) Import(ctx context.Context, src io.Reader, defaultUser string) (int, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		e, err := DecodeTrial(line)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if e.UserID == "" {
			e.UserID = defaultUser
		}
		if err := r.Append(ctx, &e); err != nil {
			return n, fmt.Errorf("line %d: %w", lineNo, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read trials: %w", err)
	}
	return n, nil
}
