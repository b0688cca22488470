// Package analysis provides the AI analysis features and their request
// orchestration.
package analysis

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/interfaces"
	"github.com/rgower/vantage/internal/models"
	"github.com/rgower/vantage/internal/schema"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateInFlight   State = "in_flight"
	StateSuperseded State = "superseded"
	StateCompleted  State = "completed"
)

// Policy decides what happens when Run is called while a request is already
// in flight for this instance.
type Policy int

const (
	// PolicySupersede cancels the in-flight request and replaces it. The
	// superseded call's eventual response is discarded, never delivered.
	// This is the default: a dashboard panel only cares about its latest
	// request.
	PolicySupersede Policy = iota

	// PolicyReject refuses the new call with a Busy error and leaves the
	// in-flight request untouched.
	PolicyReject
)

// Orchestrator issues schema-constrained AI requests with at most one in
// flight per instance. Each analysis feature owns its own instance, so the
// single-flight guarantee is per call site.
type Orchestrator struct {
	client interfaces.GenAIClient
	logger *common.Logger
	policy Policy

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
}

// NewOrchestrator creates an orchestrator with the supersede policy.
func NewOrchestrator(client interfaces.GenAIClient, logger *common.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		logger: logger,
		policy: PolicySupersede,
		state:  StateIdle,
	}
}

// WithPolicy overrides the in-flight policy. The policy is fixed per call
// site at construction; it never changes between runs.
func (o *Orchestrator) WithPolicy(p Policy) *Orchestrator {
	o.policy = p
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run sends exactly one request for the given analysis kind and returns the
// raw JSON payload once it has passed schema validation in full. Every
// failure comes back as an *models.AIError; a superseded call's response is
// discarded and never reaches its caller.
func (o *Orchestrator) Run(ctx context.Context, kind models.AnalysisKind, prompt string, s *schema.Schema) ([]byte, error) {
	if o.client == nil {
		return nil, &models.AIError{Kind: models.AIErrorNetwork, Detail: "AI service not configured"}
	}

	o.mu.Lock()
	if o.state == StateInFlight {
		if o.policy == PolicyReject {
			o.mu.Unlock()
			return nil, &models.AIError{Kind: models.AIErrorBusy, Detail: string(kind)}
		}
		// Supersede: cancel the prior call. Its goroutine will observe the
		// generation mismatch and discard whatever comes back.
		if o.cancel != nil {
			o.cancel()
		}
		o.state = StateSuperseded
		o.logger.Debug().Str("kind", string(kind)).Msg("Superseding in-flight AI request")
	}
	o.generation++
	gen := o.generation
	callCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.state = StateInFlight
	o.mu.Unlock()
	defer cancel()

	text, err := o.client.GenerateStructured(callCtx, prompt, s)

	o.mu.Lock()
	if o.generation != gen {
		// A newer run replaced this one while it was suspended.
		o.mu.Unlock()
		return nil, &models.AIError{Kind: models.AIErrorSuperseded, Detail: string(kind)}
	}
	o.state = StateCompleted
	o.cancel = nil
	o.mu.Unlock()

	if err != nil {
		return nil, &models.AIError{Kind: models.AIErrorNetwork, Detail: err.Error(), Err: err}
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &models.AIError{Kind: models.AIErrorMalformedResponse, Detail: err.Error(), Err: err}
	}

	if violations := schema.Validate(parsed, s); len(violations) > 0 {
		v := violations[0]
		o.logger.Warn().
			Str("kind", string(kind)).
			Str("path", v.Path).
			Int("violations", len(violations)).
			Msg("AI response failed schema validation")
		return nil, &models.AIError{Kind: models.AIErrorSchemaViolation, Path: v.Path, Detail: v.Reason}
	}

	return []byte(text), nil
}
