package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/concierge-chat/concierge/internal/composer"
	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/session"
	"github.com/concierge-chat/concierge/pkg/chat"
)

// TurnRequest is one chat turn from the widget. The classification and
// draft arrive pre-resolved from the external classifier and LLM; the
// gateway never calls either itself.
type TurnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`

	Classification ClassificationPayload `json:"classification"`
	Draft          *DraftPayload         `json:"draft,omitempty"`

	// Intent-specific payloads supplied by the orchestrating caller.
	Onboarding *composer.OnboardingInput `json:"onboarding,omitempty"`
	Solutions  []string                  `json:"solutions,omitempty"`
	Product    *composer.ProductInfo     `json:"product,omitempty"`

	// Error reports an upstream failure to be rendered instead of a reply.
	Error *ErrorPayload `json:"error,omitempty"`

	// Preferences updates the session's display preferences for this and
	// subsequent turns.
	Preferences *PreferencesPayload `json:"preferences,omitempty"`
}

// ClassificationPayload mirrors chat.Classification with raw strings.
type ClassificationPayload struct {
	Intent         string  `json:"intent"`
	Confidence     float64 `json:"confidence"`
	IsFollowUp     bool    `json:"is_follow_up,omitempty"`
	PreviousIntent string  `json:"previous_intent,omitempty"`
}

// DraftPayload is the upstream LLM draft plus its timing.
type DraftPayload struct {
	Content   string `json:"content"`
	Model     string `json:"model,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms,omitempty"`
}

// ErrorPayload reports an upstream failure.
type ErrorPayload struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// PreferencesPayload updates session display preferences.
type PreferencesPayload struct {
	ResponseLength string `json:"response_length"`
}

// TurnResponse wraps the composed reply with the session id, which the
// widget echoes back on the next turn.
type TurnResponse struct {
	SessionID string        `json:"session_id"`
	Response  chat.Response `json:"response"`
}

// handleChat returns the handler for POST /chat.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TurnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		resp, err := g.runTurn(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// runTurn executes one chat turn: session lookup, context mutation, search,
// composition, transcript append. Upstream failures and input problems are
// rendered as composed error responses, not transport errors — the widget
// always gets something it can display.
func (g *Gateway) runTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	if g.tracer != nil {
		var span trace.Span
		ctx, span = g.tracer.Start(ctx, "gateway.turn",
			trace.WithAttributes(attribute.String("chat.intent", req.Classification.Intent)))
		defer span.End()
	}
	_ = ctx

	started := time.Now()

	cls := chat.Classification{
		Intent:         chat.ParseIntent(req.Classification.Intent),
		Confidence:     req.Classification.Confidence,
		IsFollowUp:     req.Classification.IsFollowUp,
		PreviousIntent: chat.ParseIntent(req.Classification.PreviousIntent),
	}

	var draft chat.Draft
	if req.Draft != nil {
		draft = chat.Draft{
			Content: req.Draft.Content,
			Model:   req.Draft.Model,
			Elapsed: time.Duration(req.Draft.ElapsedMs) * time.Millisecond,
		}
	}

	creq := composer.Request{
		Draft:          draft,
		Classification: cls,
		Onboarding:     req.Onboarding,
		Solutions:      req.Solutions,
		Product:        req.Product,
	}

	// Oversized input degrades to a composed invalid_input response.
	if len(req.Message) > g.cfg.MaxMessageChars {
		g.metrics.turnErrors.Inc()
		return TurnResponse{
			SessionID: req.SessionID,
			Response:  g.composer.ComposeError(creq, chat.ErrorInvalidInput, "message too long"),
		}, nil
	}

	sctx, created := g.sessions.GetOrCreate(req.SessionID)
	if sctx == nil {
		// Session limit reached: degrade to a rate-limit response.
		g.metrics.turnErrors.Inc()
		return TurnResponse{
			SessionID: req.SessionID,
			Response:  g.composer.ComposeError(creq, chat.ErrorRateLimit, ""),
		}, nil
	}
	if created {
		g.logger.Debug("session created", "session", sctx.ID)
	}

	g.applyTurnState(sctx, req, cls)
	creq.Context = sctx

	if req.Message != "" {
		msg := chat.Message{Role: chat.RoleUser, Content: req.Message, Time: started}
		sctx.Messages = append(sctx.Messages, msg)
		g.appendTranscript(sctx.ID, msg)
	}

	var resp chat.Response
	if req.Error != nil {
		g.metrics.turnErrors.Inc()
		resp = g.composer.ComposeError(creq, chat.ErrorKind(req.Error.Kind), req.Error.Detail)
	} else {
		creq.Matches = g.searchMatches(cls.Intent, req.Message)
		resp = g.composer.Compose(creq)
	}

	reply := chat.Message{Role: chat.RoleAssistant, Content: resp.Content, Time: time.Now()}
	sctx.Messages = append(sctx.Messages, reply)
	g.appendTranscript(sctx.ID, reply)

	sctx.CurrentIntent = cls.Intent
	g.sessions.Touch(sctx.ID)

	g.metrics.turns.WithLabelValues(string(cls.Intent)).Inc()
	g.metrics.composeDuration.Observe(time.Since(started).Seconds())

	return TurnResponse{SessionID: sctx.ID, Response: resp}, nil
}

// applyTurnState mutates the session context from the inbound turn before
// composition: preferences, onboarding step, and the troubleshooting
// escalation counter. The composer itself never mutates the context.
func (g *Gateway) applyTurnState(sctx *session.Context, req TurnRequest, cls chat.Classification) {
	if req.Preferences != nil {
		if length, err := chat.ParseResponseLength(req.Preferences.ResponseLength); err == nil {
			if sctx.Preferences == nil {
				sctx.Preferences = &session.Preferences{}
			}
			sctx.Preferences.ResponseLength = length
		}
	}

	if req.Onboarding != nil {
		sctx.OnboardingStep = req.Onboarding.CurrentStep
	}

	if cls.Intent == chat.IntentTroubleshooting {
		if sctx.Troubleshooting == nil {
			sctx.Troubleshooting = &session.TroubleshootingState{}
		} else if sctx.CurrentIntent == chat.IntentTroubleshooting {
			// A repeated troubleshooting turn means the previous suggestion
			// did not resolve the issue.
			sctx.Troubleshooting.EscalationLevel++
		}
	}
}

// searchMatches queries the knowledge store for knowledge-answerable
// intents. FAQ turns drive the answer; general turns only feed the
// enhancement step, so both use the default ranking parameters.
func (g *Gateway) searchMatches(intent chat.Intent, message string) []knowledge.Result {
	if message == "" {
		return nil
	}
	switch intent {
	case chat.IntentFAQ, chat.IntentGeneral:
		return g.searcher.Search(message, knowledge.DefaultSearchOptions())
	}
	return nil
}

// appendTranscript persists a message when a transcript store is configured.
func (g *Gateway) appendTranscript(sessionID string, msg chat.Message) {
	if g.transcripts == nil {
		return
	}
	if err := g.transcripts.Append(sessionID, msg); err != nil {
		g.logger.Warn("transcript append failed", "session", sessionID, "error", err)
	}
}
