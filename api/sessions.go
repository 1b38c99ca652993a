package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"blind-configurator/adapters/cart"
	"blind-configurator/core/store"
	"blind-configurator/internal/errors"
)

func sessionID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "sessionID"))
}

func (s *Server) sessionResponse(v store.View) SessionResponse {
	cfg := v.Configuration
	pos, total := v.Wizard.Progress(cfg)
	return SessionResponse{
		ID:            v.ID,
		Configuration: cfg,
		CurrentStep:   v.Wizard.Current(),
		Action:        v.Wizard.Action(cfg),
		CanProceed:    v.Wizard.CanProceed(cfg),
		IsFirst:       v.Wizard.IsFirst(cfg),
		Progress:      Progress{Position: pos, Total: total},
		Steps:         s.engine.Steps(cfg),
		Breakdown:     s.engine.Price(cfg),
		CreatedAt:     v.CreatedAt,
		TouchedAt:     v.TouchedAt,
	}
}

// handleCreateSession handles POST /v1/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.Create()
	s.logger.Debug("session created", zap.String("session_id", v.ID))
	s.writeJSON(w, s.sessionResponse(v), http.StatusCreated)
}

// handleGetSession handles GET /v1/sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Get(sessionID(r))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeJSON(w, s.sessionResponse(v), http.StatusOK)
}

// handlePatchSession handles PATCH /v1/sessions/{id}
func (s *Server) handlePatchSession(w http.ResponseWriter, r *http.Request) {
	var req PatchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	v, err := s.sessions.Update(sessionID(r), func(sess *store.Session) error {
		sess.Store.Apply(req.Patch())
		return nil
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeJSON(w, s.sessionResponse(v), http.StatusOK)
}

// handleDeleteSession handles DELETE /v1/sessions/{id}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(sessionID(r)); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNext handles POST /v1/sessions/{id}/next. A gated move is reported
// with moved=false, not as an error.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, func(sess *store.Session) bool {
		return sess.Wizard.Next(sess.Store.Snapshot())
	})
}

// handlePrevious handles POST /v1/sessions/{id}/previous
func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, func(sess *store.Session) bool {
		return sess.Wizard.Previous(sess.Store.Snapshot())
	})
}

func (s *Server) move(w http.ResponseWriter, r *http.Request, step func(*store.Session) bool) {
	var moved bool
	v, err := s.sessions.Update(sessionID(r), func(sess *store.Session) error {
		moved = step(sess)
		return nil
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp := s.sessionResponse(v)
	resp.Moved = &moved
	s.writeJSON(w, resp, http.StatusOK)
}

// handleIncrementHubs handles POST /v1/sessions/{id}/smart-hubs/increment
func (s *Server) handleIncrementHubs(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(sess *store.Session) { sess.Store.IncrementSmartHubs() })
}

// handleDecrementHubs handles POST /v1/sessions/{id}/smart-hubs/decrement
func (s *Server) handleDecrementHubs(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(sess *store.Session) { sess.Store.DecrementSmartHubs() })
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*store.Session)) {
	v, err := s.sessions.Update(sessionID(r), func(sess *store.Session) error {
		fn(sess)
		return nil
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeJSON(w, s.sessionResponse(v), http.StatusOK)
}

// handleSubmit handles POST /v1/sessions/{id}/submit. The session is claimed
// under the registry lock so a repeated submit is refused while the cart call
// runs outside it. The claim is released if the cart fails; the session is
// removed only after it succeeds.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	v, err := s.sessions.Update(id, func(sess *store.Session) error {
		if sess.Submitting {
			return errors.New(errors.TypeConflict, "configuration is already being submitted")
		}
		cfg := sess.Store.Snapshot()
		if !sess.Wizard.IsLast(cfg) {
			return errors.New(errors.TypeConflict, "submit is only available on the last step").
				WithContext("current_step", string(sess.Wizard.Current()))
		}
		if err := s.engine.CheckSubmittable(cfg); err != nil {
			return err
		}
		sess.Submitting = true
		return nil
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	cfg := v.Configuration
	quote := s.engine.Quote(cfg)
	result, err := s.cart.Submit(r.Context(), &cart.Order{
		Configuration: cfg,
		Breakdown:     quote.Breakdown,
		Fingerprint:   quote.Fingerprint,
		SKU:           quote.SKU,
		Properties:    s.engine.Describe(cfg),
	})
	s.countSubmission(r, err)
	if err != nil {
		s.release(id)
		s.writeErr(w, r, err)
		return
	}

	if err := s.sessions.Delete(id); err != nil && !errors.IsType(err, errors.TypeNotFound) {
		s.logger.Warn("session cleanup failed", zap.String("session_id", id), zap.Error(err))
	}

	s.writeJSON(w, SubmitResponse{
		SessionID:   id,
		Fingerprint: quote.Fingerprint,
		SKU:         quote.SKU,
		Breakdown:   quote.Breakdown,
		Cart:        result,
	}, http.StatusOK)
}

// release clears a submit claim so the shopper can retry
func (s *Server) release(id string) {
	_, err := s.sessions.Update(id, func(sess *store.Session) error {
		sess.Submitting = false
		return nil
	})
	if err != nil {
		s.logger.Warn("submit claim not released", zap.String("session_id", id), zap.Error(err))
	}
}

func (s *Server) countSubmission(r *http.Request, err error) {
	if s.submissions == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(errors.TypeOf(err))
	}
	s.submissions.Add(r.Context(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
