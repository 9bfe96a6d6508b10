package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/abhisek/fgstudy/internal/quiz"
)

type summarizeRequest struct {
	Notes string `json:"notes"`
}

type explainRequest struct {
	Topic string `json:"topic"`
}

type generateRequest struct {
	Text              string `json:"text"`
	NumberOfQuestions *int   `json:"numberOfQuestions"`
}

type selectAnswerRequest struct {
	Option string `json:"option"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.registry.Len(),
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.opts.Summarizer.Summarize(r.Context(), req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.opts.Explainer.Explain(r.Context(), req.Topic)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) questionCount(req generateRequest) int {
	if req.NumberOfQuestions == nil {
		return s.opts.DefaultQuestions
	}
	return *req.NumberOfQuestions
}

// handleCreateQuiz starts a session and generates its first quiz. Sessions
// whose first generation fails are not registered.
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var opts []quiz.Option
	if s.opts.Observer != nil {
		opts = append(opts, quiz.WithObserver(s.opts.Observer))
	}
	sess := quiz.NewSession(s.opts.Source, opts...)

	if err := sess.Generate(r.Context(), req.Text, s.questionCount(req)); err != nil {
		s.writeError(w, err)
		return
	}

	s.registry.Add(sess)
	s.logger.Info("quiz session created",
		zap.String("session_id", sess.ID()),
		zap.Int("questions", len(sess.Questions())),
	)
	s.writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// handleRegenerate replaces the session's quiz with a new one. A request
// that is overtaken by a later one for the same session gets a 409.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := sess.Generate(r.Context(), req.Text, s.questionCount(req)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if !s.registry.Remove(mux.Vars(r)["id"]) {
		s.writeError(w, errSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: question index", errBadRequest))
		return
	}
	var req selectAnswerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := sess.SelectAnswer(index, req.Option); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.CheckAnswers(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleRetake(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Retake(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(sess.Transcript()))
}

// session looks up the {id} route variable, writing a 404 when absent.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	sess, ok := s.registry.Get(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, errSessionNotFound)
		return nil, false
	}
	return sess, true
}
