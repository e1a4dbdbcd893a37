package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/progression"
)

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.engine.Tree()
	if !ok {
		respondNotReady(w)
		return
	}
	respondJSON(w, http.StatusOK, tree)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.engine.Record()
	if !ok {
		respondNotReady(w)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Ready() {
		respondNotReady(w)
		return
	}
	id := mux.Vars(r)["id"]
	node, ok := s.engine.Node(id)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown node "+id)
		return
	}
	respondJSON(w, http.StatusOK, node)
}

func (s *Server) handleNodeAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var res progression.Result
	switch vars["action"] {
	case "unlock":
		res = s.engine.Unlock(id)
	case "activate":
		res = s.engine.Activate(id)
	case "deactivate":
		res = s.engine.Deactivate(id)
	}
	respondJSON(w, resultStatus(res), res)
}

// resultStatus maps an operation outcome to an HTTP status. Idempotent
// no-ops are successes.
func resultStatus(res progression.Result) int {
	switch {
	case res.OK:
		return http.StatusOK
	case res.Reason == progression.ReasonNotReady:
		return http.StatusServiceUnavailable
	case res.Reason == progression.ReasonUnknownNode:
		return http.StatusNotFound
	case res.Reason == progression.ReasonNonPositiveAmount:
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CharacterLevel int `json:"character_level"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	if req.CharacterLevel < 0 {
		respondError(w, http.StatusBadRequest, "character_level must not be negative")
		return
	}
	run, ok := s.engine.ResetActiveSkills(req.CharacterLevel)
	if !ok {
		respondNotReady(w)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

type amountRequest struct {
	Amount int    `json:"amount"`
	Source string `json:"source"`
}

func decodeAmount(w http.ResponseWriter, r *http.Request) (amountRequest, bool) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	if req.Source == "" {
		req.Source = "api"
	}
	return req, true
}

func (s *Server) handleAddReputation(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAmount(w, r)
	if !ok {
		return
	}
	res := s.engine.AddReputation(req.Amount, req.Source)
	respondJSON(w, resultStatus(res), res)
}

func (s *Server) handleAddSkillPoints(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAmount(w, r)
	if !ok {
		return
	}
	res := s.engine.AddSkillPoints(req.Amount, req.Source)
	respondJSON(w, resultStatus(res), res)
}

func (s *Server) handleEffects(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Ready() {
		respondNotReady(w)
		return
	}
	respondJSON(w, http.StatusOK, s.engine.Effects())
}

// effectResponse describes one effect type.
type effectResponse struct {
	Type          effects.Type           `json:"type"`
	Category      string                 `json:"category"`
	Value         effects.Value          `json:"value"`
	Contributions []effects.Contribution `json:"contributions"`
}

func (s *Server) handleEffect(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Ready() {
		respondNotReady(w)
		return
	}
	t := effects.Type(mux.Vars(r)["type"])
	contribs := s.engine.Contributions(t)
	if contribs == nil {
		contribs = []effects.Contribution{}
	}
	respondJSON(w, http.StatusOK, effectResponse{
		Type:          t,
		Category:      s.engine.Catalog().Category(t).String(),
		Value:         s.engine.EffectValue(t),
		Contributions: contribs,
	})
}

func (s *Server) handleSpecialization(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Ready() {
		respondNotReady(w)
		return
	}
	id := mux.Vars(r)["id"]
	spec, ok := s.engine.Specialization(id)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown specialization "+id)
		return
	}
	respondJSON(w, http.StatusOK, spec)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	id := s.engine.SaveProgress()
	if id == "" {
		respondNotReady(w)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"save_id": id})
}
