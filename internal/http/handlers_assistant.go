package http

import (
	"net/http"

	"daftar/internal/assistant"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// handleAssistantAsk forwards the question to the assistant. One question
// at a time: a second concurrent ask gets 429 rather than queueing.
func (s *Server) handleAssistantAsk(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		respondError(w, r, assistant.ErrNotConfigured)
		return
	}

	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	answer, err := s.assistant.Ask(r.Context(), req.Question)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}
