package handlers

import (
	"net/http"

	"github.com/djbqrex/Lingua-Local/pkg/tutor/prompt"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/voices"
)

// VoicesHandler handles GET /api/conversation/voices: the voice catalog
// plus the option lists clients need to populate their setup UI.
type VoicesHandler struct{}

type voicesResponse struct {
	Voices      map[string][]voices.Voice `json:"voices"`
	Styles      []string                  `json:"styles"`
	Languages   []string                  `json:"languages"`
	Scenarios   []string                  `json:"scenarios"`
	Intensities []string                  `json:"intensities"`
}

func (h VoicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, voicesResponse{
		Voices:      voices.Catalog(),
		Styles:      voices.Styles(),
		Languages:   prompt.SupportedLanguages(),
		Scenarios:   prompt.Scenarios(),
		Intensities: prompt.Intensities(),
	})
}
