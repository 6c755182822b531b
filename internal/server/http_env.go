package server

import (
	"errors"
	"net/http"

	"github.com/groblegark/srvenv/internal/envconf"
	"github.com/groblegark/srvenv/internal/events"
)

// handleListSections handles GET /v1/env/sections.
func (s *EnvServer) handleListSections(w http.ResponseWriter, _ *http.Request) {
	sections := s.env.Sections()
	if sections == nil {
		sections = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// handleGetSection handles GET /v1/env/sections/{name}. Values of
// secret-looking keys are always masked in the response.
func (s *EnvServer) handleGetSection(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	values, err := s.env.SectionValues(name, true)
	if err != nil {
		if errors.Is(err, envconf.ErrNotFound) {
			writeError(w, http.StatusNotFound, "section not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read section")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"section": name,
		"values":  values,
	})
}

// handleReloadEnv handles POST /v1/env/reload: re-read the configuration
// sources. A failed reload keeps the previous contents in place.
func (s *EnvServer) handleReloadEnv(w http.ResponseWriter, r *http.Request) {
	if err := s.env.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sections := s.env.Sections()
	s.recordAndPublish(r.Context(), events.TopicEnvReloaded, "", "", events.EnvReloaded{Sections: len(sections)})

	writeJSON(w, http.StatusOK, map[string]any{"sections": len(sections)})
}
