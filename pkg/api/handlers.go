package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
	"github.com/dd0wney/cluso-netanalytics/pkg/api/middleware"
	"github.com/dd0wney/cluso-netanalytics/pkg/contactstore"
	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
	"github.com/dd0wney/cluso-netanalytics/pkg/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// requestError is an error whose message is safe to return to the client.
type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

// network is a decoded request graph with its contacts.
type network struct {
	graph    *graph.NetworkGraph
	contacts graph.Contacts
}

// decodeNetwork reads a graph document from the request body. YAML is
// accepted when the Content-Type says so; JSON otherwise.
func decodeNetwork(r *http.Request) (*network, error) {
	format := graph.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = graph.FormatYAML
	}

	doc, err := graph.DecodeDocument(r.Body, format)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, &requestError{status: http.StatusRequestEntityTooLarge, err: errors.New("request body too large")}
		}
		return nil, badRequest("invalid request body: %v", err)
	}
	if err := validation.ValidateDocument(doc); err != nil {
		return nil, badRequest("%v", err)
	}

	g, err := doc.Graph()
	if err != nil {
		return nil, badRequest("invalid network: %v", err)
	}
	return &network{graph: g, contacts: doc.ContactSet(g)}, nil
}

// loadNetwork reads the owner's network from the contact store.
func (s *Server) loadNetwork(r *http.Request) (*network, error) {
	if s.loader == nil {
		return nil, &requestError{status: http.StatusNotFound, err: errors.New("contact store is not configured")}
	}
	g, contacts, err := s.loader.LoadNetwork(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		if errors.Is(err, contactstore.ErrEmptyOwner) || graph.IsInputError(err) {
			return nil, badRequest("%v", err)
		}
		return nil, err
	}
	return &network{graph: g, contacts: contacts}, nil
}

// topParam parses the optional top query parameter. Zero means no limit.
func topParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest("top must be a non-negative integer, got %q", raw)
	}
	return n, nil
}

type networkSource func(r *http.Request) (*network, error)

func (s *Server) influence(source networkSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, err := topParam(r)
		if err != nil {
			s.handleError(w, r, "influence", err)
			return
		}
		n, err := source(r)
		if err != nil {
			s.handleError(w, r, "influence", err)
			return
		}

		ranked, err := s.engine.RankInfluence(r.Context(), n.graph)
		if err != nil {
			s.handleError(w, r, "influence", err)
			return
		}
		scores := make(map[string]float64, len(ranked))
		for _, sc := range ranked {
			scores[sc.NodeID] = sc.Score
		}
		if top > 0 {
			ranked = algorithms.TopInfluencers(ranked, top)
		}
		s.respondJSON(w, http.StatusOK, InfluenceResponse{Scores: scores, Ranking: ranked})
	}
}

func (s *Server) communities(source networkSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := source(r)
		if err != nil {
			s.handleError(w, r, "communities", err)
			return
		}
		result, err := s.engine.Communities(r.Context(), n.graph, n.contacts)
		if err != nil {
			s.handleError(w, r, "communities", err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) analyze(source networkSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, err := topParam(r)
		if err != nil {
			s.handleError(w, r, "analyze", err)
			return
		}
		n, err := source(r)
		if err != nil {
			s.handleError(w, r, "analyze", err)
			return
		}
		report, err := s.engine.Analyze(r.Context(), n.graph, n.contacts)
		if err != nil {
			s.handleError(w, r, "analyze", err)
			return
		}
		if top > 0 {
			report.Influence = algorithms.TopInfluencers(report.Influence, top)
		}
		s.respondJSON(w, http.StatusOK, report)
	}
}

func (s *Server) handleInfluence(w http.ResponseWriter, r *http.Request) {
	s.influence(decodeNetwork)(w, r)
}

func (s *Server) handleCommunities(w http.ResponseWriter, r *http.Request) {
	s.communities(decodeNetwork)(w, r)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.analyze(decodeNetwork)(w, r)
}

func (s *Server) handleOwnerInfluence(w http.ResponseWriter, r *http.Request) {
	s.influence(s.loadNetwork)(w, r)
}

func (s *Server) handleOwnerCommunities(w http.ResponseWriter, r *http.Request) {
	s.communities(s.loadNetwork)(w, r)
}

func (s *Server) handleOwnerAnalyze(w http.ResponseWriter, r *http.Request) {
	s.analyze(s.loadNetwork)(w, r)
}

// handleError maps err to a status code. Client errors are echoed; anything
// else is logged and replaced by a generic message.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		s.respondError(w, r, reqErr.status, reqErr.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request aborted",
			logging.String("operation", operation),
			logging.String("request_id", middleware.GetRequestID(r)),
			logging.Error(err))
		s.respondError(w, r, http.StatusServiceUnavailable, operation+" aborted")
	default:
		s.logger.Error("request failed",
			logging.String("operation", operation),
			logging.String("request_id", middleware.GetRequestID(r)),
			logging.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, operation+" failed")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetRequestID(r),
	})
}
