package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/TFMV/cigraph/ingest"
	"github.com/TFMV/cigraph/interact"
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/physics"
	"github.com/TFMV/cigraph/render"
	"github.com/TFMV/cigraph/view"
)

const maxUploadBytes = 10 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message types exchanged over /ws.
const (
	msgPatch  = "patch"
	msgSelect = "select"
	msgReset  = "reset"
	msgError  = "error"
)

// eventRequest is a pointer event from a rendering surface.
type eventRequest struct {
	Type string `json:"type"` // enter, leave or tap
	ID   string `json:"id"`
}

type patchMessage struct {
	Type  string     `json:"type"`
	Patch view.Patch `json:"patch"`
}

type selectMessage struct {
	Type string          `json:"type"`
	Node models.NodeData `json:"node"`
}

type resetMessage struct {
	Type     string `json:"type"`
	Revision int    `json:"revision"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// payloadResponse summarises a payload replacement.
type payloadResponse struct {
	ViewID     string `json:"viewId"`
	Revision   int    `json:"revision"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Algorithm  string `json:"algorithm"`
	Iterations int    `json:"iterations"`
	Stable     bool   `json:"stable"`
	ElapsedMS  int64  `json:"elapsedMs"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Snapshot())
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Overlay())
}

// handlePutGraph replaces the payload. The body is JSON unless ?format=
// names another ingest format; ?company= keeps only that company's edges.
func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	payload, err := ingest.Decode(http.MaxBytesReader(w, r.Body, maxUploadBytes), format)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ingest.ErrUnsupportedInput) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, status, err.Error())
		return
	}
	s.replace(w, payload.Subgraph(r.URL.Query().Get("company")))
}

// handleUpload accepts a payload file as multipart field dataFile; the
// format follows the file extension.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "error parsing form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("dataFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "error retrieving file: "+err.Error())
		return
	}
	defer file.Close()

	payload, err := ingest.Decode(file, ingest.FormatFromPath(header.Filename))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ingest.ErrUnsupportedInput) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, status, "error processing file: "+err.Error())
		return
	}
	s.replace(w, payload.Subgraph(r.URL.Query().Get("company")))
}

func (s *Server) handlePartners(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"company_a":       a,
		"company_b":       b,
		"common_partners": s.Payload().CommonPartners(a, b),
	})
}

func (s *Server) handleExposure(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	if entity == "" {
		writeError(w, http.StatusBadRequest, "query parameter entity is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entity":   entity,
		"exposure": s.Payload().ExposureTo(entity),
	})
}

func (s *Server) replace(w http.ResponseWriter, payload *models.GraphPayload) {
	stats := s.SetPayload(payload)
	writeJSON(w, http.StatusOK, s.payloadSummary(stats))
}

func (s *Server) payloadSummary(stats physics.Stats) payloadResponse {
	snap := s.view.Snapshot()
	return payloadResponse{
		ViewID:     snap.ViewID,
		Revision:   snap.Revision,
		Nodes:      len(snap.Nodes),
		Edges:      len(snap.Edges),
		Algorithm:  stats.Algorithm,
		Iterations: stats.Iterations,
		Stable:     stats.Stable,
		ElapsedMS:  stats.Elapsed.Milliseconds(),
	}
}

// dispatch runs one pointer event and broadcasts the resulting patch.
func (s *Server) dispatch(req eventRequest) (view.Patch, error) {
	kind, err := interact.ParseEventKind(req.Type)
	if err != nil {
		return view.Patch{}, err
	}
	if req.ID == "" {
		return view.Patch{}, errors.New("event id is required")
	}
	patch := s.view.Dispatch(interact.Event{Kind: kind, NodeID: req.ID})
	s.hub.broadcast(patchMessage{Type: msgPatch, Patch: patch})
	return patch, nil
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event: "+err.Error())
		return
	}
	patch, err := s.dispatch(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, patch)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	id, ws := s.hub.add(conn)
	defer s.hub.remove(id)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read", "session", id, "err", err)
			}
			return
		}

		var req eventRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError(ws, "invalid message format")
			continue
		}
		if _, err := s.dispatch(req); err != nil {
			s.sendError(ws, err.Error())
		}
	}
}

func (s *Server) sendError(ws socket, message string) {
	data, err := json.Marshal(errorMessage{Type: msgError, Error: message})
	if err != nil {
		return
	}
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warn("websocket write", "err", err)
	}
}

func (s *Server) renderOptions(format string, r *http.Request) *render.OutputOptions {
	opts := render.NewDefaultOptions(format)
	if s.cfg.Background != "" {
		opts.Background = s.cfg.Background
	}
	if s.cfg.Title != "" {
		opts.Title = s.cfg.Title
	}
	q := r.URL.Query()
	flag := func(name string, dst *bool) {
		if v := q.Get(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	flag("labels", &opts.ShowLabels)
	flag("edgeLabels", &opts.ShowEdgeLabels)
	flag("legend", &opts.ShowLegend)
	flag("tooltip", &opts.ShowTooltip)
	opts.WebSocketURL = "/ws"
	opts.EventsURL = "/api/graph/events"
	return opts
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.writeRender(w, r, chi.URLParam(r, "format"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeRender(w, r, "html")
}

func (s *Server) writeRender(w http.ResponseWriter, r *http.Request, format string) {
	renderer, err := render.GetRenderer(format)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	out, err := renderer.Render(s.view.Snapshot(), s.renderOptions(format, r))
	if err != nil {
		s.log.Error("render failed", "format", format, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Write(out)
}
