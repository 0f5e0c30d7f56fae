package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/TFMV/cigraph/logging"
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/view"
)

const samplePayload = `{
  "nodes": [
    {"id": "infosys", "name": "Infosys", "label": "Company"},
    {"id": "topaz", "name": "Topaz", "label": "Product"},
    {"id": "tcs", "name": "TCS", "label": "Company"}
  ],
  "edges": [
    {"source": "infosys", "target": "topaz", "relationship": "OFFERS"},
    {"source": "tcs", "target": "infosys", "relationship": "COMPETES_WITH"}
  ]
}`

type selections struct {
	mu    sync.Mutex
	nodes []models.NodeData
}

func (s *selections) record(n models.NodeData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, n)
}

func (s *selections) all() []models.NodeData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.NodeData(nil), s.nodes...)
}

func setupTest(t *testing.T) (*Server, *selections) {
	t.Helper()
	sel := &selections{}
	s := New(Config{AllowAll: true}, view.Options{
		Anchor:   "Infosys",
		Logger:   logging.Discard(),
		OnSelect: sel.record,
	})
	return s, sel
}

func do(t *testing.T, s *Server, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := setupTest(t)
	w := do(t, s, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestPutAndGetGraph(t *testing.T) {
	s, _ := setupTest(t)

	w := do(t, s, http.MethodPut, "/api/graph", "application/json", []byte(samplePayload))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var summary payloadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Nodes != 3 || summary.Edges != 2 || summary.Revision != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}

	w = do(t, s, http.MethodGet, "/api/graph", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET: expected 200, got %d", w.Code)
	}
	var snap view.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(snap.Nodes))
	}
	for _, n := range snap.Nodes {
		if !n.Locked {
			t.Errorf("node %s not locked", n.ID)
		}
	}
	if snap.Nodes[0].Style.Size != 65 {
		t.Errorf("anchor size = %v, want 65", snap.Nodes[0].Style.Size)
	}
}

func TestPutGraphErrors(t *testing.T) {
	s, _ := setupTest(t)
	if w := do(t, s, http.MethodPut, "/api/graph", "application/json", []byte(`{"nodes": [`)); w.Code != http.StatusBadRequest {
		t.Errorf("truncated JSON: expected 400, got %d", w.Code)
	}
	if w := do(t, s, http.MethodPut, "/api/graph?format=xml", "", []byte(`<graph/>`)); w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("unknown format: expected 415, got %d", w.Code)
	}
}

func TestPutGraphCSV(t *testing.T) {
	s, _ := setupTest(t)
	body := []byte("Company,Infosys,OFFERS,Product,Topaz\nCompany,TCS,COMPETES_WITH,Company,Infosys\n")
	w := do(t, s, http.MethodPut, "/api/graph?format=csv", "text/csv", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := len(s.View().Snapshot().Nodes); got != 3 {
		t.Errorf("expected 3 nodes, got %d", got)
	}
}

func TestPutGraphCompanyFilter(t *testing.T) {
	s, _ := setupTest(t)
	w := do(t, s, http.MethodPut, "/api/graph?company=topaz", "application/json", []byte(samplePayload))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	snap := s.View().Snapshot()
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d and %d", len(snap.Nodes), len(snap.Edges))
	}
	if _, ok := snap.NodeByID("tcs"); ok {
		t.Error("tcs has no edge touching Topaz and should be filtered out")
	}
}

func TestPartnersAndExposure(t *testing.T) {
	s, _ := setupTest(t)
	s.SetPayload(&models.GraphPayload{
		Nodes: []models.PayloadNode{
			{Name: "Infosys", Label: "Company"},
			{Name: "TCS", Label: "Company"},
			{Name: "AWS", Label: "Partner"},
		},
		Edges: []models.PayloadEdge{
			{Source: "Infosys", Target: "AWS", Relationship: "PARTNERS_WITH"},
			{Source: "TCS", Target: "AWS", Relationship: "PARTNERS_WITH"},
		},
	})

	w := do(t, s, http.MethodGet, "/api/graph/partners?a=Infosys&b=TCS", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("partners: expected 200, got %d", w.Code)
	}
	var partners struct {
		Common []string `json:"common_partners"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &partners); err != nil {
		t.Fatal(err)
	}
	if len(partners.Common) != 1 || partners.Common[0] != "AWS" {
		t.Errorf("common partners = %v", partners.Common)
	}

	w = do(t, s, http.MethodGet, "/api/graph/exposure?entity=AWS", "", nil)
	var exposure struct {
		Exposure []models.Exposure `json:"exposure"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &exposure); err != nil {
		t.Fatal(err)
	}
	if len(exposure.Exposure) != 2 || exposure.Exposure[1].Company != "TCS" {
		t.Errorf("exposure = %+v", exposure.Exposure)
	}

	if w := do(t, s, http.MethodGet, "/api/graph/partners?a=Infosys", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing b: expected 400, got %d", w.Code)
	}
}

func TestUpload(t *testing.T) {
	s, _ := setupTest(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("dataFile", "graph.yaml")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("nodes:\n  - name: Infosys\n    label: Company\nedges: []\n"))
	mw.Close()

	w := do(t, s, http.MethodPost, "/api/graph/upload", mw.FormDataContentType(), body.Bytes())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := s.View().Snapshot().NodeByID("Infosys"); !ok {
		t.Error("uploaded node missing")
	}
}

func postEvent(t *testing.T, s *Server, typ, id string) (*httptest.ResponseRecorder, view.Patch) {
	t.Helper()
	body, _ := json.Marshal(eventRequest{Type: typ, ID: id})
	w := do(t, s, http.MethodPost, "/api/graph/events", "application/json", body)
	var patch view.Patch
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &patch); err != nil {
			t.Fatalf("decode patch: %v", err)
		}
	}
	return w, patch
}

func TestEventsHoverAndTap(t *testing.T) {
	s, sel := setupTest(t)
	do(t, s, http.MethodPut, "/api/graph", "application/json", []byte(samplePayload))

	w, patch := postEvent(t, s, "enter", "topaz")
	if w.Code != http.StatusOK {
		t.Fatalf("enter: expected 200, got %d", w.Code)
	}
	if patch.State != "Focused(topaz)" {
		t.Errorf("state = %q", patch.State)
	}
	if !patch.Tooltip.Visible || patch.Tooltip.Name != "Topaz" || patch.Tooltip.Type != models.LabelProduct {
		t.Errorf("tooltip = %+v", patch.Tooltip)
	}
	if len(patch.Nodes) != 1 || patch.Nodes[0].Style.Size != 60 {
		t.Errorf("expected emphasized topaz in patch, got %+v", patch.Nodes)
	}

	_, patch = postEvent(t, s, "leave", "topaz")
	if patch.State != "Idle" || patch.Tooltip.Visible {
		t.Errorf("after leave: state %q tooltip %+v", patch.State, patch.Tooltip)
	}

	_, patch = postEvent(t, s, "tap", "tcs")
	if patch.Selected == nil || patch.Selected.ID != "tcs" {
		t.Errorf("selected = %+v", patch.Selected)
	}
	got := sel.all()
	if len(got) != 1 || got[0] != (models.NodeData{ID: "tcs", Name: "TCS", Label: models.LabelCompany}) {
		t.Errorf("host selections = %+v", got)
	}
}

func TestEventsRejectBadInput(t *testing.T) {
	s, _ := setupTest(t)
	if w, _ := postEvent(t, s, "hover", "x"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown type: expected 400, got %d", w.Code)
	}
	if w, _ := postEvent(t, s, "enter", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing id: expected 400, got %d", w.Code)
	}
}

func TestRender(t *testing.T) {
	s, _ := setupTest(t)
	do(t, s, http.MethodPut, "/api/graph", "application/json", []byte(samplePayload))

	w := do(t, s, http.MethodGet, "/render/svg?legend=false", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if strings.Contains(w.Body.String(), "Investment") {
		t.Error("legend drawn despite legend=false")
	}

	if w := do(t, s, http.MethodGet, "/render/webgl", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown format: expected 404, got %d", w.Code)
	}

	w = do(t, s, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "cytoscape") {
		t.Errorf("index: %d", w.Code)
	}
}

type wsMessage struct {
	Type     string          `json:"type"`
	Patch    view.Patch      `json:"patch"`
	Node     models.NodeData `json:"node"`
	Revision int             `json:"revision"`
	Error    string          `json:"error"`
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWebSocketEvents(t *testing.T) {
	s, sel := setupTest(t)
	s.SetPayload(&models.GraphPayload{
		Nodes: []models.PayloadNode{{ID: "a", Name: "A", Label: "Company"}, {ID: "b", Name: "B", Label: "Region"}},
		Edges: []models.PayloadEdge{{Source: "a", Target: "b", Relationship: "OPERATES_IN"}},
	})
	server := httptest.NewServer(s.Router())
	defer server.Close()

	conn := dialWS(t, server)
	defer conn.Close()

	if err := conn.WriteJSON(eventRequest{Type: "enter", ID: "a"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != msgPatch || msg.Patch.State != "Focused(a)" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(msg.Patch.Edges) != 1 || msg.Patch.Edges[0].Style.Width != 3 {
		t.Errorf("incident edge not emphasized: %+v", msg.Patch.Edges)
	}

	if err := conn.WriteJSON(eventRequest{Type: "tap", ID: "b"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	types := map[string]int{}
	for i := 0; i < 2; i++ {
		var m wsMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		types[m.Type]++
		if m.Type == msgSelect && m.Node.ID != "b" {
			t.Errorf("select broadcast for %q", m.Node.ID)
		}
	}
	if types[msgSelect] != 1 || types[msgPatch] != 1 {
		t.Errorf("expected one select and one patch, got %v", types)
	}
	if got := sel.all(); len(got) != 1 {
		t.Errorf("expected exactly one host selection, got %d", len(got))
	}

	if err := conn.WriteJSON(eventRequest{Type: "wiggle", ID: "a"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var errMsg wsMessage
	if err := conn.ReadJSON(&errMsg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if errMsg.Type != msgError {
		t.Errorf("expected error message, got %+v", errMsg)
	}

	s.SetPayload(&models.GraphPayload{})
	var reset wsMessage
	if err := conn.ReadJSON(&reset); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reset.Type != msgReset || reset.Revision != 2 {
		t.Errorf("expected reset for revision 2, got %+v", reset)
	}
}
