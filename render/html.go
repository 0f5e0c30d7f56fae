package render

import (
	"bytes"
	"html/template"

	json "github.com/goccy/go-json"

	"github.com/TFMV/cigraph/view"
)

// HTMLRenderer outputs an interactive Cytoscape page
type HTMLRenderer struct{}

// Name returns the name of the renderer
func (r *HTMLRenderer) Name() string {
	return "HTML Renderer"
}

// Description returns a description of the renderer
func (r *HTMLRenderer) Description() string {
	return "Renders an interactive page with locked preset positions, legend, tooltip and hover emphasis"
}

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

type htmlPage struct {
	Title          string
	Background     string
	Document       template.JS
	Snapshot       *view.Snapshot
	ShowLegend     bool
	ShowEdgeLabels bool
	WebSocketURL   string
	EventsURL      string
}

// Render creates the page. Styles and positions are inlined from the
// snapshot; hover emphasis is computed server side and arrives as patches
// over the WebSocket (or the events endpoint when no socket is configured).
func (r *HTMLRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	doc, err := json.Marshal(cytoscapeDocument(snap))
	if err != nil {
		return nil, err
	}
	page := htmlPage{
		Title:          options.Title,
		Background:     hexColor(options.Background),
		Document:       template.JS(doc),
		Snapshot:       snap,
		ShowLegend:     options.ShowLegend,
		ShowEdgeLabels: options.ShowEdgeLabels,
		WebSocketURL:   options.WebSocketURL,
		EventsURL:      options.EventsURL,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/cytoscape/3.30.2/cytoscape.min.js"></script>
    <style>
        body, html { margin: 0; padding: 0; height: 100%; overflow: hidden; font-family: sans-serif; }
        #graph { position: absolute; inset: 0; background: {{.Background}}; }
        #legend { position: absolute; bottom: 16px; left: 16px; display: flex; flex-wrap: wrap; gap: 12px; font-size: 12px; color: #94a3b8; }
        #legend .swatch { display: inline-block; width: 12px; height: 12px; border-radius: 50%; margin-right: 6px; vertical-align: middle; }
        #tooltip { position: absolute; top: 16px; right: 16px; min-width: 160px; padding: 12px; border-radius: 10px;
                   background: rgba(10, 10, 20, 0.85); border: 1px solid rgba(124, 58, 237, 0.3); display: none; }
        #tooltip .name { font-size: 14px; font-weight: 600; }
        #tooltip .type { font-size: 12px; margin-top: 4px; color: #94a3b8; }
    </style>
</head>
<body>
    <div id="graph"></div>
    {{if .ShowLegend}}<div id="legend">{{range .Snapshot.Legend}}
        <div><span class="swatch" style="background-color: {{.Color}}"></span>{{.Label}}</div>{{end}}
    </div>{{end}}
    <div id="tooltip"><div class="name"></div><div class="type"></div></div>
    <script>
    const doc = {{.Document}};
    const wsURL = {{.WebSocketURL}};
    const eventsURL = {{.EventsURL}};

    const cy = cytoscape({
        container: document.getElementById('graph'),
        elements: doc.elements,
        layout: { name: 'preset', fit: true, padding: 60 },
        autolock: true,
        autoungrabify: true,
        wheelSensitivity: 0.3,
        style: [
            { selector: 'node', style: {
                'label': 'data(name)', 'text-valign': 'bottom', 'text-halign': 'center',
                'color': '#cbd5e1', 'text-margin-y': 8, 'text-outline-width': 2,
                'text-outline-color': '#0a0a14', 'background-opacity': 0.9,
                'transition-property': 'background-color, border-color, width, height',
                'transition-duration': '0.3s' } },
            { selector: 'edge', style: {
                'target-arrow-shape': 'triangle', 'curve-style': 'bezier',
                {{if .ShowEdgeLabels}}'label': 'data(relationship)', {{end}}'font-size': '8px', 'color': '#64748b',
                'text-rotation': 'autorotate', 'text-outline-width': 1.5, 'text-outline-color': '#0a0a14',
                'transition-property': 'line-color, width', 'transition-duration': '0.3s' } },
            { selector: 'node:active', style: { 'overlay-opacity': 0 } }
        ]
    });
    cy.nodes().ungrabify();
    cy.autolock(true);

    const tooltip = document.getElementById('tooltip');
    function showTooltip(t) {
        if (!t || !t.visible) { tooltip.style.display = 'none'; return; }
        tooltip.querySelector('.name').textContent = t.name;
        tooltip.querySelector('.name').style.color = t.color;
        tooltip.querySelector('.type').textContent = 'Type: ' + t.type;
        tooltip.style.display = 'block';
    }

    function applyPatch(p) {
        (p.nodes || []).forEach(n => cy.getElementById(n.id).style({
            'width': n.style.size, 'height': n.style.size,
            'border-width': n.style.borderWidth, 'border-color': n.style.borderColor }));
        (p.edges || []).forEach(e => cy.getElementById(e.id).style({
            'width': e.style.width, 'line-color': e.style.lineColor,
            'target-arrow-color': e.style.arrowColor }));
        showTooltip(p.tooltip);
    }

    let ws = null;
    if (wsURL) {
        const url = new URL(wsURL, window.location.href);
        url.protocol = url.protocol.replace('http', 'ws');
        ws = new WebSocket(url);
        ws.onmessage = (msg) => {
            const m = JSON.parse(msg.data);
            if (m.type === 'patch') applyPatch(m.patch);
            if (m.type === 'reset' && m.revision !== doc.revision) window.location.reload();
        };
    }

    function send(type, id) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify({ type: type, id: id }));
            return;
        }
        if (eventsURL) {
            fetch(eventsURL, { method: 'POST', headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ type: type, id: id }) })
                .then(r => r.json()).then(applyPatch).catch(() => {});
        }
    }

    cy.on('mouseover', 'node', (evt) => send('enter', evt.target.id()));
    cy.on('mouseout', 'node', (evt) => send('leave', evt.target.id()));
    cy.on('tap', 'node', (evt) => send('tap', evt.target.id()));
    showTooltip(doc.tooltip);
    </script>
</body>
</html>
`))
