package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/TFMV/cigraph/config"
	"github.com/TFMV/cigraph/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	cfgPath := filepath.Join(t.TempDir(), "cigraph.yml")
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestDemoToStdout(t *testing.T) {
	out, err := run(t, "demo")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	var payload models.GraphPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode demo output: %v", err)
	}
	if len(payload.Nodes) != 27 || len(payload.Edges) != 34 {
		t.Errorf("expected 27 nodes and 34 edges, got %d and %d", len(payload.Nodes), len(payload.Edges))
	}
}

func TestRenderASCIIToStdout(t *testing.T) {
	out, err := run(t, "render", "--format", "ascii", "--output", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "@") {
		t.Errorf("expected the anchor marker in ASCII output:\n%s", out)
	}
}

func TestRenderSVGFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "graph.csv")
	csv := "src_label,src_name,relationship,dst_label,dst_name\n" +
		"Company,Infosys,OFFERS,Product,Topaz\n" +
		"Company,TCS,COMPETES_WITH,Company,Infosys\n"
	if err := os.WriteFile(data, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.svg")

	out, err := run(t, "render", "--data", data, "--output", output, "--hover", "Topaz")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "3 nodes, 2 edges") {
		t.Errorf("unexpected summary %q", out)
	}
	svg, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Type: Product") {
		t.Error("expected an SVG with the hover tooltip")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := run(t, "render", "--format", "webgl", "--output", "-"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestInspectReportsProblems(t *testing.T) {
	data := filepath.Join(t.TempDir(), "graph.json")
	payload := `{
  "nodes": [
    {"id": "infosys", "name": "Infosys", "label": "Company"},
    {"id": "infosys", "name": "Infosys again", "label": "Company"},
    {"id": "m", "name": "Mystery", "label": "Startup"}
  ],
  "edges": [
    {"source": "infosys", "target": "ghost", "relationship": "USES"}
  ]
}`
	if err := os.WriteFile(data, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "inspect", "--data", data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Skipped nodes", "duplicate node id", "Dangling edges", "ghost", "Other (1)", "[anchor]"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cigraph.yml")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Anchor != "Infosys" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected config %+v", cfg)
	}

	root = NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "init"})
	if err := root.Execute(); err == nil {
		t.Error("expected init to refuse an existing file")
	}
}

func TestOutputExtension(t *testing.T) {
	cases := map[string]string{"svg": "svg", "html": "html", "echarts": "html", "ascii": "txt", "PNG": "png"}
	for format, want := range cases {
		if got := outputExtension(format); got != want {
			t.Errorf("outputExtension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestLoadPayloadCompanyFilter(t *testing.T) {
	payload, source, err := loadPayload("", "wipro")
	if err != nil {
		t.Fatal(err)
	}
	if len(payload.Nodes) != 6 || len(payload.Edges) != 5 {
		t.Errorf("expected 6 nodes and 5 edges, got %d and %d", len(payload.Nodes), len(payload.Edges))
	}
	if !strings.Contains(source, "company wipro") {
		t.Errorf("source = %q", source)
	}
}

func TestRenderCompanyFlag(t *testing.T) {
	output := filepath.Join(t.TempDir(), "wipro.svg")
	out, err := run(t, "render", "--company", "Wipro", "--output", output)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "6 nodes, 5 edges") {
		t.Errorf("unexpected summary %q", out)
	}
}
