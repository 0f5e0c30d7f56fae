// Package models provides data structures for the cigraph application.
// It defines the payload handed over by the host and the render records
// derived from it.
package models

// Entity labels recognised by the style taxonomy.
const (
	LabelCompany    = "Company"
	LabelProduct    = "Product"
	LabelPartner    = "Partner"
	LabelRegion     = "Region"
	LabelInvestment = "Investment"
)

// Relationship types recognised by the edge color table.
const (
	RelCompetesWith = "COMPETES_WITH"
	RelPartnersWith = "PARTNERS_WITH"
	RelInvestsIn    = "INVESTS_IN"
	RelOffers       = "OFFERS"
	RelUses         = "USES"
	RelOperatesIn   = "OPERATES_IN"
)

// Labels lists the fixed entity taxonomy in legend order.
var Labels = []string{LabelCompany, LabelProduct, LabelPartner, LabelRegion, LabelInvestment}

// PayloadNode is a raw node as supplied by the host
type PayloadNode struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// PayloadEdge is a raw directed relationship between two node ids
type PayloadEdge struct {
	Source       string `json:"source" yaml:"source"`
	Target       string `json:"target" yaml:"target"`
	Relationship string `json:"relationship" yaml:"relationship"`
}

// GraphPayload is the immutable input for one render cycle
type GraphPayload struct {
	Nodes []PayloadNode `json:"nodes" yaml:"nodes"`
	Edges []PayloadEdge `json:"edges" yaml:"edges"`
}

// ColorSet is the color triple used to paint a node
type ColorSet struct {
	Main      string `json:"main" yaml:"main" koanf:"main"`
	Border    string `json:"border" yaml:"border" koanf:"border"`
	Highlight string `json:"highlight" yaml:"highlight" koanf:"highlight"`
}

// NodeStyle holds the visual attributes of a rendered node
type NodeStyle struct {
	Colors      ColorSet `json:"colors"`
	Size        float64  `json:"size"`
	BorderColor string   `json:"borderColor"`
	BorderWidth float64  `json:"borderWidth"`
	FontSize    float64  `json:"fontSize"`
	Bold        bool     `json:"bold,omitempty"`
	Anchor      bool     `json:"anchor,omitempty"`
}

// EdgeStyle holds the visual attributes of a rendered edge
type EdgeStyle struct {
	LineColor  string  `json:"lineColor"`
	ArrowColor string  `json:"arrowColor"`
	Width      float64 `json:"width"`
}

// Position is a 2D coordinate on the rendering surface
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the record handed to the host when a node is selected
type NodeData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// RenderNode is the derived, style-annotated form of a payload node
type RenderNode struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Index    int       `json:"index"` // stagger index for entrance effects
	Style    NodeStyle `json:"style"`
	Position Position  `json:"position"`
	Locked   bool      `json:"locked"`
}

// RenderEdge is the derived, style-annotated form of a payload edge
type RenderEdge struct {
	ID           string    `json:"id"` // positional, e<i>
	Index        int       `json:"index"`
	Source       string    `json:"source"`
	Target       string    `json:"target"`
	Relationship string    `json:"relationship"`
	Style        EdgeStyle `json:"style"`
}

// Layout is a frozen set of node positions computed for one payload
type Layout struct {
	positions map[string]Position
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}
