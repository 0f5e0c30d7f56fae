package physics

import (
	"math"
	"sync"
	"time"

	"github.com/TFMV/cigraph/graph"
	"github.com/TFMV/cigraph/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// LayoutAlgorithm defines an interface for layout algorithms
type LayoutAlgorithm interface {
	Initialize(el *graph.Elements)
	Step() bool // Returns true if stable or out of iterations
	Apply(el *graph.Elements)
	GetName() string
}

// Config holds the layout parameters
type Config struct {
	Width           float64
	Height          float64
	Padding         float64
	MaxIterations   int
	IdealEdgeLength float64
	Convergence     float64 // mean displacement below which the layout is stable
	Cooling         float64 // temperature multiplier per step
	Randomize       bool    // seed the initial jitter from the clock
	Seed            int64
}

// DefaultConfig mirrors the dashboard's layout settings
func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          600,
		Padding:         60,
		MaxIterations:   1000,
		IdealEdgeLength: 120,
		Convergence:     0.01,
		Cooling:         0.95,
		Seed:            1,
	}
}

// ForceDirectedLayout implements a Fruchterman-Reingold force-directed layout
// with no gravity toward the centre.
type ForceDirectedLayout struct {
	cfg         Config
	ids         []string
	index       map[string]int
	positions   []position
	forces      []force
	springs     [][2]int
	temperature float64
	k           float64 // optimal distance
	iterations  int
	stable      bool
	noise       opensimplex.Noise
	mu          sync.Mutex
}

// Force vector components
type force struct {
	fx, fy float64
}

// Position coordinates
type position struct {
	x, y float64
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(cfg Config) *ForceDirectedLayout {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.Padding < 0 {
		cfg.Padding = 0
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.IdealEdgeLength <= 0 {
		cfg.IdealEdgeLength = def.IdealEdgeLength
	}
	if cfg.Convergence <= 0 {
		cfg.Convergence = def.Convergence
	}
	if cfg.Cooling <= 0 || cfg.Cooling >= 1 {
		cfg.Cooling = def.Cooling
	}
	seed := cfg.Seed
	if cfg.Randomize {
		seed = time.Now().UnixNano()
	}
	return &ForceDirectedLayout{
		cfg:   cfg,
		index: make(map[string]int),
		noise: opensimplex.New(seed),
	}
}

// GetName returns the name of the layout algorithm
func (fd *ForceDirectedLayout) GetName() string {
	return "Force-Directed Layout"
}

// Iterations returns how many steps have run
func (fd *ForceDirectedLayout) Iterations() int {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return fd.iterations
}

// Stable reports whether the layout converged before the iteration cap
func (fd *ForceDirectedLayout) Stable() bool {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return fd.stable
}

// Initialize places nodes on a ring, grouped by connected component so that
// linked nodes start next to each other, and jitters them with seeded noise.
func (fd *ForceDirectedLayout) Initialize(el *graph.Elements) {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	fd.ids = fd.ids[:0]
	fd.index = make(map[string]int, len(el.Nodes))
	for _, comp := range el.Components() {
		for _, id := range comp {
			fd.index[id] = len(fd.ids)
			fd.ids = append(fd.ids, id)
		}
	}

	n := len(fd.ids)
	fd.positions = make([]position, n)
	fd.forces = make([]force, n)
	fd.k = fd.cfg.IdealEdgeLength
	fd.temperature = fd.cfg.Width / 10
	fd.iterations = 0
	fd.stable = n == 0

	cx := fd.cfg.Width / 2
	cy := fd.cfg.Height / 2
	radius := math.Min(fd.cfg.Width, fd.cfg.Height) * 0.35
	jitter := fd.k * 0.1
	for i := 0; i < n; i++ {
		if n == 1 {
			fd.positions[i] = position{x: cx, y: cy}
			break
		}
		angle := 2 * math.Pi * float64(i) / float64(n)
		t := float64(i) * 0.37
		fd.positions[i] = position{
			x: cx + radius*math.Cos(angle) + fd.noise.Eval2(t, 0)*jitter,
			y: cy + radius*math.Sin(angle) + fd.noise.Eval2(0, t)*jitter,
		}
	}

	// Cache springs; dangling edges and self loops exert no force
	fd.springs = fd.springs[:0]
	for _, e := range el.Edges {
		src, okS := fd.index[e.Source]
		dst, okT := fd.index[e.Target]
		if !okS || !okT || src == dst {
			continue
		}
		fd.springs = append(fd.springs, [2]int{src, dst})
	}
}

// Step performs one iteration of the layout algorithm
func (fd *ForceDirectedLayout) Step() bool {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	if fd.iterations >= fd.cfg.MaxIterations || fd.stable {
		return true
	}

	for i := range fd.forces {
		fd.forces[i] = force{}
	}

	n := len(fd.positions)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := fd.positions[i].x - fd.positions[j].x
			dy := fd.positions[i].y - fd.positions[j].y
			if dx == 0 && dy == 0 {
				// Coincident nodes: separate along a deterministic direction
				dx = 0.01
				dy = 0.01 * float64(j-i)
			}
			distance := math.Max(0.01, math.Sqrt(dx*dx+dy*dy))

			// F = k^2 / distance
			repulsive := fd.k * fd.k / distance
			dx /= distance
			dy /= distance
			fd.forces[i].fx += dx * repulsive
			fd.forces[i].fy += dy * repulsive
			fd.forces[j].fx -= dx * repulsive
			fd.forces[j].fy -= dy * repulsive
		}
	}

	for _, s := range fd.springs {
		a, b := s[0], s[1]
		dx := fd.positions[b].x - fd.positions[a].x
		dy := fd.positions[b].y - fd.positions[a].y
		distance := math.Max(0.01, math.Sqrt(dx*dx+dy*dy))

		// F = distance^2 / k
		attractive := distance * distance / fd.k
		dx /= distance
		dy /= distance
		fd.forces[a].fx += dx * attractive
		fd.forces[a].fy += dy * attractive
		fd.forces[b].fx -= dx * attractive
		fd.forces[b].fy -= dy * attractive
	}

	// Move with displacement capped by temperature (simulated annealing)
	moved := 0.0
	for i, f := range fd.forces {
		magnitude := math.Sqrt(f.fx*f.fx + f.fy*f.fy)
		if magnitude == 0 {
			continue
		}
		step := math.Min(magnitude, fd.temperature)
		pos := fd.positions[i]
		pos.x += f.fx / magnitude * step
		pos.y += f.fy / magnitude * step
		fd.positions[i] = pos
		moved += step
	}

	fd.temperature *= fd.cfg.Cooling
	fd.iterations++
	fd.stable = n == 0 || moved/float64(n) < fd.cfg.Convergence
	return fd.stable
}

// Apply fits the computed positions into the padded canvas and writes them
// onto the render nodes. Scaling is uniform and never enlarges the drawing.
// Discs left overlapping by the scale are then pushed apart.
func (fd *ForceDirectedLayout) Apply(el *graph.Elements) {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	radii := make([]float64, len(fd.positions))
	for i := range radii {
		radii[i] = defaultRadius
	}
	for _, n := range el.Nodes {
		if idx, ok := fd.index[n.ID]; ok && n.Style.Size > 0 {
			radii[idx] = n.Style.Size / 2
		}
	}

	fitted := fd.fit()
	fd.separate(fitted, radii)
	for i := range el.Nodes {
		if idx, ok := fd.index[el.Nodes[i].ID]; ok {
			el.Nodes[i].Position = models.Position{X: fitted[idx].x, Y: fitted[idx].y}
		}
	}
}

func (fd *ForceDirectedLayout) fit() []position {
	out := make([]position, len(fd.positions))
	if len(fd.positions) == 0 {
		return out
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range fd.positions {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}

	availW := math.Max(1, fd.cfg.Width-2*fd.cfg.Padding)
	availH := math.Max(1, fd.cfg.Height-2*fd.cfg.Padding)
	bw := maxX - minX
	bh := maxY - minY

	scale := 1.0
	if bw > 0 {
		scale = math.Min(scale, availW/bw)
	}
	if bh > 0 {
		scale = math.Min(scale, availH/bh)
	}

	// Centre the scaled bounding box in the canvas
	offX := fd.cfg.Width/2 - (minX+bw/2)*scale
	offY := fd.cfg.Height/2 - (minY+bh/2)*scale
	for i, p := range fd.positions {
		out[i] = position{x: p.x*scale + offX, y: p.y*scale + offY}
	}
	return out
}

const (
	defaultRadius  = 22.5 // half the resting node size
	overlapGap     = 4
	separateRounds = 200
)

// separate resolves disc overlaps in place, in index order so the result is
// deterministic, keeping every centre inside the padded canvas.
func (fd *ForceDirectedLayout) separate(pos []position, radii []float64) {
	minX, maxX := fd.cfg.Padding, fd.cfg.Width-fd.cfg.Padding
	minY, maxY := fd.cfg.Padding, fd.cfg.Height-fd.cfg.Padding
	if maxX < minX {
		minX, maxX = fd.cfg.Width/2, fd.cfg.Width/2
	}
	if maxY < minY {
		minY, maxY = fd.cfg.Height/2, fd.cfg.Height/2
	}
	clamp := func(p position) position {
		return position{x: math.Max(minX, math.Min(maxX, p.x)), y: math.Max(minY, math.Min(maxY, p.y))}
	}

	for round := 0; round < separateRounds; round++ {
		overlapping := false
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				want := radii[i] + radii[j] + overlapGap
				dx := pos[j].x - pos[i].x
				dy := pos[j].y - pos[i].y
				d := math.Sqrt(dx*dx + dy*dy)
				if d >= want-1e-9 {
					continue
				}
				overlapping = true
				if d < 1e-9 {
					angle := float64(j) * 2.399963 // golden angle
					dx, dy, d = math.Cos(angle), math.Sin(angle), 1
				}
				push := (want - d) / 2
				ux, uy := dx/d, dy/d
				pos[i] = clamp(position{x: pos[i].x - ux*push, y: pos[i].y - uy*push})
				pos[j] = clamp(position{x: pos[j].x + ux*push, y: pos[j].y + uy*push})
			}
		}
		if !overlapping {
			return
		}
	}
}

// Stats summarises one layout pass
type Stats struct {
	Algorithm  string
	Iterations int
	Stable     bool
	Elapsed    time.Duration
}

// Compute runs the one-shot layout pass: initialize, step until stable or the
// iteration cap, apply, then freeze. The returned Layout is immutable and the
// render nodes are marked locked.
func Compute(el *graph.Elements, cfg Config) (models.Layout, Stats) {
	start := time.Now()
	fd := NewForceDirectedLayout(cfg)
	fd.Initialize(el)
	for i := 0; i < fd.cfg.MaxIterations; i++ {
		if fd.Step() {
			break
		}
	}
	fd.Apply(el)

	stats := Stats{
		Algorithm:  fd.GetName(),
		Iterations: fd.Iterations(),
		Stable:     fd.Stable(),
		Elapsed:    time.Since(start),
	}
	return Freeze(el, fd.cfg.Width, fd.cfg.Height), stats
}

// Freeze locks the current node positions. Nothing recomputes positions
// after this point for the lifetime of the payload.
func Freeze(el *graph.Elements, width, height float64) models.Layout {
	positions := make(map[string]models.Position, len(el.Nodes))
	for i := range el.Nodes {
		el.Nodes[i].Locked = true
		positions[el.Nodes[i].ID] = el.Nodes[i].Position
	}
	return models.NewLayout(positions, width, height)
}
