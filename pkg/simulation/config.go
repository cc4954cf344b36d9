package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", configSchema)
})

// Obstacle is a rectangular block expanded into four walls.
// Open names one side left out to make an entrance: "top", "right", "bottom" or "left".
type Obstacle struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Open string  `json:"open,omitempty"`
}

// Action is one entry of the discrete action set.
type Action struct {
	Wheel1 float64 `json:"wheel1"`
	Wheel2 float64 `json:"wheel2"`
}

// Pose is a starting position and heading for an agent.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

type Config struct {
	// World Dimensions
	WorldWidth  float64    `json:"worldWidth"`
	WorldHeight float64    `json:"worldHeight"`
	WallPadding float64    `json:"wallPadding"` // inset of the boundary walls
	Obstacles   []Obstacle `json:"obstacles"`

	// Item population
	ItemTarget         int     `json:"itemTarget"`
	ItemRadius         float64 `json:"itemRadius"`
	ItemSpawnMargin    float64 `json:"itemSpawnMargin"`
	RespawnPeriod      int     `json:"respawnPeriod"`
	RespawnProbability float64 `json:"respawnProbability"`
	DespawnAge         int     `json:"despawnAge"`
	DespawnPeriod      int     `json:"despawnPeriod"`
	DespawnProbability float64 `json:"despawnProbability"`

	// Agents
	AgentRadius    float64   `json:"agentRadius"`
	EyeAngles      []float64 `json:"eyeAngles"`
	EyeRange       float64   `json:"eyeRange"`
	Actions        []Action  `json:"actions"`
	StraightAction int       `json:"straightAction"`
	AgentSpawns    []Pose    `json:"agentSpawns"`

	// Rewards
	BeneficialReward float64 `json:"beneficialReward"`
	HarmfulReward    float64 `json:"harmfulReward"`
	CollisionPenalty float64 `json:"collisionPenalty"`
	ForwardBonus     float64 `json:"forwardBonus"` // multiplied by the proximity reward

	Seed uint64 `json:"seed"`
}

func DefaultConfig() *Config {
	eyes := make([]float64, 9)
	for k := range eyes {
		eyes[k] = float64(k-3) * 0.25
	}
	return &Config{
		WorldWidth:  700,
		WorldHeight: 512,
		WallPadding: 10,
		Obstacles: []Obstacle{
			{X: 100, Y: 100, W: 200, H: 300, Open: "left"},
			{X: 400, Y: 100, W: 200, H: 300, Open: "left"},
		},
		ItemTarget:         30,
		ItemRadius:         10,
		ItemSpawnMargin:    20,
		RespawnPeriod:      10,
		RespawnProbability: 0.25,
		DespawnAge:         5000,
		DespawnPeriod:      100,
		DespawnProbability: 0.1,
		AgentRadius:        10,
		EyeAngles:          eyes,
		EyeRange:           85,
		Actions: []Action{
			{Wheel1: 1, Wheel2: 1},
			{Wheel1: 0.8, Wheel2: 1},
			{Wheel1: 1, Wheel2: 0.8},
			{Wheel1: 0.5, Wheel2: 0},
			{Wheel1: 0, Wheel2: 0.5},
		},
		StraightAction:   0,
		AgentSpawns:      []Pose{{X: 50, Y: 50, Heading: 0}},
		BeneficialReward: 5,
		HarmfulReward:    -6,
		CollisionPenalty: -6,
		ForwardBonus:     0.1,
		Seed:             1,
	}
}

// Clone returns a deep copy so a world never shares slices with its caller.
func (c *Config) Clone() *Config {
	out := *c
	out.Obstacles = slices.Clone(c.Obstacles)
	out.EyeAngles = slices.Clone(c.EyeAngles)
	out.Actions = slices.Clone(c.Actions)
	out.AgentSpawns = slices.Clone(c.AgentSpawns)
	return &out
}

// Validate rejects configurations the tick pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case !(c.WorldWidth > 0):
		return &ConfigError{Field: "worldWidth", Reason: "must be positive"}
	case !(c.WorldHeight > 0):
		return &ConfigError{Field: "worldHeight", Reason: "must be positive"}
	case c.WallPadding < 0:
		return &ConfigError{Field: "wallPadding", Reason: "must not be negative"}
	case c.ItemTarget < 0:
		return &ConfigError{Field: "itemTarget", Reason: "must not be negative"}
	case !(c.ItemRadius > 0):
		return &ConfigError{Field: "itemRadius", Reason: "must be positive"}
	case c.ItemSpawnMargin < 0 || 2*c.ItemSpawnMargin >= math.Min(c.WorldWidth, c.WorldHeight):
		return &ConfigError{Field: "itemSpawnMargin", Reason: "leaves no room to spawn items"}
	case c.RespawnPeriod <= 0:
		return &ConfigError{Field: "respawnPeriod", Reason: "must be positive"}
	case c.DespawnPeriod <= 0:
		return &ConfigError{Field: "despawnPeriod", Reason: "must be positive"}
	case c.DespawnAge < 0:
		return &ConfigError{Field: "despawnAge", Reason: "must not be negative"}
	case !isProbability(c.RespawnProbability):
		return &ConfigError{Field: "respawnProbability", Reason: "must be within [0,1]"}
	case !isProbability(c.DespawnProbability):
		return &ConfigError{Field: "despawnProbability", Reason: "must be within [0,1]"}
	case !(c.AgentRadius > 0):
		return &ConfigError{Field: "agentRadius", Reason: "wheel radius must be positive"}
	case len(c.EyeAngles) == 0:
		return &ConfigError{Field: "eyeAngles", Reason: "agents need at least one eye"}
	case !(c.EyeRange > 0):
		return &ConfigError{Field: "eyeRange", Reason: "must be positive"}
	case len(c.Actions) == 0:
		return &ConfigError{Field: "actions", Reason: "action set is empty"}
	case c.StraightAction < 0 || c.StraightAction >= len(c.Actions):
		return &ConfigError{Field: "straightAction", Reason: fmt.Sprintf("index %d outside %d actions", c.StraightAction, len(c.Actions))}
	}
	for i, o := range c.Obstacles {
		if !(o.W > 0) || !(o.H > 0) {
			return &ConfigError{Field: fmt.Sprintf("obstacles[%d]", i), Reason: "width and height must be positive"}
		}
		if !slices.Contains([]string{"", "top", "right", "bottom", "left"}, o.Open) {
			return &ConfigError{Field: fmt.Sprintf("obstacles[%d].open", i), Reason: fmt.Sprintf("unknown side %q", o.Open)}
		}
	}
	return nil
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

// Walls expands the boundary and the obstacles into wall segments.
func (c *Config) Walls() []Wall {
	walls := make([]Wall, 0, 4+4*len(c.Obstacles))
	pad := c.WallPadding
	walls = appendBox(walls, pad, pad, c.WorldWidth-pad*2, c.WorldHeight-pad*2, "")
	for _, o := range c.Obstacles {
		walls = appendBox(walls, o.X, o.Y, o.W, o.H, o.Open)
	}
	return walls
}

func appendBox(walls []Wall, x, y, w, h float64, open string) []Wall {
	sides := []struct {
		name   string
		p1, p2 geometry.Vector2D
	}{
		{"top", geometry.Vector2D{X: x, Y: y}, geometry.Vector2D{X: x + w, Y: y}},
		{"right", geometry.Vector2D{X: x + w, Y: y}, geometry.Vector2D{X: x + w, Y: y + h}},
		{"bottom", geometry.Vector2D{X: x + w, Y: y + h}, geometry.Vector2D{X: x, Y: y + h}},
		{"left", geometry.Vector2D{X: x, Y: y + h}, geometry.Vector2D{X: x, Y: y}},
	}
	for _, s := range sides {
		if s.name == open {
			continue
		}
		walls = append(walls, Wall{P1: s.p1, P2: s.p2})
	}
	return walls
}

// LoadConfig loads a JSON or YAML configuration file and validates it against the schema.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
		if b, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert config yaml: %w", err)
		}
	}
	return ParseConfig(b)
}

// ParseConfig validates a JSON document against the schema and decodes it over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
