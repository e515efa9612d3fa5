package bloomtree

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed bloomtree.yaml
var defaultConfigYAML []byte

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("bloomtree: invalid config")

// Config is the complete parameter set of a show. It is treated as
// immutable once a Show has been built from it.
type Config struct {
	Canvas     CanvasConfig `yaml:"canvas"`
	Seed       SeedConfig   `yaml:"seed"`
	Footer     FooterConfig `yaml:"footer"`
	Branch     BranchConfig `yaml:"branch"`
	Bloom      BloomConfig  `yaml:"bloom"`
	Jump       JumpConfig   `yaml:"jump"`
	Timing     TimingConfig `yaml:"timing"`
	Slide      SlideConfig  `yaml:"slide"`
	Letter     LetterConfig `yaml:"letter"`
	Palette    []Color      `yaml:"palette"`
	RandomSeed uint64       `yaml:"random_seed"`
}

// CanvasConfig sizes the drawing surface.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Background is painted under the canvas until the backdrop is baked.
	Background Color `yaml:"background"`
	// Page is the color around and beneath everything else.
	Page Color `yaml:"page"`
}

// SeedConfig places the clickable seed.
type SeedConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color Color   `yaml:"color"`
	Scale float64 `yaml:"scale"`
	// Floor is the glyph scale at which shrinking stops.
	Floor float64 `yaml:"floor"`
	// Text is the two-line caption under the glyph.
	Text string `yaml:"text"`
}

// FooterConfig sizes the ground line.
type FooterConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
	Color  Color   `yaml:"color"`
}

// BranchConfig holds the branch spec forest and its look.
type BranchConfig struct {
	Color Color        `yaml:"color"`
	Decay float64      `yaml:"decay"`
	Specs []BranchSpec `yaml:"specs"`
}

// BloomConfig controls the pre-placed growth bloom reservoir.
type BloomConfig struct {
	Count int `yaml:"count"`
	// Width and Height are the placement box, anchored at the surface origin.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Radius is the heart region radius.
	Radius       float64 `yaml:"radius"`
	Batch        int     `yaml:"batch"`
	Color        Color   `yaml:"color"`
	AlphaMin     float64 `yaml:"alpha_min"`
	AlphaMax     float64 `yaml:"alpha_max"`
	InitialScale float64 `yaml:"initial_scale"`
	GrowthStep   float64 `yaml:"growth_step"`
	// MaxAttempts bounds rejection sampling per bloom.
	MaxAttempts int `yaml:"max_attempts"`
}

// JumpConfig controls the perpetual flight bloom stream.
type JumpConfig struct {
	MinActive        int     `yaml:"min_active"`
	SpawnMin         int     `yaml:"spawn_min"`
	SpawnMax         int     `yaml:"spawn_max"`
	SpawnWidthFactor float64 `yaml:"spawn_width_factor"`
	TargetXMin       float64 `yaml:"target_x_min"`
	TargetXMax       float64 `yaml:"target_x_max"`
	TargetY          float64 `yaml:"target_y"`
	SpeedMin         int     `yaml:"speed_min"`
	SpeedMax         int     `yaml:"speed_max"`
	Spin             float64 `yaml:"spin"`
}

// TimingConfig is the stage timing table.
type TimingConfig struct {
	ScaleFactor   float64       `yaml:"scale_factor"`
	SeedFallSpeed float64       `yaml:"seed_fall_speed"`
	TickDelay     time.Duration `yaml:"tick_delay"`
	BloomDelay    time.Duration `yaml:"bloom_delay"`
	FadeDelay     time.Duration `yaml:"fade_delay"`
	JumpDelay     time.Duration `yaml:"jump_delay"`
}

// SlideConfig controls the composition slide.
type SlideConfig struct {
	SourceX  float64 `yaml:"source_x"`
	TargetX  float64 `yaml:"target_x"`
	Width    int     `yaml:"width"`
	Speed    float64 `yaml:"speed"`
	Decay    float64 `yaml:"decay"`
	MinSpeed float64 `yaml:"min_speed"`
}

// LetterConfig is the text revealed after the slide.
type LetterConfig struct {
	Paragraphs []string      `yaml:"paragraphs"`
	Rate       time.Duration `yaml:"rate"`
	X          float64       `yaml:"x"`
	Y          float64       `yaml:"y"`
	Width      float64       `yaml:"width"`
	Size       float64       `yaml:"size"`
	Color      Color         `yaml:"color"`
}

// Text joins the paragraphs with blank lines.
func (l LetterConfig) Text() string {
	return strings.Join(l.Paragraphs, "\n\n")
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		panic(fmt.Sprintf("bloomtree: embedded config: %v", err))
	}
	return cfg
}

// ParseConfig overlays YAML data on the default configuration and validates
// the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("bloomtree: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML file and overlays it on the default configuration.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("bloomtree: read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate reports every out-of-range parameter at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Canvas.Width > 0 && c.Canvas.Height > 0, "canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	check(c.Seed.Scale > 0, "seed.scale %v must be positive", c.Seed.Scale)
	check(c.Seed.Floor > 0 && c.Seed.Floor < c.Seed.Scale, "seed.floor %v must be in (0, scale)", c.Seed.Floor)
	check(c.Footer.Width >= 0 && c.Footer.Height > 0 && c.Footer.Speed > 0,
		"footer %vx%v speed %v", c.Footer.Width, c.Footer.Height, c.Footer.Speed)
	check(c.Branch.Decay > 0 && c.Branch.Decay < 1, "branch.decay %v must be in (0, 1)", c.Branch.Decay)
	for i := range c.Branch.Specs {
		errs = append(errs, validateBranch(&c.Branch.Specs[i], fmt.Sprintf("branch.specs[%d]", i))...)
	}
	check(c.Bloom.Count >= 0, "bloom.count %d", c.Bloom.Count)
	check(c.Bloom.Width > 40 && c.Bloom.Height > 40, "bloom box %vx%v must exceed the 20px margins", c.Bloom.Width, c.Bloom.Height)
	check(c.Bloom.Radius > 0, "bloom.radius %v must be positive", c.Bloom.Radius)
	check(c.Bloom.Batch > 0, "bloom.batch %d must be positive", c.Bloom.Batch)
	check(c.Bloom.AlphaMin >= 0 && c.Bloom.AlphaMin <= c.Bloom.AlphaMax && c.Bloom.AlphaMax <= 1,
		"bloom alpha range [%v, %v]", c.Bloom.AlphaMin, c.Bloom.AlphaMax)
	check(c.Bloom.InitialScale > 0 && c.Bloom.GrowthStep > 0, "bloom growth %v+%v", c.Bloom.InitialScale, c.Bloom.GrowthStep)
	check(c.Bloom.MaxAttempts > 0, "bloom.max_attempts %d must be positive", c.Bloom.MaxAttempts)
	check(c.Jump.MinActive >= 0, "jump.min_active %d", c.Jump.MinActive)
	check(c.Jump.SpawnMin > 0 && c.Jump.SpawnMin <= c.Jump.SpawnMax, "jump spawn range [%d, %d]", c.Jump.SpawnMin, c.Jump.SpawnMax)
	check(c.Jump.SpawnWidthFactor > 0, "jump.spawn_width_factor %v", c.Jump.SpawnWidthFactor)
	check(c.Jump.TargetXMin <= c.Jump.TargetXMax, "jump target x range [%v, %v]", c.Jump.TargetXMin, c.Jump.TargetXMax)
	check(c.Jump.SpeedMin > 0 && c.Jump.SpeedMin <= c.Jump.SpeedMax, "jump speed range [%d, %d]", c.Jump.SpeedMin, c.Jump.SpeedMax)
	check(c.Timing.ScaleFactor > 0 && c.Timing.ScaleFactor < 1, "timing.scale_factor %v must be in (0, 1)", c.Timing.ScaleFactor)
	check(c.Timing.SeedFallSpeed > 0, "timing.seed_fall_speed %v must be positive", c.Timing.SeedFallSpeed)
	check(c.Timing.TickDelay >= 0 && c.Timing.BloomDelay >= 0 && c.Timing.FadeDelay >= 0 && c.Timing.JumpDelay >= 0,
		"timing delays must not be negative")
	check(c.Slide.Width > 0, "slide.width %d must be positive", c.Slide.Width)
	check(c.Slide.Speed > 0 && c.Slide.MinSpeed > 0, "slide speeds %v/%v must be positive", c.Slide.Speed, c.Slide.MinSpeed)
	check(c.Slide.Decay > 0 && c.Slide.Decay <= 1, "slide.decay %v must be in (0, 1]", c.Slide.Decay)
	check(c.Letter.Rate > 0, "letter.rate %v must be positive", c.Letter.Rate)
	check(len(c.Palette) > 0, "palette is empty")

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func validateBranch(b *BranchSpec, path string) []error {
	var errs []error
	if b.Radius < 0 {
		errs = append(errs, fmt.Errorf("%s.radius %v", path, b.Radius))
	}
	if b.Length < 0 {
		errs = append(errs, fmt.Errorf("%s.length %d", path, b.Length))
	}
	for i := range b.Children {
		errs = append(errs, validateBranch(&b.Children[i], fmt.Sprintf("%s.children[%d]", path, i))...)
	}
	return errs
}

// --- YAML decoding ---

// UnmarshalYAML reads a color string understood by ParseColor.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the color as a hex string.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML reads either [x, y] or {x: .., y: ..}.
func (v *Vec2) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
		}
		*v = Vec2{xy[0], xy[1]}
		return nil
	}
	type plain Vec2
	return value.Decode((*plain)(v))
}

// UnmarshalYAML reads either the compact tuple
// [x1, y1, x2, y2, x3, y3, radius, length, [children...]] or a mapping with
// start, control, end, radius, length and children keys.
func (b *BranchSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		type plain BranchSpec
		return value.Decode((*plain)(b))
	}
	n := len(value.Content)
	if n != 8 && n != 9 {
		return fmt.Errorf("line %d: branch tuple needs 8 or 9 elements, got %d", value.Line, n)
	}
	var nums [7]float64
	for i := range nums {
		if err := value.Content[i].Decode(&nums[i]); err != nil {
			return err
		}
	}
	var length int
	if err := value.Content[7].Decode(&length); err != nil {
		return err
	}
	*b = BranchSpec{
		Start:   Vec2{nums[0], nums[1]},
		Control: Vec2{nums[2], nums[3]},
		End:     Vec2{nums[4], nums[5]},
		Radius:  nums[6],
		Length:  length,
	}
	if n == 9 {
		return value.Content[8].Decode(&b.Children)
	}
	return nil
}
