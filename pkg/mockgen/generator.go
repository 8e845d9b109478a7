package mockgen

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultMaxDepth     = 4
	DefaultOptionalProb = 0.8
	DefaultMinItems     = 1
	DefaultMaxItems     = 3
	DefaultMultipleOf   = 0.01

	defaultNumberMax  = 1000
	defaultIntegerMax = 100
	defaultStringLen  = 8
)

// dateTimeBase anchors date-time synthesis so output depends only on the seed.
var dateTimeBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// OverrideFunc produces a value for an overridden path.
type OverrideFunc func() any

// Options controls a generation run.
type Options struct {
	// Seed drives every random choice. Equal seeds yield equal output.
	Seed int64

	// MaxDepth bounds recursion; deeper nodes collapse to a minimal value
	// for their declared type. This is what makes $ref cycles terminate.
	MaxDepth int

	// OptionalPropProbability is the chance an optional object property is
	// emitted.
	OptionalPropProbability float64

	// MinItems and MaxItems bound generated array lengths when the schema
	// does not bound them itself.
	MinItems int
	MaxItems int

	// Defs resolves $ref targets not embedded in the schema.
	Defs map[string]*Schema

	// Overrides maps a JSON-Pointer-like path (for example "/address/city")
	// to a literal value or an OverrideFunc. An override fully short-circuits
	// generation at that path, including the depth guard.
	Overrides map[string]any
}

func (o Options) withDefaults() Options {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.OptionalPropProbability == 0 {
		o.OptionalPropProbability = DefaultOptionalProb
	}
	if o.MinItems == 0 {
		o.MinItems = DefaultMinItems
	}
	if o.MaxItems == 0 {
		o.MaxItems = DefaultMaxItems
	}
	return o
}

// generator carries the per-run state: one random stream, resolved defs.
type generator struct {
	rng  *Rand
	opts Options
	defs map[string]*Schema
}

// Generate produces a concrete value for schema. For a fixed (schema, seed)
// pair the result is fully deterministic.
func Generate(schema *Schema, opts Options) any {
	opts = opts.withDefaults()

	g := &generator{
		rng:  NewRand(opts.Seed),
		opts: opts,
		defs: make(map[string]*Schema),
	}
	for name, def := range opts.Defs {
		g.defs[name] = def
	}
	if schema != nil {
		for name, def := range schema.Defs {
			g.defs[name] = def
		}
	}
	return g.generate(schema, 0, "")
}

func (g *generator) generate(s *Schema, depth int, path string) any {
	// Overrides win over everything, including the depth guard.
	if ov, ok := g.opts.Overrides[path]; ok {
		if fn, isFn := ov.(OverrideFunc); isFn {
			return fn()
		}
		if fn, isFn := ov.(func() any); isFn {
			return fn()
		}
		return ov
	}

	if s == nil {
		return nil
	}

	if depth > g.opts.MaxDepth {
		return emptyValue(s)
	}

	switch s.Kind {
	case KindRef:
		target := g.resolveRef(s.Ref)
		if target == nil {
			// Unresolvable references degrade to null rather than failing
			// the whole generation.
			return nil
		}
		return g.generate(target, depth+1, path)

	case KindAllOf:
		return g.generateAllOf(s, depth, path)

	case KindOneOf, KindAnyOf:
		idx := g.rng.IndexFor(len(s.Branches))
		return g.generate(s.Branches[idx], depth, path)

	case KindConst:
		return s.Const

	case KindEnum:
		return s.Enum[g.rng.IndexFor(len(s.Enum))]

	case KindObject:
		return g.generateObject(s, depth, path)

	case KindArray:
		return g.generateArray(s, depth, path)

	case KindString:
		return g.generateString(s)

	case KindNumber:
		return g.generateNumber(s)

	case KindInteger:
		return g.generateInteger(s)

	case KindBoolean:
		return g.rng.Float64() < 0.5

	default:
		// KindNull and untyped schemas with no structural hints.
		return nil
	}
}

// generateAllOf generates each branch at the same path and shallow-merges
// object results left to right; later branch keys win. A non-object branch
// replaces the accumulator outright.
func (g *generator) generateAllOf(s *Schema, depth int, path string) any {
	var acc any
	for i, branch := range s.Branches {
		v := g.generate(branch, depth, path)
		if i == 0 {
			acc = v
			continue
		}
		accMap, accOk := acc.(map[string]any)
		vMap, vOk := v.(map[string]any)
		if accOk && vOk {
			for k, val := range vMap {
				accMap[k] = val
			}
			continue
		}
		acc = v
	}
	return acc
}

func (g *generator) generateObject(s *Schema, depth int, path string) any {
	out := make(map[string]any, len(s.Properties))
	for _, prop := range s.Properties {
		if !s.IsRequired(prop.Name) && g.rng.Float64() >= g.opts.OptionalPropProbability {
			continue
		}
		out[prop.Name] = g.generate(prop.Schema, depth+1, path+"/"+prop.Name)
	}
	if s.AdditionalProperties != nil {
		extras := g.rng.IndexFor(3)
		for i := 1; i <= extras; i++ {
			key := "extra_" + strconv.Itoa(i)
			out[key] = g.generate(s.AdditionalProperties, depth+1, path+"/"+key)
		}
	}
	return out
}

func (g *generator) generateArray(s *Schema, depth int, path string) any {
	if len(s.PrefixItems) > 0 {
		out := make([]any, len(s.PrefixItems))
		for i, item := range s.PrefixItems {
			out[i] = g.generate(item, depth+1, path+"/"+strconv.Itoa(i))
		}
		return out
	}

	min, max := g.opts.MinItems, g.opts.MaxItems
	if s.MinItems != nil {
		min = *s.MinItems
	}
	if s.MaxItems != nil {
		max = *s.MaxItems
	}
	n := g.rng.IntBetween(min, max)

	out := make([]any, n)
	for i := 0; i < n; i++ {
		if s.Items == nil {
			out[i] = nil
			continue
		}
		out[i] = g.generate(s.Items, depth+1, path+"/"+strconv.Itoa(i))
	}
	return out
}

func (g *generator) generateString(s *Schema) string {
	switch s.Format {
	case "email":
		return g.faker().Email()
	case "uri", "url":
		return g.faker().URL()
	case "uuid":
		return g.faker().UUID()
	case "date-time":
		offset := time.Duration(g.rng.IndexFor(365*24)) * time.Hour
		return dateTimeBase.Add(offset).Format(time.RFC3339)
	}

	n := defaultStringLen
	if s.MinLength != nil && n < *s.MinLength {
		n = *s.MinLength
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		n = *s.MaxLength
	}
	return g.rng.Alpha(n)
}

// faker returns a gofakeit instance seeded from the main stream, so format
// strings stay deterministic while costing exactly one stream draw.
func (g *generator) faker() *gofakeit.Faker {
	return gofakeit.New(g.rng.Int63() | 1)
}

func (g *generator) generateNumber(s *Schema) float64 {
	min, max := 0.0, float64(defaultNumberMax)
	if s.Minimum != nil {
		min = *s.Minimum
	}
	if s.Maximum != nil {
		max = *s.Maximum
	}
	v := min + g.rng.Float64()*(max-min)

	step := DefaultMultipleOf
	if s.MultipleOf != nil && *s.MultipleOf > 0 {
		step = *s.MultipleOf
	}
	snapped := math.Round(v/step) * step
	if snapped < min {
		snapped = min
	}
	if snapped > max {
		snapped = max
	}
	return snapped
}

func (g *generator) generateInteger(s *Schema) int {
	min, max := 0, defaultIntegerMax
	if s.Minimum != nil {
		min = int(*s.Minimum)
	}
	if s.Maximum != nil {
		max = int(*s.Maximum)
	}
	return g.rng.IntBetween(min, max)
}

func (g *generator) resolveRef(ref string) *Schema {
	name := ref
	for _, prefix := range []string{"#/$defs/", "#/definitions/"} {
		if strings.HasPrefix(ref, prefix) {
			name = strings.TrimPrefix(ref, prefix)
			break
		}
	}
	return g.defs[name]
}

// emptyValue is the minimal well-typed value for a schema's declared type,
// returned when the depth guard cuts recursion off.
func emptyValue(s *Schema) any {
	switch s.Kind {
	case KindObject:
		return map[string]any{}
	case KindArray:
		return []any{}
	case KindString:
		return ""
	case KindNumber:
		return float64(0)
	case KindInteger:
		return 0
	case KindBoolean:
		return false
	default:
		return nil
	}
}
