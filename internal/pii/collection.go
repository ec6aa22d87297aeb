package pii

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// Collection stages.
const (
	StageDetection = "detection"
	StageDecision  = "decision"
)

// Dump formats.
const (
	DumpNDJSON = "ndjson"
	DumpJSONL  = "jsonl"
	DumpJSON   = "json"
)

// Header keys.
const (
	headerDate      = "date"
	headerFormat    = "format"
	headerLang      = "lang"
	headerStage     = "stage"
	headerDecision  = "decision"
	headerDetectors = "detectors"
)

// Option configures a Collection.
type Option func(*Collection)

// WithLang sets the default language for entities added without one.
func WithLang(lang string) Option {
	return func(c *Collection) {
		if lang != "" {
			c.defaults[headerLang] = lang
		}
	}
}

// WithDocID sets the default document id for entities added without one.
func WithDocID(docID string) Option {
	return func(c *Collection) {
		if docID != "" {
			c.defaults[domain.PiiFieldDocID] = docID
		}
	}
}

// WithDate overrides the collection creation date.
func WithDate(t time.Time) Option {
	return func(c *Collection) {
		c.date = t.UTC()
	}
}

// Collection is an ordered list of PII entities plus the detectors that
// found them.
type Collection struct {
	defaults    map[string]any
	date        time.Time
	header      map[string]any
	detectors   map[int]Detector
	detectorIdx map[string]int
	entities    []*domain.PiiEntity
}

// NewCollection creates an empty collection.
func NewCollection(opts ...Option) *Collection {
	c := &Collection{
		defaults:    map[string]any{},
		date:        time.Now().UTC(),
		detectors:   map[int]Detector{},
		detectorIdx: map[string]int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.header = map[string]any{
		headerDate:   c.date,
		headerFormat: domain.FormatPiiCollection,
		headerLang:   c.defaults[headerLang],
	}
	return c
}

// Header returns a copy of the collection header, including the detector
// table keyed by detector index.
func (c *Collection) Header() map[string]any {
	h := maps.Clone(c.header)
	detectors := make(map[int]map[string]any, len(c.detectors))
	for k, d := range c.detectors {
		detectors[k] = d.AsMap()
	}
	h[headerDetectors] = detectors
	return h
}

// Stage returns the processing stage, or "" when none has been set.
func (c *Collection) Stage() string {
	s, _ := c.header[headerStage].(string)
	return s
}

// SetStage sets the processing stage. An empty value is ignored.
func (c *Collection) SetStage(stage string) {
	if stage != "" {
		c.header[headerStage] = stage
	}
}

// Len returns the number of entities.
func (c *Collection) Len() int {
	return len(c.entities)
}

// Entities iterates over the entities in insertion order.
func (c *Collection) Entities() iter.Seq[*domain.PiiEntity] {
	return slices.Values(c.entities)
}

// Detectors returns the registered detectors keyed by index.
func (c *Collection) Detectors() map[int]Detector {
	return maps.Clone(c.detectors)
}

// AddDetector registers a detector and returns its 1-based index. Adding
// the same detector again returns the index assigned the first time.
func (c *Collection) AddDetector(d Detector) int {
	idx, ok := c.detectorIdx[d.ID()]
	if !ok {
		idx = len(c.detectors) + 1
		c.detectors[idx] = d
		c.detectorIdx[d.ID()] = idx
	}
	c.SetStage(StageDetection)
	return idx
}

// Add appends an entity. When a detector is given it is registered and its
// index stored in the entity. Collection defaults fill missing fields.
func (c *Collection) Add(e *domain.PiiEntity, detector *Detector) {
	if detector != nil {
		e.SetField(domain.PiiFieldDetector, c.AddDetector(*detector))
	}
	for k, v := range c.defaults {
		if k == headerLang {
			if e.Info.Lang == "" {
				e.Info.Lang, _ = v.(string)
			}
			continue
		}
		if _, ok := e.Field(k); !ok {
			e.SetField(k, v)
		}
	}
	c.entities = append(c.entities, e)
}

// SetDecision stores decision information in the header and moves the
// collection to the decision stage.
func (c *Collection) SetDecision(info map[string]any) {
	c.header[headerDecision] = info
	c.SetStage(StageDecision)
}

// Dump writes the collection in the given format: ndjson (or its alias
// jsonl) writes the header line then one line per entity, json writes a
// single indented object.
func (c *Collection) Dump(w io.Writer, format string) error {
	header := c.Header()

	switch format {
	case DumpNDJSON, DumpJSONL:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(header); err != nil {
			return fmt.Errorf("failed to write collection header: %w", err)
		}
		for _, e := range c.entities {
			if err := enc.Encode(e.AsMap()); err != nil {
				return fmt.Errorf("failed to write entity %s: %w", e, err)
			}
		}
		return nil

	case DumpJSON:
		list := make([]map[string]any, 0, len(c.entities))
		for _, e := range c.entities {
			list = append(list, e.AsMap())
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"metadata": header, "pii_list": list}); err != nil {
			return fmt.Errorf("failed to write collection: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown output format: %s", domain.ErrInvalidArgument, format)
	}
}
