package pii

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/custodia-labs/piidoc/internal/adapters/driven/format"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/logger"
)

const maxLineSize = 16 * 1024 * 1024

// Load reads a collection from a JSON or NDJSON file, picked by extension.
// Compressed files are decompressed transparently.
func Load(path string) (*Collection, error) {
	ext := format.BaseExtension(path)
	switch ext {
	case ".json", ".ndjson", ".jsonl":
	default:
		return nil, fmt.Errorf("%w: unsupported format for PII collection: %s", domain.ErrFile, ext)
	}

	r, err := format.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	logger.Debug("loading PII collection %s", path)
	if ext == ".json" {
		return LoadJSON(r, path)
	}
	return LoadNDJSON(r, path)
}

// LoadJSON reads a collection written with the json dump format.
func LoadJSON(r io.Reader, name string) (*Collection, error) {
	var data struct {
		Metadata map[string]any   `json:"metadata"`
		PiiList  []map[string]any `json:"pii_list"`
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: cannot load collection '%s': %w", domain.ErrFile, name, err)
	}
	if data.Metadata == nil {
		return nil, fmt.Errorf("%w: no metadata in collection '%s'", domain.ErrFile, name)
	}

	c, err := fromHeader(data.Metadata, name)
	if err != nil {
		return nil, err
	}
	for i, m := range data.PiiList {
		if err := c.appendMap(m); err != nil {
			return nil, fmt.Errorf("%w: entity %d in '%s': %w", domain.ErrFile, i+1, name, err)
		}
	}
	return c, nil
}

// LoadNDJSON reads a collection written with the ndjson dump format. The
// first line holds the header. Blank lines are ignored.
func LoadNDJSON(r io.Reader, name string) (*Collection, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var c *Collection
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		m, err := decodeLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot load collection '%s' line %d: %w", domain.ErrFile, name, lineNo, err)
		}
		if c == nil {
			if c, err = fromHeader(m, name); err != nil {
				return nil, err
			}
			continue
		}
		if err := c.appendMap(m); err != nil {
			return nil, fmt.Errorf("%w: '%s' line %d: %w", domain.ErrFile, name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: cannot read collection '%s': %w", domain.ErrFile, name, err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empty collection source '%s'", domain.ErrFile, name)
	}
	return c, nil
}

func decodeLine(line []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("not a JSON object")
	}
	return normalizeNumbers(m).(map[string]any), nil
}

// CheckFormat verifies the header format tag.
func CheckFormat(header map[string]any, source string) error {
	if f := header[headerFormat]; f != domain.FormatPiiCollection {
		return fmt.Errorf("%w: invalid format \"%v\" found in %s", domain.ErrInvalidArgument, f, source)
	}
	return nil
}

func fromHeader(header map[string]any, name string) (*Collection, error) {
	header = normalizeNumbers(header).(map[string]any)
	if err := CheckFormat(header, name); err != nil {
		return nil, err
	}

	c := NewCollection()
	c.header = map[string]any{}
	for k, v := range header {
		if k != headerDetectors {
			c.header[k] = v
		}
	}
	if lang, ok := header[headerLang].(string); ok && lang != "" {
		c.defaults[headerLang] = lang
	}

	raw, _ := header[headerDetectors].(map[string]any)
	for k, v := range raw {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: error reading detector info from header: invalid index %q", domain.ErrFile, k)
		}
		fields, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: error reading detector info from header: detector %d is not a mapping", domain.ErrFile, idx)
		}
		d, err := DetectorFromMap(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: error reading detector info from header: %w", domain.ErrFile, err)
		}
		c.detectors[idx] = d
		c.detectorIdx[d.ID()] = idx
	}
	return c, nil
}

func (c *Collection) appendMap(m map[string]any) error {
	e, err := domain.PiiEntityFromMap(normalizeNumbers(m).(map[string]any))
	if err != nil {
		return err
	}
	c.entities = append(c.entities, e)
	return nil
}

// normalizeNumbers turns json.Number values into int64 or float64.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeNumbers(item)
		}
		return t
	default:
		return v
	}
}
