package domain

import (
	"fmt"
	"maps"
	"unicode/utf8"
)

// PiiType enumerates the PII categories an entity can belong to.
type PiiType int

const (
	PiiCreditCard PiiType = iota + 1
	PiiBankAccount
	PiiBlockchainAddress
	PiiIPAddress
	PiiEmailAddress
	PiiUsername
	PiiPhoneNumber
	PiiLicensePlate
	PiiGovID
	PiiPassword
	PiiKey
	PiiPerson
	PiiLocation
	PiiAge
	PiiDate
	PiiNORP
	PiiMedical
	PiiOrg
	PiiOther
)

// PiiStreetAddress is the former name of PiiLocation.
const PiiStreetAddress = PiiLocation

var piiTypeNames = map[PiiType]string{
	PiiCreditCard:        "CREDIT_CARD",
	PiiBankAccount:       "BANK_ACCOUNT",
	PiiBlockchainAddress: "BLOCKCHAIN_ADDRESS",
	PiiIPAddress:         "IP_ADDRESS",
	PiiEmailAddress:      "EMAIL_ADDRESS",
	PiiUsername:          "USERNAME",
	PiiPhoneNumber:       "PHONE_NUMBER",
	PiiLicensePlate:      "LICENSE_PLATE",
	PiiGovID:             "GOV_ID",
	PiiPassword:          "PASSWORD",
	PiiKey:               "KEY",
	PiiPerson:            "PERSON",
	PiiLocation:          "LOCATION",
	PiiAge:               "AGE",
	PiiDate:              "DATE",
	PiiNORP:              "NORP",
	PiiMedical:           "MEDICAL",
	PiiOrg:               "ORG",
	PiiOther:             "OTHER",
}

// String returns the canonical upper-case name of the type.
func (t PiiType) String() string {
	if name, ok := piiTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PiiType(%d)", int(t))
}

// IsValid returns true if t is a known PII type.
func (t PiiType) IsValid() bool {
	_, ok := piiTypeNames[t]
	return ok
}

// ParsePiiType converts a type name into a PiiType.
// The legacy name STREET_ADDRESS is accepted.
func ParsePiiType(name string) (PiiType, error) {
	if name == "STREET_ADDRESS" {
		return PiiStreetAddress, nil
	}
	for t, n := range piiTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown PII type %q", ErrInvalidArgument, name)
}

// PiiInfo holds the fixed descriptive fields of an entity.
type PiiInfo struct {
	Type    PiiType
	Lang    string
	Country string
	Subtype string
}

// Optional entity field names.
const (
	PiiFieldDocID    = "docid"
	PiiFieldDetector = "detector"
	PiiFieldProcess  = "process"
	PiiFieldExtra    = "extra"
)

var piiOptionalFields = []string{PiiFieldDocID, PiiFieldDetector, PiiFieldProcess, PiiFieldExtra}

// PiiEntity is one PII instance found inside a document chunk.
type PiiEntity struct {
	Info    PiiInfo
	Value   string
	ChunkID string
	Pos     int

	// Fields holds the optional docid, detector, process and extra values.
	Fields map[string]any
}

// NewPiiEntity builds an entity with no optional fields.
func NewPiiEntity(info PiiInfo, value, chunkID string, pos int) *PiiEntity {
	return &PiiEntity{Info: info, Value: value, ChunkID: chunkID, Pos: pos, Fields: map[string]any{}}
}

// Len returns the length of the entity value in characters.
func (e *PiiEntity) Len() int {
	return utf8.RuneCountInString(e.Value)
}

// End returns the position just past the entity value.
func (e *PiiEntity) End() int {
	return e.Pos + e.Len()
}

// SetField sets an optional field.
func (e *PiiEntity) SetField(name string, value any) {
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	e.Fields[name] = value
}

// Field returns an optional field.
func (e *PiiEntity) Field(name string) (any, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// AddProcessStage records a processing stage. Earlier stages are kept
// in the process history.
func (e *PiiEntity) AddProcessStage(stage string, data map[string]any) {
	next := map[string]any{"stage": stage}
	maps.Copy(next, data)

	prev, ok := e.Fields[PiiFieldProcess].(map[string]any)
	if !ok {
		e.SetField(PiiFieldProcess, next)
		return
	}
	prev = maps.Clone(prev)
	history, _ := prev["history"].([]any)
	delete(prev, "history")
	next["history"] = append(history, prev)
	e.SetField(PiiFieldProcess, next)
}

// Equal compares type, value, chunk id and position.
func (e *PiiEntity) Equal(other *PiiEntity) bool {
	return e.Info.Type == other.Info.Type &&
		e.Value == other.Value &&
		e.ChunkID == other.ChunkID &&
		e.Pos == other.Pos
}

// AsMap returns the entity as a plain mapping ready for serialization.
func (e *PiiEntity) AsMap() map[string]any {
	m := map[string]any{
		"type":    e.Info.Type.String(),
		"value":   e.Value,
		"chunkid": e.ChunkID,
		"start":   e.Pos,
		"end":     e.End(),
	}
	if e.Info.Lang != "" {
		m["lang"] = e.Info.Lang
	}
	if e.Info.Country != "" {
		m["country"] = e.Info.Country
	}
	if e.Info.Subtype != "" {
		m["subtype"] = e.Info.Subtype
	}
	for _, k := range piiOptionalFields {
		if v, ok := e.Fields[k]; ok && v != nil {
			m[k] = v
		}
	}
	return m
}

// PiiEntityFromMap rebuilds an entity from its mapping form.
func PiiEntityFromMap(m map[string]any) (*PiiEntity, error) {
	for _, k := range []string{"type", "start", "value", "chunkid"} {
		if _, ok := m[k]; !ok {
			return nil, fmt.Errorf("%w: missing field in PII entity: %s", ErrInvalidArgument, k)
		}
	}
	name, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: PII type must be a string", ErrInvalidArgument)
	}
	ptype, err := ParsePiiType(name)
	if err != nil {
		return nil, err
	}
	pos, ok := AsInt(m["start"])
	if !ok {
		return nil, fmt.Errorf("%w: invalid PII start position: %v", ErrInvalidArgument, m["start"])
	}
	value, _ := m["value"].(string)

	info := PiiInfo{Type: ptype}
	info.Lang, _ = m["lang"].(string)
	info.Country, _ = m["country"].(string)
	info.Subtype, _ = m["subtype"].(string)

	e := NewPiiEntity(info, value, IDString(m["chunkid"]), pos)
	for _, k := range piiOptionalFields {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if k == PiiFieldDetector {
			if n, ok := AsInt(v); ok {
				v = n
			}
		}
		e.Fields[k] = v
	}
	return e, nil
}

// String returns a short description of the entity.
func (e *PiiEntity) String() string {
	return fmt.Sprintf("<PiiEntity %s:%s>", e.Info.Type, e.Value)
}

// AsInt converts a decoded integral number into an int.
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	default:
		return 0, false
	}
}
