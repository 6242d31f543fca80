package dataset

import "strings"

// ObjectType is the catalog category of an orbital object.
type ObjectType int

const (
	ObjectUnknown ObjectType = iota
	ObjectPayload
	ObjectRocketBody
	ObjectDebris
)

var objectTypeNames = [...]string{
	ObjectUnknown:    "UNKNOWN",
	ObjectPayload:    "PAYLOAD",
	ObjectRocketBody: "ROCKET_BODY",
	ObjectDebris:     "DEBRIS",
}

// String returns the facet label of the object type.
func (t ObjectType) String() string {
	if t < 0 || int(t) >= len(objectTypeNames) {
		return objectTypeNames[ObjectUnknown]
	}
	return objectTypeNames[t]
}

// objectTypeCodes maps upper-cased source codes to object types.
var objectTypeCodes = map[string]ObjectType{
	"PAY":         ObjectPayload,
	"PAYLOAD":     ObjectPayload,
	"R/B":         ObjectRocketBody,
	"ROCKET BODY": ObjectRocketBody,
	"ROCKET_BODY": ObjectRocketBody,
	"DEB":         ObjectDebris,
	"DEBRIS":      ObjectDebris,
	"UNK":         ObjectUnknown,
	"UNKNOWN":     ObjectUnknown,
}

// ParseObjectType maps a source code ("PAY", "R/B", "DEB", ...) to an
// ObjectType. Matching is case-insensitive; unrecognized codes yield
// ObjectUnknown.
func ParseObjectType(s string) ObjectType {
	return objectTypeCodes[strings.ToUpper(strings.TrimSpace(s))]
}

// Status is the lifecycle status of an orbital object.
type Status int

const (
	StatusOther Status = iota
	StatusActive
	StatusInactive
	StatusDebris
	StatusRocketBody
)

var statusNames = [...]string{
	StatusOther:      "OTHER",
	StatusActive:     "ACTIVE",
	StatusInactive:   "INACTIVE",
	StatusDebris:     "DEBRIS",
	StatusRocketBody: "ROCKET_BODY",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[StatusOther]
	}
	return statusNames[s]
}

// rocketBodyPrefix matches "rocket body" and qualified variants such as
// "rocket body+". Other statuses match exactly.
const rocketBodyPrefix = "rocket body"

// ParseStatus maps free-text status to a Status, case-insensitively.
func ParseStatus(s string) Status {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "active":
		return StatusActive
	case v == "inactive":
		return StatusInactive
	case v == "debris":
		return StatusDebris
	case strings.HasPrefix(v, rocketBodyPrefix):
		return StatusRocketBody
	default:
		return StatusOther
	}
}

// Record is one normalized orbital object. Records are immutable once
// produced by the Normalizer; consumers must not modify them.
type Record struct {
	Year       int        `json:"year"`
	Country    string     `json:"country"`
	ObjectType ObjectType `json:"object_type"`
	Status     Status     `json:"status"`
	Name       string     `json:"name"`
	Operator   string     `json:"operator"`
	Driver     string     `json:"driver"`
}

// IsPayload reports whether the record is a payload (satellite).
func (r Record) IsPayload() bool { return r.ObjectType == ObjectPayload }
