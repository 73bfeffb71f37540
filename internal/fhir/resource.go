package fhir

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Canonical sort keys added to every decoded resource that carries a
// timestamp.
const (
	KeyDateTime    = "date_time"
	KeyEndDateTime = "end_date_time"
)

const (
	keyResourceType = "resourceType"
	keyStart        = "start"
	keyEnd          = "end"
)

// ResourceType identifies which of the supported DSTU2 resource schemas a
// record follows.
type ResourceType int

const (
	ResourceUnknown ResourceType = iota
	ResourcePatient
	ResourceObservation
	ResourceProcedure
	ResourceCondition
	ResourceMedicationStatement
	ResourceMedicationOrder
	ResourceMedicationAdministration
)

var resourceTypeNames = map[string]ResourceType{
	"Patient":                  ResourcePatient,
	"Observation":              ResourceObservation,
	"Procedure":                ResourceProcedure,
	"Condition":                ResourceCondition,
	"MedicationStatement":      ResourceMedicationStatement,
	"MedicationOrder":          ResourceMedicationOrder,
	"MedicationAdministration": ResourceMedicationAdministration,
}

// ParseResourceType maps a resourceType discriminator string onto the
// closed set of supported types. Unrecognized strings map to
// ResourceUnknown, which callers treat as "skip", not as an error.
func ParseResourceType(s string) ResourceType {
	return resourceTypeNames[s]
}

func (rt ResourceType) String() string {
	for name, t := range resourceTypeNames {
		if t == rt {
			return name
		}
	}
	return "Unknown"
}

// Decoder normalizes raw FHIR resources into flattened, depth-annotated,
// temporally-sortable records. Trace output goes to the supplied logger;
// there is no process-wide debug toggle.
type Decoder struct {
	log   zerolog.Logger
	trace bool
}

func NewDecoder(log zerolog.Logger, trace bool) *Decoder {
	return &Decoder{log: log, trace: trace}
}

// DecodeResource flattens a raw resource, normalizes its datetime strings
// and applies the decoder for its resource type. The returned Record is nil
// when the resource type is not one of the supported seven; that is not an
// error. An error is returned only when a datetime field violates the
// time-decomposition contract, so callers can skip the record and keep
// processing siblings.
func (d *Decoder) DecodeResource(obj map[string]interface{}) (Record, error) {
	flat := Flatten(obj)
	if err := normalizeDateTimes(flat); err != nil {
		return nil, fmt.Errorf("normalize datetimes: %w", err)
	}

	rt, _ := obj[keyResourceType].(string)
	switch ParseResourceType(rt) {
	case ResourcePatient:
		return d.decodePatient(flat), nil
	case ResourceObservation:
		return d.decodeObservation(flat), nil
	case ResourceProcedure:
		return d.decodeProcedure(flat), nil
	case ResourceCondition:
		return d.decodeCondition(flat), nil
	case ResourceMedicationStatement:
		return d.decodeMedicationStatement(flat), nil
	case ResourceMedicationOrder:
		return d.decodeMedicationOrder(flat), nil
	case ResourceMedicationAdministration:
		return d.decodeMedicationAdministration(flat), nil
	default:
		return nil, nil
	}
}

// promotePeriod copies a resource-specific timestamp pair into the
// canonical sort keys. The period bounds are applied after the direct
// field, so a period present alongside a direct dateTime wins.
func promotePeriod(obj Record, directKey, periodKey string) {
	if v, ok := obj[directKey]; ok {
		obj[KeyDateTime] = v
	}
	if p, ok := obj[periodKey].(map[string]interface{}); ok {
		if start, ok := p[keyStart]; ok {
			obj[KeyDateTime] = start
		}
		if end, ok := p[keyEnd]; ok {
			obj[KeyEndDateTime] = end
		}
	}
}

func (d *Decoder) decodeObservation(obj Record) Record {
	d.dump(obj, "flattened Observation, before augmentation")

	promotePeriod(obj, "effectiveDateTime", "effectivePeriod")

	AugmentBase(obj)
	walkShapes(obj, observationShapes)

	d.dump(obj, "flattened Observation, after augmentation")
	return obj
}

func (d *Decoder) decodeMedicationAdministration(obj Record) Record {
	d.dump(obj, "flattened MedicationAdministration, before augmentation")

	promotePeriod(obj, "effectiveTimeDateTime", "effectiveTimePeriod")

	AugmentBase(obj)
	AugmentContainedMedication(obj)
	walkShapes(obj, medicationAdministrationShapes)

	d.dump(obj, "flattened MedicationAdministration, after augmentation")
	return obj
}

func (d *Decoder) decodeMedicationOrder(obj Record) Record {
	d.dump(obj, "flattened MedicationOrder, before augmentation")

	if dw, ok := obj["dateWritten"]; ok {
		obj[KeyDateTime] = dw
	}
	if de, ok := obj["dateEnded"]; ok {
		obj[KeyEndDateTime] = de
	}

	AugmentBase(obj)
	AugmentContainedMedication(obj)
	walkShapes(obj, medicationOrderShapes)

	d.dump(obj, "flattened MedicationOrder, after augmentation")
	return obj
}

func (d *Decoder) decodeMedicationStatement(obj Record) Record {
	d.dump(obj, "flattened MedicationStatement, before augmentation")

	if da, ok := obj["dateAsserted"]; ok {
		obj[KeyDateTime] = da
	}

	AugmentBase(obj)
	AugmentContainedMedication(obj)
	walkShapes(obj, medicationStatementShapes)

	d.dump(obj, "flattened MedicationStatement, after augmentation")
	return obj
}

func (d *Decoder) decodeCondition(obj Record) Record {
	d.dump(obj, "flattened Condition, before augmentation")

	if odt, ok := obj["onsetDateTime"]; ok {
		obj[KeyDateTime] = odt
	}
	if adt, ok := obj["abatementDateTime"]; ok {
		obj[KeyEndDateTime] = adt
	}
	if p, ok := obj["onsetPeriod"].(map[string]interface{}); ok {
		if start, ok := p[keyStart]; ok {
			obj[KeyDateTime] = start
		}
	}
	if p, ok := obj["abatementPeriod"].(map[string]interface{}); ok {
		if end, ok := p[keyEnd]; ok {
			obj[KeyEndDateTime] = end
		}
	}

	AugmentBase(obj)
	walkShapes(obj, conditionShapes)

	d.dump(obj, "flattened Condition, after augmentation")
	return obj
}

func (d *Decoder) decodeProcedure(obj Record) Record {
	d.dump(obj, "flattened Procedure, before augmentation")

	promotePeriod(obj, "performedDateTime", "performedPeriod")

	AugmentBase(obj)
	AugmentContainedMedication(obj)
	walkShapes(obj, procedureShapes)

	d.dump(obj, "flattened Procedure, after augmentation")
	return obj
}

// decodePatient augments a Patient record. Patients carry no direct
// timestamp promotion; their shape covers names, addresses, contacts and
// communication languages instead.
func (d *Decoder) decodePatient(obj Record) Record {
	d.dump(obj, "flattened Patient, before augmentation")

	AugmentBase(obj)
	walkShapes(obj, patientShapes)

	d.dump(obj, "flattened Patient, after augmentation")
	return obj
}

func (d *Decoder) dump(obj Record, msg string) {
	if !d.trace {
		return
	}
	d.log.Debug().Interface("record", obj).Msg(msg)
}
