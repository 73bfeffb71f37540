package fhir

import "strconv"

// listShape declares one list-valued field of a flattened resource. The
// walker infers the field's length, then descends into each element for
// every child shape. A child with an empty field name refers to the element
// itself, for fields whose elements are lists in their own right. Adding a
// resource type means adding a table below, not new control flow.
type listShape struct {
	field    string
	children []listShape
}

func walkShapes(obj Record, shapes []listShape) {
	for _, s := range shapes {
		walkShape(obj, s.field, s.children)
	}
}

func walkShape(obj Record, prefix string, children []listShape) {
	n := InferListLength(obj, prefix)
	for i := 0; i < n; i++ {
		for _, c := range children {
			childPrefix := prefix + "_" + strconv.Itoa(i)
			if c.field != "" {
				childPrefix += "_" + c.field
			}
			walkShape(obj, childPrefix, c.children)
		}
	}
}

// extensionShapes is the fixed nested shape set of a FHIR extension. Only
// one level of extension recursion is declared; deeper nesting is not
// inferred.
var extensionShapes = []listShape{
	{field: "valueCodeableConcept_coding"},
	{field: "valueTiming_event"},
	{field: "valueTiming_code_coding"},
	{field: "valueAddress_line"},
	{field: "valueHumanName_family"},
	{field: "valueHumanName_given"},
	{field: "valueHumanName_prefix"},
	{field: "valueHumanName_suffix"},
	{field: "valueSignature_type_coding"},
	{field: "extension"},
}

// baseShapes covers the list-valued fields common to every resource type.
var baseShapes = []listShape{
	{field: "identifier", children: []listShape{
		{field: "type_coding"},
	}},
	{field: "extension", children: extensionShapes},
	{field: "modifierExtension", children: extensionShapes},
}

// containedMedicationShapes covers an inline DSTU2 Medication resource,
// embedded via "contained" in Procedure and the medication resources.
// See http://hl7.org/fhir/DSTU2/medication.html.
var containedMedicationShapes = []listShape{
	{field: "contained", children: []listShape{
		{field: "code_coding"},
		{field: "product_form"},
		{field: "product_ingredient"},
		{field: "product_batch"},
		{field: "package_container_coding"},
		{field: "package_content"},
	}},
}

var observationShapes = []listShape{
	{field: "category_coding"},
	{field: "code_coding"},
	{field: "performer"},
	{field: "valueCodeableConcept_coding"},
	{field: "dataAbsentReason_coding"},
	{field: "interpretation_coding"},
	{field: "bodySite_coding"},
	{field: "method_coding"},
	{field: "referenceRange", children: []listShape{
		{field: "meaning_coding"},
	}},
	{field: "component", children: []listShape{
		{field: "code_coding"},
		{field: "valueCodeableConcept_coding"},
		{field: "dataAbsentReason_coding"},
		{field: "referenceRange"},
	}},
}

var medicationAdministrationShapes = []listShape{
	{field: "reasonNotGiven", children: []listShape{
		{field: "coding"},
	}},
	{field: "reasonGiven", children: []listShape{
		{field: "coding"},
	}},
	{field: "medicationCodeableConcept_coding"},
	{field: "device"},
	{field: "dosage_siteCodeableConcept_coding"},
	{field: "dosage_route_coding"},
	{field: "dosage_method_coding"},
}

var medicationOrderShapes = []listShape{
	{field: "reasonEnded_coding"},
	{field: "reasonCodeableConcept_coding"},
	{field: "medicationCodeableConcept_coding"},
	{field: "dosageInstruction", children: []listShape{
		{field: "additionalInstructions_coding"},
		{field: "timing_code_coding"},
		{field: "asNeededCodeableConcept_coding"},
		{field: "siteCodeableConcept_coding"},
		{field: "route_coding"},
		{field: "method_coding"},
	}},
	{field: "dispenseRequest_medicationCodeableConcept_coding"},
	{field: "substitution_type_coding"},
	{field: "substitution_reason_coding"},
}

// reasonNotTaken carries no per-index coding shape; only the top-level
// length is part of the output contract consumed downstream.
var medicationStatementShapes = []listShape{
	{field: "reasonNotTaken"},
	{field: "reasonForUseCodeableConcept_coding"},
	{field: "supportingInformation"},
	{field: "medicationCodeableConcept_coding"},
	{field: "dosage", children: []listShape{
		{field: "asNeededCodeableConcept_coding"},
		{field: "siteCodeableConcept_coding"},
		{field: "route_coding"},
		{field: "method_coding"},
	}},
}

var conditionShapes = []listShape{
	{field: "code_coding"},
	{field: "category_coding"},
	{field: "severity_coding"},
	{field: "stage_assessment"},
	{field: "evidence", children: []listShape{
		{field: "code_coding"},
		{field: "detail"},
	}},
	{field: "bodySite", children: []listShape{
		{field: "coding"},
	}},
}

var procedureShapes = []listShape{
	{field: "category_coding"},
	{field: "code_coding"},
	{field: "reasonNotPerformed_coding"},
	{field: "bodySite", children: []listShape{
		{field: "coding"},
	}},
	{field: "reasonCodeableConcept_coding"},
	{field: "performer", children: []listShape{
		{field: "role_coding"},
	}},
	{field: "outcome_coding"},
	{field: "report"},
	{field: "complication", children: []listShape{
		{field: "coding"},
	}},
	{field: "followUp", children: []listShape{
		{field: "coding"},
	}},
	{field: "notes"},
	{field: "focalDevice", children: []listShape{
		{field: "action_coding"},
	}},
	{field: "used"},
}

// DSTU2 human-name parts (family, given, ...) are lists whose elements may
// themselves be lists, so each part element gets its own length key.
var patientShapes = []listShape{
	{field: "name", children: []listShape{
		{field: "family", children: []listShape{{field: ""}}},
		{field: "given", children: []listShape{{field: ""}}},
		{field: "prefix", children: []listShape{{field: ""}}},
		{field: "suffix", children: []listShape{{field: ""}}},
	}},
	{field: "telecom"},
	{field: "address", children: []listShape{
		{field: "line"},
	}},
	{field: "maritalStatus_coding"},
	{field: "contact", children: []listShape{
		{field: "relationship", children: []listShape{{field: "coding"}}},
		{field: "telecom", children: []listShape{{field: "coding"}}},
	}},
	{field: "animal_species_coding"},
	{field: "animal_breed_coding"},
	{field: "animal_genderStatus_coding"},
	{field: "communication", children: []listShape{
		{field: "language_coding"},
	}},
	{field: "careProvider"},
	{field: "link"},
}

// AugmentBase infers list lengths for the structural fields every resource
// shares: identifier, extension and modifierExtension.
func AugmentBase(obj Record) {
	walkShapes(obj, baseShapes)
}

// AugmentContainedMedication infers list lengths for an inline Medication
// sub-resource.
func AugmentContainedMedication(obj Record) {
	walkShapes(obj, containedMedicationShapes)
}
