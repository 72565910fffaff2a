// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package graph

import (
	"strconv"
	"strings"
)

// Module is one cleaned module-handbook record. Multi-valued fields hold
// ";"-separated lists.
type Module struct {
	ID                    string `json:"module_id" yaml:"module_id"`
	Name                  string `json:"module_name" yaml:"module_name"`
	Type                  string `json:"type" yaml:"type"`
	ECTS                  string `json:"ects" yaml:"ects"`
	Aim                   string `json:"aim" yaml:"aim"`
	Literature            string `json:"literature" yaml:"literature"`
	AssessmentForm        string `json:"assessment_form" yaml:"assessment_form"`
	AdmissionRequirements string `json:"admission_requirements" yaml:"admission_requirements"`
	AssessmentDuration    string `json:"assessment_duration" yaml:"assessment_duration"`
	Language              string `json:"language" yaml:"language"`
	RecommendedSemester   string `json:"recommended_semester" yaml:"recommended_semester"`
	Level                 string `json:"level" yaml:"level"`
	Offering              string `json:"offering" yaml:"offering"`
	Prerequisites         string `json:"prerequisites" yaml:"prerequisites"`
	FurtherModule         string `json:"further_module" yaml:"further_module"`
	ApplicationRange      string `json:"application_range" yaml:"application_range"`
	Lecturer              string `json:"lecturer" yaml:"lecturer"`
	PersonInCharge        string `json:"person_in_charge" yaml:"person_in_charge"`
}

// Schema classes.
var (
	ClassModule       = Schema("Module")
	ClassStudyProgram = Schema("StudyProgram")
	ClassLecturer     = Schema("Lecturer")
	ClassLevel        = Schema("Level")
)

// Schema predicates.
var (
	PredModuleID              = Schema("hasModuleID")
	PredModuleName            = Schema("hasModuleName")
	PredType                  = Schema("hasType")
	PredECTS                  = Schema("hasECTS")
	PredAim                   = Schema("hasAim")
	PredLiterature            = Schema("hasLiterature")
	PredAssessmentForm        = Schema("hasAssessmentForm")
	PredAdmissionRequirements = Schema("hasAdmissionRequirements")
	PredAssessmentDuration    = Schema("hasAssessmentDuration")
	PredLanguage              = Schema("hasLanguage")
	PredRecommendedSemester   = Schema("recommendedSemester")
	PredLevel                 = Schema("hasLevel")
	PredOfferedIn             = Schema("offeredIn")
	PredPrerequisite          = Schema("hasPrerequisite")
	PredFurtherModule         = Schema("hasFurtherModule")
	PredApplicationRange      = Schema("hasApplicationRange")
	PredTaughtBy              = Schema("taughtBy")
	PredPersonInCharge        = Schema("hasPersonInCharge")
)

// BuildTriples converts a module record into triples. Records without an ID
// produce nothing. Empty fields are skipped.
func BuildTriples(m Module) []Triple {
	id := EncodeWS(m.ID)
	if id == "" {
		return nil
	}
	subject := Data(id)
	b := tripleBuilder{subject: subject}

	b.add(RDFType, IRI(ClassModule))

	b.literal(PredModuleID, m.ID, XSDString)
	b.literal(PredModuleName, m.Name, XSDString)
	b.literal(PredType, m.Type, XSDString)
	b.number(PredECTS, m.ECTS)
	b.literal(PredAim, m.Aim, XSDString)
	b.literal(PredLiterature, m.Literature, XSDString)
	b.literal(PredAssessmentForm, m.AssessmentForm, XSDString)
	b.literal(PredAdmissionRequirements, m.AdmissionRequirements, XSDString)
	b.literal(PredAssessmentDuration, integerLexical(m.AssessmentDuration), XSDInteger)
	b.literal(PredLanguage, m.Language, XSDString)
	for _, s := range splitList(m.RecommendedSemester) {
		b.literal(PredRecommendedSemester, integerLexical(s), XSDInteger)
	}

	b.entity(PredLevel, m.Level, "")
	b.entity(PredOfferedIn, m.Offering, "")
	for _, v := range splitList(m.Prerequisites) {
		b.entity(PredPrerequisite, v, ClassModule)
	}
	for _, v := range splitList(m.FurtherModule) {
		b.entity(PredFurtherModule, v, ClassModule)
	}
	for _, v := range splitList(m.ApplicationRange) {
		b.entity(PredApplicationRange, v, ClassStudyProgram)
	}
	for _, v := range splitList(m.Lecturer) {
		b.entity(PredTaughtBy, v, ClassLecturer)
	}
	for _, v := range splitList(m.PersonInCharge) {
		b.entity(PredPersonInCharge, v, ClassLecturer)
	}
	return b.out
}

type tripleBuilder struct {
	subject string
	out     []Triple
}

func (b *tripleBuilder) add(pred string, obj Term) {
	b.out = append(b.out, Triple{Subject: b.subject, Predicate: pred, Object: obj})
}

func (b *tripleBuilder) literal(pred, value, datatype string) {
	v := EncodeWS(value)
	if v == "" {
		return
	}
	b.add(pred, Literal(v, datatype))
}

// number adds a numeric literal. Values that are not numbers are dropped so
// every stored ECTS value can be queried back.
func (b *tripleBuilder) number(pred, value string) {
	if t, ok := NumberTerm(value); ok {
		b.add(pred, t)
	}
}

// entity links to a data IRI and, when class is set, types the target.
func (b *tripleBuilder) entity(pred, local, class string) {
	v := EncodeWS(local)
	if v == "" {
		return
	}
	target := Data(v)
	if class != "" {
		b.out = append(b.out, Triple{Subject: target, Predicate: RDFType, Object: IRI(class)})
	}
	b.add(pred, IRI(target))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NumberTerm types a numeric value. Integers, including "6.0", become
// xsd:integer and plain decimals such as "7.5" become xsd:decimal.
func NumberTerm(s string) (Term, bool) {
	s = integerLexical(s)
	if _, err := strconv.Atoi(s); err == nil {
		return Literal(s, XSDInteger), true
	}
	if isDecimal(s) {
		return Literal(s, XSDDecimal), true
	}
	return Term{}, false
}

// isDecimal accepts an optional sign, digits and a single dot with digits on
// at least one side. Exponents, NaN and Inf are rejected.
func isDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// integerLexical normalizes "6", "6.0" and " 6 " to "6". Non-numeric input is
// returned trimmed so the literal still carries the source value.
func integerLexical(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		s = strings.TrimSuffix(s, ".0")
	}
	return s
}
