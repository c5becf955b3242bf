package jsonschema

// The 2020-12 vocabulary URIs, matched against a meta-schema's $vocabulary
// map. See
// https://json-schema.org/draft/2020-12/json-schema-core#name-vocabularies
const (
	vocabCore             = "https://json-schema.org/draft/2020-12/vocab/core"
	vocabApplicator       = "https://json-schema.org/draft/2020-12/vocab/applicator"
	vocabUnevaluated      = "https://json-schema.org/draft/2020-12/vocab/unevaluated"
	vocabValidation       = "https://json-schema.org/draft/2020-12/vocab/validation"
	vocabMetaData         = "https://json-schema.org/draft/2020-12/vocab/meta-data"
	vocabFormatAnnotation = "https://json-schema.org/draft/2020-12/vocab/format-annotation"
	vocabFormatAssertion  = "https://json-schema.org/draft/2020-12/vocab/format-assertion"
	vocabContent          = "https://json-schema.org/draft/2020-12/vocab/content"
)

// defaultVocabularies lists every vocabulary this compiler implements.
func defaultVocabularies() map[string]bool {
	return map[string]bool{
		vocabCore:             true,
		vocabApplicator:       true,
		vocabUnevaluated:      true,
		vocabValidation:       true,
		vocabMetaData:         true,
		vocabFormatAnnotation: true,
		vocabFormatAssertion:  true,
		vocabContent:          true,
	}
}

// keywordVocabulary maps a keyword name to the 2020-12 vocabulary URI that
// defines it. Keywords absent from this map belong to core, which is
// always active, or are unrecognized vendor extensions handled by
// Schema.Extra/Compiler.PreserveExtra regardless of any vocabulary.
var keywordVocabulary = map[string]string{
	"allOf":                 vocabApplicator,
	"anyOf":                 vocabApplicator,
	"oneOf":                 vocabApplicator,
	"not":                   vocabApplicator,
	"if":                    vocabApplicator,
	"then":                  vocabApplicator,
	"else":                  vocabApplicator,
	"properties":            vocabApplicator,
	"patternProperties":     vocabApplicator,
	"additionalProperties":  vocabApplicator,
	"propertyNames":         vocabApplicator,
	"prefixItems":           vocabApplicator,
	"items":                 vocabApplicator,
	"contains":              vocabApplicator,
	"dependentSchemas":      vocabApplicator,
	"unevaluatedProperties": vocabUnevaluated,
	"unevaluatedItems":      vocabUnevaluated,
	"type":                  vocabValidation,
	"enum":                  vocabValidation,
	"const":                 vocabValidation,
	"multipleOf":            vocabValidation,
	"maximum":               vocabValidation,
	"exclusiveMaximum":      vocabValidation,
	"minimum":               vocabValidation,
	"exclusiveMinimum":      vocabValidation,
	"maxLength":             vocabValidation,
	"minLength":             vocabValidation,
	"pattern":               vocabValidation,
	"maxItems":              vocabValidation,
	"minItems":              vocabValidation,
	"uniqueItems":           vocabValidation,
	"maxContains":           vocabValidation,
	"minContains":           vocabValidation,
	"maxProperties":         vocabValidation,
	"minProperties":         vocabValidation,
	"required":              vocabValidation,
	"dependentRequired":     vocabValidation,
	"format":                vocabFormatAnnotation,
	"contentEncoding":       vocabContent,
	"contentMediaType":      vocabContent,
	"contentSchema":         vocabContent,
	"title":                 vocabMetaData,
	"description":           vocabMetaData,
	"default":               vocabMetaData,
	"deprecated":            vocabMetaData,
	"readOnly":              vocabMetaData,
	"writeOnly":             vocabMetaData,
	"examples":              vocabMetaData,
}

// vocabularyActive reports whether the vocabulary that defines keyword is
// enabled for s's schema tree. A keyword with no vocabulary mapping (core,
// or an unrecognized extension) is always active. When the root schema
// declares no $vocabulary at all, every known vocabulary is assumed active,
// matching the draft's "no $vocabulary means full 2020-12 semantics" rule.
func (s *Schema) vocabularyActive(keyword string) bool {
	uri, ok := keywordVocabulary[keyword]
	if !ok {
		return true
	}
	return s.vocabularyDeclared(uri)
}

// vocabularyDeclared reports whether the root schema's $vocabulary map
// names uri at all (required or optional). A vocabulary omitted from an
// explicit $vocabulary declaration is the one that "MUST NOT be used for
// processing," per the core spec; absence of $vocabulary altogether means
// every known vocabulary is in force.
func (s *Schema) vocabularyDeclared(uri string) bool {
	root := s.getRootSchema()
	if len(root.Vocabulary) == 0 {
		return true
	}
	_, declared := root.Vocabulary[uri]
	return declared
}

// validateVocabulary checks a root schema's $vocabulary declaration (if
// any) against the compiler's implemented set. A vocabulary listed as
// required (true) that this compiler does not implement fails compilation,
// per §8.1.2's "MUST refuse to process". A vocabulary listed as optional
// (false) and unimplemented is silently ignored: its keywords fall back to
// the ordinary unknown-keyword handling (Schema.Extra / PreserveExtra).
func (s *Schema) validateVocabulary() *EvaluationError {
	if len(s.Vocabulary) == 0 {
		return nil
	}

	known := s.GetCompiler().Vocabularies
	for uri, required := range s.Vocabulary {
		if _, ok := known[uri]; ok {
			continue
		}
		if required {
			return NewEvaluationError("$vocabulary", "vocabulary_unsupported",
				"Required vocabulary '{uri}' is not supported by this implementation.",
				map[string]interface{}{"uri": uri})
		}
	}
	return nil
}
