// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package intent

import (
	"fmt"
	"regexp"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Default Intent Rules
// =============================================================================

//go:embed rules.yaml
var defaultRulesYAML []byte

// =============================================================================
// Rule Types
// =============================================================================

// Rules is the shared pattern library for all intent classifiers.
//
// Description:
//
//	Pure data plus pre-compiled regular expressions. Every ordered list
//	keeps its declared order: extraction cascades try each pattern in
//	sequence and stop at the first match, which is what gives quoted names
//	precedence over positional heuristics.
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type Rules struct {
	Email    EmailRules    `yaml:"email"`
	Drive    DriveRules    `yaml:"drive"`
	Identity IdentityRules `yaml:"identity"`

	// EmailAddressPattern recognizes a syntactically valid address token.
	EmailAddressPattern string `yaml:"email_address_pattern"`

	emailAddressRe *regexp.Regexp
}

// EmailRules holds the vocabulary for the two-tier email intent check.
type EmailRules struct {
	ExplicitActions   []string `yaml:"explicit_actions"`
	WritingActions    []string `yaml:"writing_actions"`
	WritingPhrases    []string `yaml:"writing_phrases"`
	SendingIndicators []string `yaml:"sending_indicators"`
}

// FileTypeGroup maps one canonical file type to its keyword synonyms.
type FileTypeGroup struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// NamedPattern is a tagged extraction rule: one regular expression whose
// first capture group is the extracted value.
type NamedPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

// Regexp returns the compiled pattern.
func (p *NamedPattern) Regexp() *regexp.Regexp { return p.re }

// DriveRules holds the drive classifier's keyword sets and extraction
// cascades.
type DriveRules struct {
	CanonicalListPhrases []string        `yaml:"canonical_list_phrases"`
	DriveKeywords        []string        `yaml:"drive_keywords"`
	FileKeywords         []string        `yaml:"file_keywords"`
	FileTypes            []FileTypeGroup `yaml:"file_types"`
	FileNamePatterns     []NamedPattern  `yaml:"file_name_patterns"`
	CreateNamePatterns   []NamedPattern  `yaml:"create_name_patterns"`
	ContentPatterns      []NamedPattern  `yaml:"content_patterns"`

	ClassifyContentPattern string `yaml:"classify_content_pattern"`

	ListKeywords   []string `yaml:"list_keywords"`
	ReadKeywords   []string `yaml:"read_keywords"`
	CreateKeywords []string `yaml:"create_keywords"`
	ReadStopwords  []string `yaml:"read_stopwords"`

	classifyContentRe *regexp.Regexp
}

// IdentityRules holds the identity classifier's gate and fallback patterns.
type IdentityRules struct {
	TriggerPhrases      []string `yaml:"trigger_phrases"`
	NameFallbackPattern string   `yaml:"name_fallback_pattern"`
	JSONEnvelopePattern string   `yaml:"json_envelope_pattern"`

	nameFallbackRe *regexp.Regexp
	jsonEnvelopeRe *regexp.Regexp
}

// =============================================================================
// Loading
// =============================================================================

var (
	rulesOnce   sync.Once
	loadedRules *Rules
	rulesErr    error
)

// GetRules returns the embedded default rule set, loading it once.
//
// Outputs:
//
//	*Rules - The compiled rule set.
//	error - Non-nil if the embedded YAML is malformed or a pattern does
//	not compile. This indicates a build-time defect, not a runtime
//	condition.
//
// Thread Safety: Safe for concurrent use.
func GetRules() (*Rules, error) {
	rulesOnce.Do(func() {
		loadedRules, rulesErr = ParseRules(defaultRulesYAML)
	})
	return loadedRules, rulesErr
}

// ParseRules parses and compiles a rule set from YAML.
//
// Inputs:
//
//	data - Raw YAML bytes (see rules.yaml for the schema).
//
// Outputs:
//
//	*Rules - The compiled rule set.
//	error - Non-nil on YAML or regex compilation failure.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("intent rules: unmarshal failed: %w", err)
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return &r, nil
}

// compile pre-compiles every regular expression in the rule set.
func (r *Rules) compile() error {
	var err error
	if r.emailAddressRe, err = regexp.Compile(r.EmailAddressPattern); err != nil {
		return fmt.Errorf("intent rules: email_address_pattern: %w", err)
	}
	if r.Drive.classifyContentRe, err = regexp.Compile(r.Drive.ClassifyContentPattern); err != nil {
		return fmt.Errorf("intent rules: classify_content_pattern: %w", err)
	}
	if r.Identity.nameFallbackRe, err = regexp.Compile(r.Identity.NameFallbackPattern); err != nil {
		return fmt.Errorf("intent rules: name_fallback_pattern: %w", err)
	}
	if r.Identity.jsonEnvelopeRe, err = regexp.Compile(r.Identity.JSONEnvelopePattern); err != nil {
		return fmt.Errorf("intent rules: json_envelope_pattern: %w", err)
	}
	for _, cascade := range []struct {
		name     string
		patterns []NamedPattern
	}{
		{"file_name_patterns", r.Drive.FileNamePatterns},
		{"create_name_patterns", r.Drive.CreateNamePatterns},
		{"content_patterns", r.Drive.ContentPatterns},
	} {
		for i := range cascade.patterns {
			p := &cascade.patterns[i]
			if p.re, err = regexp.Compile(p.Pattern); err != nil {
				return fmt.Errorf("intent rules: %s/%s: %w", cascade.name, p.Name, err)
			}
		}
	}
	return nil
}

// EmailAddressRegexp returns the compiled address pattern.
func (r *Rules) EmailAddressRegexp() *regexp.Regexp { return r.emailAddressRe }

// ExtractFirst runs an extraction cascade against the query and returns the
// first capture, the name of the rule that matched, and whether any rule
// matched. Rule order is precedence order.
func ExtractFirst(patterns []NamedPattern, query string) (value, rule string, ok bool) {
	for i := range patterns {
		p := &patterns[i]
		if m := p.re.FindStringSubmatch(query); m != nil && len(m) > 1 {
			return trimExtracted(m[1]), p.Name, true
		}
	}
	return "", "", false
}
