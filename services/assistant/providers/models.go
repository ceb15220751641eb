// Copyright (C) 2025 Agento AI (dev@agento.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

// DefaultModel is used when the caller supplies no model or an invalid one.
const DefaultModel = "llama-3.3-70b-versatile"

// ExtractionModel is a small, fast model used for structured extraction
// tasks (identity updates) where latency matters more than quality.
const ExtractionModel = "meta-llama/llama-4-scout-17b-16e-instruct"

// validModels is the allowlist of Groq model identifiers the service will
// pass through to the API.
var validModels = map[string]bool{
	"llama-3.3-70b-versatile":        true,
	"mixtral-8x7b-32768":             true,
	"gemma-7b-it":                    true,
	"mistral-saba-24b":               true,
	"qwen-2.5-coder-32b":             true,
	"deepseek-r1-distill-qwen-32b":   true,
	"deepseek-r1-distill-llama-70b":  true,
	"llama-3.3-70b-specdec":          true,
	"llama-guard-3-8b":               true,
	ExtractionModel:                  true,
}

// modelAliases maps frontend selector values to real model identifiers.
var modelAliases = map[string]string{
	"groq":                "llama-3.3-70b-versatile",
	"groq-mixtral":        "mixtral-8x7b-32768",
	"groq-gemma":          "gemma-7b-it",
	"groq-mistral-saba":   "mistral-saba-24b",
	"groq-qwen-coder":     "qwen-2.5-coder-32b",
	"groq-deepseek-qwen":  "deepseek-r1-distill-qwen-32b",
	"groq-deepseek-llama": "deepseek-r1-distill-llama-70b",
	"groq-llama-specdec":  "llama-3.3-70b-specdec",
	"groq-llama-guard":    "llama-guard-3-8b",
}

// ResolveModel maps a requested model name to a real, allowed identifier.
//
// Description:
//
//	Aliases are expanded first, then the result is checked against the
//	allowlist. Anything unrecognized silently degrades to DefaultModel
//	rather than failing the request.
func ResolveModel(requested string) string {
	if requested == "" {
		return DefaultModel
	}
	if real, ok := modelAliases[requested]; ok {
		requested = real
	}
	if !validModels[requested] {
		return DefaultModel
	}
	return requested
}
