// Package model defines the uniform call contract over LLM backends plus the
// manager that provides ordered fallback between them. Concrete adapters for
// the Anthropic and OpenAI APIs live in the subpackages.
package model
