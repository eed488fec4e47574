// Package textgen produces LinkedIn post bodies from a chat completion
// backend, with a canned fallback catalogue so generation always yields
// publishable content.
package textgen
