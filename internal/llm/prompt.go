// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm builds instruction prompts and sends them to an
// OpenAI-compatible chat model.
package llm

import (
	"bytes"
	"strings"
	"text/template"
)

// Instructions used by the backend service.
const (
	InstructionSearchTerms = "Please extract and list search terms from the following question. " +
		"It must be the list of search terms that you would use to search for the answer to the question. " +
		"Do not include any punctuation or special characters."

	InstructionSummary = "Please answer the following question based on the provided abstracts in one paragraph. " +
		"Do not include any information that is not present in the abstracts."
)

// answerMarker ends every prompt; the model's answer follows it.
const answerMarker = "###### Answer:"

var promptTmpl = template.Must(template.New("prompt").Parse(
	"###### Instruction: {{.Instruction}}\n\n" +
		"###### Question: {{.Question}}\n\n" +
		"{{if .Context}}###### Context: {{.Context}}\n\n{{end}}" +
		answerMarker))

// Prompt renders the instruction, question, and optional context.
func Prompt(instruction, question, context string) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct {
		Instruction, Question, Context string
	}{instruction, question, context})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Answer extracts the model's answer. Completion models may echo the prompt,
// so anything up to the last answer marker is dropped.
func Answer(output string) string {
	if i := strings.LastIndex(output, answerMarker); i >= 0 {
		output = output[i+len(answerMarker):]
	}
	return strings.TrimSpace(output)
}
