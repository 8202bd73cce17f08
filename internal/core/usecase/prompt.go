package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

const maxPromptChars = 12000

func buildExtractionPrompt(text string) string {
	snippet := text
	if len(snippet) > maxPromptChars {
		snippet = snippet[:maxPromptChars]
	}

	return `You are a resume parsing assistant for a career mentorship platform.
Extract the structured resume data from the document below.
Return a strict JSON object with keys:
personal_info (object: first_name, last_name, email, phone, title, location, linkedin, website),
summary (string),
experience (array of objects: company, position, start_date, end_date, description),
education (array of objects: institution, degree, field, end_date, gpa),
skills (object: technical array of strings, soft array of strings).
Dates as YYYY-MM where possible; use "current" for ongoing roles.
Omit nothing you can find; leave unknown fields empty. No markdown, no extra keys.

Document:
` + snippet
}

func buildGenerationPrompt(req domain.ProviderRequest) string {
	var ctx strings.Builder
	appendField := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			ctx.WriteString(fmt.Sprintf("%s: %s\n", label, value))
		}
	}
	appendField("Job title", req.Context.JobTitle)
	appendField("Industry", req.Context.Industry)
	appendField("Experience level", req.Context.ExperienceLevel)
	appendField("Education", req.Context.Education)
	appendField("Target role", req.Context.TargetRole)
	if len(req.Context.Skills) > 0 {
		ctx.WriteString("Skills: " + strings.Join(req.Context.Skills, ", ") + "\n")
	}
	appendField("Tone", req.Style.Tone)
	appendField("Length", req.Style.Length)
	appendField("Focus", req.Style.Focus)

	input := req.Input
	if len(input) > maxPromptChars {
		input = input[:maxPromptChars]
	}

	return fmt.Sprintf(`You are an expert career coach writing %s content.
Candidate context:
%s
Return a strict JSON object with keys:
summary (string),
skills (array of objects: id, name, category one of technical|soft|industry_specific, proficiency one of beginner|intermediate|advanced|expert, demand one of high|medium|low),
suggestions (array of objects: kind one of summary|skill|experience|format, field, text, confidence number 0..1, rationale, priority one of high|medium|low).
No markdown fences, no extra keys.

Input:
%s
`, req.ContentType, ctx.String(), input)
}

func buildSuggestionsPrompt(resume domain.CanonicalResume) string {
	encoded, err := json.Marshal(resume)
	if err != nil {
		encoded = []byte("{}")
	}
	payload := string(encoded)
	if len(payload) > maxPromptChars {
		payload = payload[:maxPromptChars]
	}

	return `You are an expert resume reviewer for a career mentorship platform.
Review the resume below and propose concrete improvements.
Return a strict JSON object with a single key:
suggestions (array of objects: kind one of summary|skill|experience|format, field, text, confidence number 0..1, rationale, priority one of high|medium|low).
Order suggestions by priority, highest first. No markdown, no extra keys.

Resume:
` + payload
}
