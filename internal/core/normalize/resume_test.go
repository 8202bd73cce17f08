package normalize

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

var testNow = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

func TestResumeMapsParsedStructure(t *testing.T) {
	parsed := &domain.AIParsedResume{
		PersonalInfo: &domain.PersonalInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Title:     "Engineer\nII",
		},
		Summary: "Builds\tthings",
		Experience: []domain.ExperienceEntry{
			{Company: "Acme", Position: "Dev", StartDate: "2021", EndDate: "present", Description: "shipped \"stuff\""},
		},
		Education: []domain.EducationEntry{
			{Institution: "State U", Degree: "BS", Field: "CS", EndDate: "May 2020"},
		},
		Skills: &domain.SkillGroups{Technical: []string{"Go", " "}, Soft: []string{"mentoring"}},
	}

	got := Resume(parsed, "", testNow)

	if got.PersonalInfo.Title != "Engineer II" {
		t.Fatalf("title = %q", got.PersonalInfo.Title)
	}
	if got.Summary != "Builds things" {
		t.Fatalf("summary = %q", got.Summary)
	}
	exp := got.Experience[0]
	if exp.StartDate != "2021-01" || exp.EndDate != "2026-09" {
		t.Fatalf("experience dates = %q..%q", exp.StartDate, exp.EndDate)
	}
	if exp.Description != `shipped \"stuff\"` {
		t.Fatalf("description = %q", exp.Description)
	}
	if got.Education[0].EndDate != "2020-05" {
		t.Fatalf("education end date = %q", got.Education[0].EndDate)
	}
	if len(got.Skills.Technical) != 1 || got.Skills.Technical[0] != "Go" {
		t.Fatalf("technical skills = %v", got.Skills.Technical)
	}
	if len(got.Skills.Soft) != 1 {
		t.Fatalf("soft skills = %v", got.Skills.Soft)
	}
}

func TestResumeCompletionPercentage(t *testing.T) {
	parsed := &domain.AIParsedResume{
		PersonalInfo: &domain.PersonalInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
		},
	}

	got := Resume(parsed, "", testNow)
	if got.CompletionPercentage != 30 {
		t.Fatalf("completion = %d, want 30", got.CompletionPercentage)
	}
}

func TestResumeFallbackExtractsContactDetails(t *testing.T) {
	text := "Contact: jane@example.com, call 415-555-0100"

	got := Resume(nil, text, testNow)

	if got.PersonalInfo.Email != "jane@example.com" {
		t.Fatalf("email = %q", got.PersonalInfo.Email)
	}
	if !strings.Contains(got.PersonalInfo.Phone, "415-555-0100") {
		t.Fatalf("phone = %q", got.PersonalInfo.Phone)
	}
	if got.PersonalInfo.FirstName != "" || got.PersonalInfo.LastName != "" {
		t.Fatalf("expected empty names, got %+v", got.PersonalInfo)
	}
	if len(got.Experience) != 0 || len(got.Education) != 0 {
		t.Fatalf("expected empty lists")
	}
	if got.Summary == "" {
		t.Fatalf("expected summary from fallback text")
	}
}

func TestResumeFallbackTruncatesSummary(t *testing.T) {
	long := strings.Repeat("a", 1200)
	got := Resume(nil, long, testNow)
	if len(got.Summary) != 500 {
		t.Fatalf("summary length = %d, want 500", len(got.Summary))
	}
}

func TestResumeFallbackTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 1200)
	got := Resume(nil, long, testNow)
	runes := []rune(got.Summary)
	if len(runes) != 500 {
		t.Fatalf("summary rune length = %d, want 500", len(runes))
	}
	if !utf8.ValidString(got.Summary) {
		t.Fatalf("summary is not valid utf-8 after truncation")
	}
}

func TestResumeDefaultsEmptyCollections(t *testing.T) {
	got := Resume(&domain.AIParsedResume{}, "", testNow)
	if got.Experience == nil || got.Education == nil {
		t.Fatalf("expected non-nil empty slices")
	}
	if got.Skills.Technical == nil || got.Skills.Soft == nil {
		t.Fatalf("expected non-nil skill groups")
	}
	if got.CompletionPercentage != 0 {
		t.Fatalf("completion = %d, want 0", got.CompletionPercentage)
	}
}
