package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

const fallbackSummaryLimit = 500

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	rePhone = regexp.MustCompile(`(\+?\d{1,3}[\s.\-])?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
)

// Resume maps a parsed AI response onto the canonical shape, sanitizing
// every free-text field and routing dates through NormalizeDate. A nil
// parsed value falls back to a minimal record built heuristically from
// the raw extracted text, so a failed AI parse still yields something
// usable instead of discarding the upload.
func Resume(parsed *domain.AIParsedResume, fallbackText string, now time.Time) domain.CanonicalResume {
	var out domain.CanonicalResume
	if parsed == nil {
		out = fallbackResume(fallbackText)
	} else {
		out = mapParsed(parsed, now)
	}
	out.CompletionPercentage = completionPercentage(out)
	return out
}

func mapParsed(parsed *domain.AIParsedResume, now time.Time) domain.CanonicalResume {
	out := domain.CanonicalResume{
		Summary:    SanitizeText(parsed.Summary),
		Experience: []domain.ExperienceEntry{},
		Education:  []domain.EducationEntry{},
		Skills:     domain.SkillGroups{Technical: []string{}, Soft: []string{}},
	}

	if pi := parsed.PersonalInfo; pi != nil {
		out.PersonalInfo = domain.PersonalInfo{
			FirstName: SanitizeText(pi.FirstName),
			LastName:  SanitizeText(pi.LastName),
			Email:     SanitizeText(pi.Email),
			Phone:     SanitizeText(pi.Phone),
			Title:     SanitizeText(pi.Title),
			Location:  SanitizeText(pi.Location),
			LinkedIn:  SanitizeText(pi.LinkedIn),
			Website:   SanitizeText(pi.Website),
		}
	}

	for _, exp := range parsed.Experience {
		out.Experience = append(out.Experience, domain.ExperienceEntry{
			Company:     SanitizeText(exp.Company),
			Position:    SanitizeText(exp.Position),
			StartDate:   NormalizeDate(exp.StartDate, now),
			EndDate:     NormalizeDate(exp.EndDate, now),
			Description: SanitizeText(exp.Description),
		})
	}

	for _, edu := range parsed.Education {
		out.Education = append(out.Education, domain.EducationEntry{
			Institution: SanitizeText(edu.Institution),
			Degree:      SanitizeText(edu.Degree),
			Field:       SanitizeText(edu.Field),
			EndDate:     NormalizeDate(edu.EndDate, now),
			GPA:         SanitizeText(edu.GPA),
		})
	}

	if sk := parsed.Skills; sk != nil {
		for _, s := range sk.Technical {
			if v := SanitizeText(s); v != "" {
				out.Skills.Technical = append(out.Skills.Technical, v)
			}
		}
		for _, s := range sk.Soft {
			if v := SanitizeText(s); v != "" {
				out.Skills.Soft = append(out.Skills.Soft, v)
			}
		}
	}

	return out
}

func fallbackResume(text string) domain.CanonicalResume {
	summary := SanitizeText(text)
	if runes := []rune(summary); len(runes) > fallbackSummaryLimit {
		summary = string(runes[:fallbackSummaryLimit])
	}

	out := domain.CanonicalResume{
		Summary:    summary,
		Experience: []domain.ExperienceEntry{},
		Education:  []domain.EducationEntry{},
		Skills:     domain.SkillGroups{Technical: []string{}, Soft: []string{}},
	}
	out.PersonalInfo.Email = reEmail.FindString(text)
	out.PersonalInfo.Phone = strings.TrimSpace(rePhone.FindString(text))
	return out
}

// completionPercentage scores how much of the record is populated: one
// point per filled personal field (first name, last name, email, phone,
// title, location, summary) and one point each for a non-empty
// experience list, education list and skills map.
func completionPercentage(r domain.CanonicalResume) int {
	personal := []string{
		r.PersonalInfo.FirstName,
		r.PersonalInfo.LastName,
		r.PersonalInfo.Email,
		r.PersonalInfo.Phone,
		r.PersonalInfo.Title,
		r.PersonalInfo.Location,
		r.Summary,
	}

	populated := 0
	for _, field := range personal {
		if strings.TrimSpace(field) != "" {
			populated++
		}
	}
	total := len(personal)

	if len(r.Experience) > 0 {
		populated++
	}
	if len(r.Education) > 0 {
		populated++
	}
	if len(r.Skills.Technical)+len(r.Skills.Soft) > 0 {
		populated++
	}
	total += 3

	return int(float64(populated)/float64(total)*100 + 0.5)
}
