package aibridge

import (
	"context"
	"fmt"

	"github.com/studyhall/aibridge/cache"
)

// CurriculumQuery identifies one curriculum metadata lookup. Board, grade,
// and language are the cache key dimensions; results change rarely enough
// that both cache tiers apply.
type CurriculumQuery struct {
	Board    string // e.g. "CBSE"
	Grade    string // e.g. "8"
	Language string // e.g. "en"
}

// subjectsSchema constrains the lookup result to an array of subject names.
var subjectsSchema = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// curriculumLookupAttempts is higher than the default retry bound because a
// lookup that misses both cache tiers is worth persisting through quota
// pressure: the result is reused for months.
const curriculumLookupAttempts = 5

// LookupSubjects resolves the subject list for a board, grade, and language
// through the two-tier cache. The compute step is a full orchestrated
// provider run; its result is written back to both tiers before returning.
// On compute failure any stale durable value is deliberately not used — the
// caller applies its own static defaults as a last resort.
func (c *Client) LookupSubjects(ctx context.Context, q CurriculumQuery, creds CallCredentials) ([]string, error) {
	if q.Board == "" || q.Grade == "" || q.Language == "" {
		return nil, fmt.Errorf("curriculum query requires board, grade, and language")
	}

	compute := func(ctx context.Context) ([]string, error) {
		prompt := fmt.Sprintf(
			"List the subjects taught in grade %s of the %s curriculum. Respond in language code %q as a JSON array of subject names.",
			q.Grade, q.Board, q.Language)
		return Extract[[]string](ctx, c, ObjectParams{
			Feature:     "curriculum-subjects",
			Prompt:      prompt,
			Schema:      subjectsSchema,
			MaxAttempts: curriculumLookupAttempts,
		}, creds)
	}

	if c.tiers == nil {
		return compute(ctx)
	}

	key := cache.Key{Board: q.Board, Grade: q.Grade, Language: q.Language, Subject: ""}
	return cache.Resolve(ctx, c.tiers, key, compute)
}
