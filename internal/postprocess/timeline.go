package postprocess

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nishant-rao/legal-summarizer/internal/entity"
	"github.com/nishant-rao/legal-summarizer/internal/summarize"
)

// BuildTimeline derives timeline candidates from the text: each DATE or TIME
// pattern match becomes one entry with its containing sentence as the event.
func BuildTimeline(text string) []entity.TimelineEvent {
	var out []entity.TimelineEvent
	for _, sentence := range summarize.SplitSentences(text) {
		for _, re := range []*regexp.Regexp{datePattern, timePattern} {
			for _, match := range re.FindAllString(sentence, -1) {
				out = append(out, entity.TimelineEvent{
					Event: sentence,
					Time:  strings.TrimSpace(match),
				})
			}
		}
	}
	return out
}

// ValidateTimeline drops entries missing either field and sorts ascending by
// raw lexical comparison of the time string. Lexical, not calendar: mixed
// timestamp formats may misorder, which callers accept.
func ValidateTimeline(timeline []entity.TimelineEvent) []entity.TimelineEvent {
	out := make([]entity.TimelineEvent, 0, len(timeline))
	for _, ev := range timeline {
		if strings.TrimSpace(ev.Event) == "" || strings.TrimSpace(ev.Time) == "" {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Time < out[b].Time })
	return out
}
