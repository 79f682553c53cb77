package quality

import (
	"encoding/base64"
	"sort"
	"strings"
)

// DefaultMinScore is the usability threshold for the quality gate.
const DefaultMinScore = 40

// DefaultMaxSelected caps how many images go on to the vision service.
const DefaultMaxSelected = 3

// Candidate is one scored image payload. Payload keeps the original
// encoding (data URI header included) so it can be forwarded verbatim.
type Candidate struct {
	Payload string
	Score   int
}

// Selection is the outcome of the quality gate. OK is false when no image
// cleared the threshold; callers must then short-circuit with an empty
// result instead of calling the vision service.
type Selection struct {
	OK       bool
	Selected []Candidate
}

// SelectUsable scores every payload, keeps those at or above minScore,
// ranks them by score descending (ties keep input order) and truncates to
// maxSelected. Pure function of its inputs.
func SelectUsable(payloads []string, minScore, maxSelected int) Selection {
	if maxSelected <= 0 {
		maxSelected = DefaultMaxSelected
	}

	passing := make([]Candidate, 0, len(payloads))
	for _, p := range payloads {
		data, err := DecodePayload(p)
		if err != nil {
			continue
		}
		if score := Score(data); score >= minScore {
			passing = append(passing, Candidate{Payload: p, Score: score})
		}
	}

	if len(passing) == 0 {
		return Selection{OK: false, Selected: []Candidate{}}
	}

	sort.SliceStable(passing, func(i, j int) bool {
		return passing[i].Score > passing[j].Score
	})

	if len(passing) > maxSelected {
		passing = passing[:maxSelected]
	}
	return Selection{OK: true, Selected: passing}
}

// StripPayloadHeader removes a leading data:<mediatype>;base64, header,
// leaving the bare base64 body.
func StripPayloadHeader(payload string) string {
	if !strings.HasPrefix(payload, "data:") {
		return payload
	}
	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		return payload[idx+len(";base64,"):]
	}
	return payload
}

// DecodePayload strips any data URI header and base64-decodes the body.
func DecodePayload(payload string) ([]byte, error) {
	body := StripPayloadHeader(payload)
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		// Camera uploads occasionally arrive without padding.
		return base64.RawStdEncoding.DecodeString(body)
	}
	return data, nil
}
