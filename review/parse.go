package review

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/minios-linux/revkit/issue"
)

// ErrMalformed is returned when no candidate of a response decodes into
// an issue list.
var ErrMalformed = errors.New("malformed review response")

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// A strategy extracts one JSON candidate from a raw answer.
type strategy func(raw string) (string, bool)

// strategies run in this order; the first candidate that decodes wins.
var strategies = []strategy{
	fencedBlock,
	bareObject,
	bareArray,
	wholePayload,
}

func fencedBlock(raw string) (string, bool) {
	m := markdownCodeBlock.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func bareObject(raw string) (string, bool) { return between(raw, '{', '}') }

func bareArray(raw string) (string, bool) { return between(raw, '[', ']') }

func wholePayload(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

// between returns the span from the first open to the last close byte.
func between(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// ExtractCandidates returns the JSON candidates of raw in strategy order.
func ExtractCandidates(raw string) []string {
	var out []string
	for _, s := range strategies {
		if c, ok := s(raw); ok {
			out = append(out, c)
		}
	}
	return out
}

// ParseIssues tolerantly decodes a review answer. An empty list is a
// successful answer with no issues.
func ParseIssues(raw string) ([]issue.Issue, error) {
	for _, c := range ExtractCandidates(raw) {
		data := []byte(strings.TrimSpace(c))
		if !json.Valid(data) {
			continue
		}
		return decodePayload(data)
	}
	return nil, ErrMalformed
}

// decodePayload interprets a valid JSON value as an issue list.
func decodePayload(data []byte) ([]issue.Issue, error) {
	switch firstByte(data) {
	case '[':
		return decodeList(data)
	case '{':
		if arr, ok := firstArrayMember(data); ok {
			return decodeList(arr)
		}
		if it, ok := decodeSingle(data); ok {
			return []issue.Issue{it}, nil
		}
	}
	return nil, ErrMalformed
}

func firstByte(data []byte) byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

// firstArrayMember returns the first array-valued direct member of a JSON
// object, in document order.
func firstArrayMember(data []byte) (json.RawMessage, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, false
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, false
		}
		if firstByte(v) == '[' {
			return v, true
		}
	}
	return nil, false
}

// rawIssue is the wire shape of one issue. line may be a number or a
// numeric string.
type rawIssue struct {
	Line         json.RawMessage `json:"line"`
	CodeSnippet  string          `json:"codeSnippet"`
	Issue        string          `json:"issue"`
	SinhalaIssue string          `json:"sinhalaIssue"`
	Severity     string          `json:"severity"`
}

func (r rawIssue) toIssue() issue.Issue {
	return issue.Issue{
		ClaimedLine:           parseLine(r.Line),
		CodeSnippet:           r.CodeSnippet,
		Description:           strings.TrimSpace(r.Issue),
		TranslatedDescription: strings.TrimSpace(r.SinhalaIssue),
		Severity:              issue.ParseSeverity(r.Severity),
		Origin:                issue.OriginAI,
	}
}

// parseLine returns 0 for missing or non-numeric lines; the resolver then
// falls back to a full scan.
func parseLine(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// decodeList decodes an array; elements that are not issue objects are
// skipped.
func decodeList(data []byte) ([]issue.Issue, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, ErrMalformed
	}
	out := make([]issue.Issue, 0, len(items))
	for _, item := range items {
		if firstByte(item) != '{' {
			continue
		}
		var r rawIssue
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		out = append(out, r.toIssue())
	}
	return out, nil
}

// decodeSingle accepts an object that itself looks like one issue: it has
// both a line and an issue description.
func decodeSingle(data []byte) (issue.Issue, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return issue.Issue{}, false
	}
	if !present(fields["line"]) || !present(fields["issue"]) {
		return issue.Issue{}, false
	}
	var r rawIssue
	if err := json.Unmarshal(data, &r); err != nil {
		return issue.Issue{}, false
	}
	return r.toIssue(), true
}

func present(v json.RawMessage) bool {
	return len(v) > 0 && string(v) != "null"
}
