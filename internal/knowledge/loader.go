// ABOUTME: Knowledge loader for JSON and plain-text knowledge sources
// ABOUTME: Normalizes heterogeneous entries into ordered KnowledgeRecords using field fallback chains
package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/harper/newsbot/internal/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrNoKnowledgeSource means neither <base>.json nor <base>.txt exists
	ErrNoKnowledgeSource = errors.New("no knowledge source found")
	// ErrEmptyKnowledge means the source was read but yielded no records
	ErrEmptyKnowledge = errors.New("knowledge source contains no entries")
)

// Field fallback chains, first non-empty wins
var (
	TitleFields   = []string{"title", "headline"}
	ContentFields = []string{"content", "body"}
	// ListKeys are the preferred array keys of an object-shaped JSON source
	ListKeys = []string{"Knowledge", "data"}
)

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// Load locates and parses the knowledge source for base. A base ending in
// .json or .txt is read directly; otherwise <base>.json is preferred over
// <base>.txt.
func Load(base string) ([]models.KnowledgeRecord, error) {
	path, err := resolve(base)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []models.KnowledgeRecord
	if strings.HasSuffix(path, ".json") {
		records, err = ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		records = ParseText(string(data))
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyKnowledge)
	}
	return records, nil
}

func resolve(base string) (string, error) {
	if strings.HasSuffix(base, ".json") || strings.HasSuffix(base, ".txt") {
		if fileExists(base) {
			return base, nil
		}
		return "", fmt.Errorf("%w at %s", ErrNoKnowledgeSource, base)
	}

	jsonPath := base + ".json"
	txtPath := base + ".txt"
	if fileExists(jsonPath) {
		return jsonPath, nil
	}
	if fileExists(txtPath) {
		return txtPath, nil
	}
	return "", fmt.Errorf("%w at %s or %s", ErrNoKnowledgeSource, jsonPath, txtPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ParseJSON normalizes a JSON knowledge document. A top-level array is the
// entry list; an object contributes its Knowledge or data array, falling
// back to its first array-valued field in document order.
func ParseJSON(data []byte) ([]models.KnowledgeRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
	case '{':
		obj := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(trimmed, obj); err != nil {
			return nil, err
		}
		entries = selectEntries(obj)
	default:
		if !json.Valid(trimmed) {
			return nil, errors.New("invalid JSON")
		}
		return nil, nil
	}

	records := make([]models.KnowledgeRecord, 0, len(entries))
	for idx, raw := range entries {
		records = append(records, normalizeEntry(idx, raw))
	}
	return records, nil
}

func selectEntries(obj *orderedmap.OrderedMap[string, json.RawMessage]) []json.RawMessage {
	for _, key := range ListKeys {
		if raw, ok := obj.Get(key); ok {
			if list, ok := asArray(raw); ok && len(list) > 0 {
				return list
			}
		}
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if list, ok := asArray(pair.Value); ok {
			return list
		}
	}
	return nil
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, false
	}
	return list, true
}

func normalizeEntry(idx int, raw json.RawMessage) models.KnowledgeRecord {
	fallbackTitle := fmt.Sprintf("Entry %d", idx)
	serialized := compact(raw)

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		// non-object entry: strings are used verbatim, everything else as JSON text
		content := serialized
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			content = s
		}
		return models.KnowledgeRecord{ID: idx, Title: fallbackTitle, Content: content}
	}

	return models.KnowledgeRecord{
		ID:      idx,
		Title:   firstNonEmpty(fields, TitleFields, fallbackTitle),
		Content: firstNonEmpty(fields, ContentFields, serialized),
	}
}

func firstNonEmpty(fields map[string]any, keys []string, fallback string) string {
	for _, key := range keys {
		if text := fieldText(fields[key]); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return fallback
}

func fieldText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ParseText splits a plain-text document into paragraph records on blank lines
func ParseText(text string) []models.KnowledgeRecord {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var records []models.KnowledgeRecord
	for _, para := range blankLine.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		n := len(records)
		records = append(records, models.KnowledgeRecord{
			ID:      n,
			Title:   fmt.Sprintf("Paragraph %d", n+1),
			Content: para,
		})
	}
	return records
}
