package ingest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/five82/trawl/internal/record"
)

// timeLayouts are tried in order when a timestamp field is present.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Parse decodes one line into a Record. JSON objects are read field by
// field; anything else is treated as logfmt style key=value text, and lines
// without any key=value pair become the title. now is used when the line
// carries no usable timestamp.
func Parse(line string, now time.Time) record.Record {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var m map[string]any
		if err := json.Unmarshal([]byte(trimmed), &m); err == nil {
			return fromMap(stringify(m), now)
		}
	}
	if kv := splitLogfmt(trimmed); len(kv) > 0 {
		return fromMap(kv, now)
	}
	return record.Record{Timestamp: now, Kind: kindOf(trimmed), Title: trimmed}
}

// Separator builds a separator record, e.g. for a gap between sources.
func Separator(title string, now time.Time) record.Record {
	return record.Record{Timestamp: now, Kind: record.KindSeparator, Title: title}
}

func kindOf(line string) record.Kind {
	if len(line) >= 3 && strings.Trim(line, "-=") == "" {
		return record.KindSeparator
	}
	return record.KindNormal
}

func fromMap(m map[string]string, now time.Time) record.Record {
	rec := record.Record{Timestamp: now}
	for key, val := range m {
		switch strings.ToLower(key) {
		case "kind":
			if strings.EqualFold(val, "separator") {
				rec.Kind = record.KindSeparator
			}
			continue
		case "payload":
			rec.Payload = strings.TrimSpace(val)
			continue
		case "detail", "data":
			rec.Payload = base64.StdEncoding.EncodeToString([]byte(val))
			continue
		case "lvl", "severity":
			rec.Level = normalizeLevel(val)
			continue
		case "component", "logger", "source":
			if rec.App == "" {
				rec.App = val
			}
			continue
		}
		f, ok := record.ParseField(key)
		if !ok {
			continue
		}
		switch f {
		case record.FieldTime:
			if ts, ok := parseTime(val); ok {
				rec.Timestamp = ts
			}
		case record.FieldLevel:
			rec.Level = normalizeLevel(val)
		case record.FieldSession:
			rec.Session = val
		case record.FieldApp:
			rec.App = val
		case record.FieldHost:
			rec.Host = val
		case record.FieldProcess:
			rec.Process = val
		case record.FieldThread:
			rec.Thread = val
		case record.FieldType:
			rec.Type = val
		case record.FieldTitle:
			rec.Title = val
		}
	}
	return rec
}

func stringify(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			raw, err := json.Marshal(t)
			if err != nil {
				out[k] = fmt.Sprint(t)
				continue
			}
			out[k] = string(raw)
		}
	}
	return out
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil && secs > 0 {
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*1e9)), true
	}
	return time.Time{}, false
}

// splitLogfmt splits key=value pairs separated by blanks. Values may be
// double quoted. Bare words without '=' are ignored.
func splitLogfmt(s string) map[string]string {
	res := map[string]string{}
	var cur strings.Builder
	key := ""
	inQuote := false
	haveKey := false
	flush := func() {
		if haveKey && key != "" {
			res[key] = cur.String()
		}
		key, haveKey = "", false
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case !inQuote && (c == ' ' || c == '\t'):
			flush()
		case !inQuote && c == '=' && !haveKey:
			key = cur.String()
			haveKey = true
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return res
}

func normalizeLevel(lvl string) string {
	l := strings.ToUpper(strings.TrimSpace(lvl))
	switch l {
	case "WARNING":
		return "WARN"
	case "ERR":
		return "ERROR"
	case "CRITICAL", "CRIT", "PANIC":
		return "FATAL"
	}
	return l
}
