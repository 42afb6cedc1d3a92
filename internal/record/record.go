package record

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind distinguishes regular entries from visual separators.
type Kind int

const (
	KindNormal Kind = iota
	KindSeparator
)

// Field names a scalar field of a Record.
type Field string

const (
	FieldSession Field = "session"
	FieldApp     Field = "app"
	FieldHost    Field = "host"
	FieldProcess Field = "process"
	FieldThread  Field = "thread"
	FieldLevel   Field = "level"
	FieldType    Field = "type"
	FieldTitle   Field = "title"
	FieldTime    Field = "time"
	FieldID      Field = "id"
)

// Fields lists the scalar fields in their canonical order.
var Fields = []Field{
	FieldTime,
	FieldLevel,
	FieldSession,
	FieldApp,
	FieldHost,
	FieldProcess,
	FieldThread,
	FieldType,
	FieldTitle,
}

// PayloadPlaceholder replaces payloads that cannot be decoded.
const PayloadPlaceholder = "<undecodable payload>"

// Record is a single log entry. Records are immutable once appended to a Ring.
type Record struct {
	ID        uint64
	Timestamp time.Time
	Kind      Kind

	Session string
	App     string
	Host    string
	Process string
	Thread  string
	Level   string
	Type    string
	Title   string

	// Payload holds base64 encoded detail content, if any.
	Payload string
}

// Field returns the string value of the named field.
func (r Record) Field(f Field) string {
	switch f {
	case FieldSession:
		return r.Session
	case FieldApp:
		return r.App
	case FieldHost:
		return r.Host
	case FieldProcess:
		return r.Process
	case FieldThread:
		return r.Thread
	case FieldLevel:
		return r.Level
	case FieldType:
		return r.Type
	case FieldTitle:
		return r.Title
	case FieldTime:
		if r.Timestamp.IsZero() {
			return ""
		}
		return r.Timestamp.Format("2006-01-02 15:04:05.000")
	case FieldID:
		return strconv.FormatUint(r.ID, 10)
	default:
		return ""
	}
}

// IsSeparator reports whether the record is a separator row.
func (r Record) IsSeparator() bool {
	return r.Kind == KindSeparator
}

// DecodedPayload returns the payload as text. Malformed or binary payloads
// yield PayloadPlaceholder instead of an error.
func (r Record) DecodedPayload() string {
	p := strings.TrimSpace(r.Payload)
	if p == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(p)
	if err != nil {
		return PayloadPlaceholder
	}
	if !utf8.Valid(raw) {
		return PayloadPlaceholder
	}
	return string(raw)
}

// ParseField maps a user supplied name onto a Field. Unknown names return
// false.
func ParseField(name string) (Field, bool) {
	n := Field(strings.ToLower(strings.TrimSpace(name)))
	switch n {
	case FieldSession, FieldApp, FieldHost, FieldProcess, FieldThread,
		FieldLevel, FieldType, FieldTitle, FieldTime, FieldID:
		return n, true
	case "application":
		return FieldApp, true
	case "hostname":
		return FieldHost, true
	case "message", "msg":
		return FieldTitle, true
	case "ts", "timestamp":
		return FieldTime, true
	}
	return "", false
}
