package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format selects how events are rendered.
type Format uint8

const (
	FormatAuto Format = iota // chosen from the output path
	FormatText
	FormatNDJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format %q (want auto, text or ndjson)", s)
}

// FormatEvent renders ev as one line. Text lines carry wall-clock time.
func FormatEvent(ev *Event, format Format) []byte {
	return formatEvent(ev, format, time.Time{})
}

func formatEvent(ev *Event, format Format, start time.Time) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev, start)
}

type eventJSON struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	line, _ := json.Marshal(eventJSON{ //nolint:errchkjson
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	return append(line, '\n')
}

// formatText renders
//
//	[elapsed] <indent><marker>scope:name (detail) {k=v, ...}
//
// with the indent growing by scope depth. A zero start prints the clock.
func formatText(ev *Event, start time.Time) []byte {
	var b strings.Builder
	if start.IsZero() {
		b.WriteString(ev.Time.Format("[15:04:05.000000] "))
	} else {
		ms := float64(ev.Time.Sub(start).Microseconds()) / 1000
		fmt.Fprintf(&b, "[%9.3fms] ", ms)
	}
	if ev.Scope > ScopeDriver {
		b.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}
	fmt.Fprintf(&b, "%s%s:%s", ev.Kind.marker(), ev.Scope, ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(pairs, ", "))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
