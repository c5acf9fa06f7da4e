package trigger

import (
	"encoding/json"
	"fmt"

	"github.com/IgorGrieder/linkly-connector/internal/linkly"
	"github.com/itchyny/gojq"
)

// clickProgram reads every field through try/catch so a missing or
// mistyped parent yields null instead of an error.
const clickProgram = `
def opt(f): try f catch null;
{
  link_id:   opt(.link.id),
  timestamp: opt(.timestamp),
  country:   opt(.click.country),
  platform:  opt(.click.platform),
  browser:   opt(.click.browser_name),
  referer:   opt(.click.referer),
  isp:       opt(.click.isp),
  bot:       opt(.click.bot_name),
  url:       opt(.click.destination),
  params:    opt(.click.params)
}`

var clickQuery = mustCompile(clickProgram)

func mustCompile(src string) *gojq.Code {
	query, err := gojq.Parse(src)
	if err != nil {
		panic(fmt.Sprintf("parse click program: %v", err))
	}
	code, err := gojq.Compile(query)
	if err != nil {
		panic(fmt.Sprintf("compile click program: %v", err))
	}
	return code
}

// DecodePayload parses an inbound webhook body.
func DecodePayload(body []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return payload, nil
}

// AdaptClick reshapes a Linkly click payload. It never fails: anything it
// cannot find is left nil. JSON null counts as missing. The id joins link
// id and timestamp with "-", using "" for a missing part.
func AdaptClick(payload any) ClickEvent {
	fields := extract(payload)

	click := ClickEvent{
		LinkID:    fields["link_id"],
		Timestamp: fields["timestamp"],
		Country:   fields["country"],
		Platform:  fields["platform"],
		Browser:   fields["browser"],
		Referer:   fields["referer"],
		ISP:       fields["isp"],
		Bot:       fields["bot"],
		URL:       fields["url"],
		Params:    fields["params"],
	}
	click.ID = linkly.FormatID(click.LinkID) + "-" + linkly.FormatID(click.Timestamp)
	return click
}

func extract(payload any) map[string]any {
	iter := clickQuery.Run(jqInput(payload))
	v, ok := iter.Next()
	if !ok {
		return map[string]any{}
	}
	if _, isErr := v.(error); isErr {
		return map[string]any{}
	}
	obj, _ := v.(map[string]any)
	for k, field := range obj {
		obj[k] = linkly.Normalize(field)
	}
	return obj
}

// jqInput converts values gojq does not accept as input into ones it does.
func jqInput(v any) any {
	switch t := v.(type) {
	case int64:
		return int(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = jqInput(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = jqInput(item)
		}
		return out
	default:
		return v
	}
}
