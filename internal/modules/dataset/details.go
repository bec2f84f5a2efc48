// README: Narrative detail fields normalized to a Text | Bullets union at ingestion time.
package dataset

import (
	"encoding/json"
	"sort"
	"strings"
)

// DetailValue holds either a paragraph (Text) or an ordered bullet list (Bullets), never both.
type DetailValue struct {
	Text    string
	Bullets []string
}

func Text(s string) DetailValue          { return DetailValue{Text: s} }
func Bullets(items ...string) DetailValue { return DetailValue{Bullets: items} }

func (v DetailValue) IsBullets() bool { return v.Bullets != nil }

func (v DetailValue) IsEmpty() bool {
	return strings.TrimSpace(v.Text) == "" && len(v.Bullets) == 0
}

// Lines returns the value as display lines. Text with more than one sentence is
// split on sentence terminators; a single sentence stays as one line.
func (v DetailValue) Lines() []string {
	if v.IsBullets() {
		return append([]string(nil), v.Bullets...)
	}
	return SplitSentences(v.Text)
}

// MarshalJSON emits the wire shape: a JSON string or an array of strings.
func (v DetailValue) MarshalJSON() ([]byte, error) {
	if v.IsBullets() {
		return json.Marshal(v.Bullets)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts either wire shape; null leaves v untouched.
func (v *DetailValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err == nil {
		*v = Bullets(items...)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}

type Detail struct {
	Key   string      `json:"key"`
	Value DetailValue `json:"value"`
}

// Details is ordered: known narrative keys first, then the rest alphabetically.
type Details []Detail

func (d Details) Get(key string) (DetailValue, bool) {
	for _, item := range d {
		if item.Key == key {
			return item.Value, true
		}
	}
	return DetailValue{}, false
}

func (d Details) clone() Details {
	if d == nil {
		return nil
	}
	out := make(Details, len(d))
	for i, item := range d {
		if item.Value.Bullets != nil {
			item.Value.Bullets = append([]string{}, item.Value.Bullets...)
		}
		out[i] = item
	}
	return out
}

var detailOrder = []string{
	"description",
	"howToReach",
	"whatToExpect",
	"whatToEat",
	"whyGoThere",
	"expenses",
	"bestDishes",
	"thingsToBeAwareOf",
}

func orderDetails(in map[string]wireDetail) Details {
	rank := make(map[string]int, len(detailOrder))
	for i, k := range detailOrder {
		rank[k] = i
	}
	keys := make([]string, 0, len(in))
	for k, v := range in {
		if v.value.IsEmpty() {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iKnown := rank[keys[i]]
		rj, jKnown := rank[keys[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})
	out := make(Details, 0, len(keys))
	for _, k := range keys {
		out = append(out, Detail{Key: k, Value: in[k].value})
	}
	return out
}

// SplitSentences splits text on '.', '!' and '?' and re-terminates each sentence with '.'.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var sentences []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= 1 {
		return []string{text}
	}
	for i, s := range sentences {
		sentences[i] = s + "."
	}
	return sentences
}
