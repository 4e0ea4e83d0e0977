package extractor

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/insta-downloader/internal/domain"
)

const jsonLDSelector = `script[type="application/ld+json"]`

type jsonLDObject struct {
	Type       jsonLDType        `json:"@type"`
	ContentURL string            `json:"contentUrl"`
	Caption    string            `json:"caption"`
	Author     json.RawMessage   `json:"author"`
	Graph      []json.RawMessage `json:"@graph"`
}

// jsonLDType accepts both "@type": "X" and "@type": ["X", "Y"].
type jsonLDType []string

func (t *jsonLDType) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = jsonLDType{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

func (t jsonLDType) Is(name string) bool {
	return slices.Contains(t, name)
}

type jsonLDPerson struct {
	AlternateName string `json:"alternateName"`
}

// authorAlternateName reads author.alternateName from an object or the first entry of a list.
func (o jsonLDObject) authorAlternateName() string {
	if len(o.Author) == 0 {
		return ""
	}
	var person jsonLDPerson
	if err := json.Unmarshal(o.Author, &person); err == nil {
		return person.AlternateName
	}
	var people []jsonLDPerson
	if err := json.Unmarshal(o.Author, &people); err == nil && len(people) > 0 {
		return people[0].AlternateName
	}
	return ""
}

// jsonLDCandidates lazily yields every JSON-LD object of the page in document order.
// Top-level arrays and @graph containers are flattened; blocks that fail to parse are skipped.
func jsonLDCandidates(doc *goquery.Document) iter.Seq[jsonLDObject] {
	return func(yield func(jsonLDObject) bool) {
		scripts := doc.Find(jsonLDSelector)
		for i := range scripts.Length() {
			raw := bytes.TrimSpace([]byte(scripts.Eq(i).Text()))
			if len(raw) == 0 {
				continue
			}
			if !walkJSONLD(raw, yield) {
				return
			}
		}
	}
}

func walkJSONLD(raw []byte, yield func(jsonLDObject) bool) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return true
	}

	switch raw[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return true
		}
		for _, entry := range list {
			if !walkJSONLD(entry, yield) {
				return false
			}
		}
	case '{':
		var obj jsonLDObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return true
		}
		if !yield(obj) {
			return false
		}
		for _, entry := range obj.Graph {
			if !walkJSONLD(entry, yield) {
				return false
			}
		}
	}
	return true
}

// fromJSONLD uses the first ImageObject of the page.
func fromJSONLD(doc *goquery.Document) (*domain.ExtractionResult, bool) {
	for obj := range jsonLDCandidates(doc) {
		if !obj.Type.Is("ImageObject") {
			continue
		}
		if obj.ContentURL == "" {
			return nil, false
		}
		return &domain.ExtractionResult{
			Media:    []domain.MediaItem{domain.NewImage(obj.ContentURL)},
			Caption:  obj.Caption,
			Username: obj.authorAlternateName(),
		}, true
	}
	return nil, false
}
