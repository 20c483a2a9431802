// Package document defines the parsed payload schema cached per data file.
package document

import (
	"github.com/shopspring/decimal"
)

// Kind names a category of editor data file.
type Kind string

const (
	KindActor Kind = "actor"
	KindItem  Kind = "item"
	KindSkill Kind = "skill"
	KindMap   Kind = "map"
	KindEvent Kind = "event"
)

// Document is one parsed data file. The loader decodes into a pooled scratch
// document, then clones a frozen copy for the cache; Revision is stamped on
// the clone, never on the scratch.
type Document struct {
	Name     string          `json:"name"`
	Kind     Kind            `json:"kind"`
	Price    decimal.Decimal `json:"price"`
	Rate     decimal.Decimal `json:"rate"`
	Tags     []string        `json:"tags"`
	Fields   map[string]any  `json:"fields"`
	Notes    string          `json:"notes"`
	Revision string          `json:"-"`
}

// Reset clears every field so a pooled scratch document carries nothing from
// its previous decode.
func (d *Document) Reset() {
	d.Name = ""
	d.Kind = ""
	d.Price = decimal.Decimal{}
	d.Rate = decimal.Decimal{}
	d.Tags = nil
	d.Fields = nil
	d.Notes = ""
	d.Revision = ""
}

// Clone returns an independent copy. Tags and the top level of Fields are
// copied; nested field values are shared and treated as immutable by the
// editor.
func (d *Document) Clone() *Document {
	out := &Document{
		Name:     d.Name,
		Kind:     d.Kind,
		Price:    d.Price,
		Rate:     d.Rate,
		Tags:     nil,
		Fields:   nil,
		Notes:    d.Notes,
		Revision: d.Revision,
	}
	if d.Tags != nil {
		out.Tags = append(make([]string, 0, len(d.Tags)), d.Tags...)
	}
	if d.Fields != nil {
		out.Fields = make(map[string]any, len(d.Fields))
		for k, v := range d.Fields {
			out.Fields[k] = v
		}
	}
	return out
}
