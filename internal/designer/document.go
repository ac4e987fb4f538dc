package designer

// ElementType identifies the kind of a positioned card element
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
)

// Element is one positioned object on a card. X and Y are percentages of
// the canvas. Order within Document.Elements is the z-order, index 0 is
// the back.
type Element struct {
	ID      string         `json:"id"`
	Type    ElementType    `json:"type"`
	Content string         `json:"content"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Style   map[string]any `json:"style"`
}

// Document is the persisted shape of a card design. Background and
// BackgroundImage are mutually exclusive.
type Document struct {
	Background      *string   `json:"background"`
	BackgroundImage *string   `json:"backgroundImage"`
	Elements        []Element `json:"elements"`
}

// clone returns a deep copy so history snapshots never share state
func (d Document) clone() Document {
	out := Document{
		Background:      copyString(d.Background),
		BackgroundImage: copyString(d.BackgroundImage),
		Elements:        make([]Element, len(d.Elements)),
	}
	for i, el := range d.Elements {
		out.Elements[i] = el.clone()
	}
	return out
}

func (e Element) clone() Element {
	out := e
	out.Style = make(map[string]any, len(e.Style))
	for k, v := range e.Style {
		out.Style[k] = v
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func defaultTextStyle() map[string]any {
	return map[string]any{
		"fontSize":   "1.25rem",
		"color":      "#374151",
		"fontWeight": "normal",
		"fontFamily": "sans-serif",
		"textAlign":  "center",
		"opacity":    1.0,
		"rotation":   0.0,
	}
}

func defaultImageStyle() map[string]any {
	return map[string]any{
		"width":        "150px",
		"height":       "auto",
		"borderRadius": "8px",
		"opacity":      1.0,
		"rotation":     0.0,
	}
}
