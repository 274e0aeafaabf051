package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContentItem represents one polymorphic segment of a message. Concrete item
// types implement the unexported isContentItem marker enabling a closed set.
type ContentItem interface {
	isContentItem()
	// ContentType returns the wire discriminator ("input_text", ...).
	ContentType() string
}

// InputText is text supplied to the model (user, system or developer role).
type InputText struct {
	Text string
}

func (InputText) isContentItem() {}

// ContentType implements ContentItem.
func (InputText) ContentType() string { return "input_text" }

// MarshalJSON encodes the item with its type tag.
func (c InputText) MarshalJSON() ([]byte, error) {
	return json.Marshal(textWire{Type: c.ContentType(), Text: c.Text})
}

// OutputText is text produced by the model (assistant role).
type OutputText struct {
	Text string
}

func (OutputText) isContentItem() {}

// ContentType implements ContentItem.
func (OutputText) ContentType() string { return "output_text" }

// MarshalJSON encodes the item with its type tag.
func (c OutputText) MarshalJSON() ([]byte, error) {
	return json.Marshal(textWire{Type: c.ContentType(), Text: c.Text})
}

// InputImage references an image by URL or data URI.
type InputImage struct {
	ImageURL string
}

func (InputImage) isContentItem() {}

// ContentType implements ContentItem.
func (InputImage) ContentType() string { return "input_image" }

// MarshalJSON encodes the item with its type tag.
func (c InputImage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		ImageURL string `json:"image_url"`
	}{Type: c.ContentType(), ImageURL: c.ImageURL})
}

type textWire struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// UnmarshalContentItem decodes a single tagged content item.
func UnmarshalContentItem(data []byte) (ContentItem, error) {
	var w struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL string `json:"image_url"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case "input_text":
		return InputText{Text: w.Text}, nil
	case "output_text":
		return OutputText{Text: w.Text}, nil
	case "input_image":
		return InputImage{ImageURL: w.ImageURL}, nil
	default:
		return nil, fmt.Errorf("unknown content item type %q", w.Type)
	}
}

func unmarshalContentItems(raw []json.RawMessage) ([]ContentItem, error) {
	items := make([]ContentItem, 0, len(raw))
	for _, r := range raw {
		it, err := UnmarshalContentItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// Text concatenates all text-bearing items in order.
func Text(items []ContentItem) string {
	var b strings.Builder
	for _, it := range items {
		switch c := it.(type) {
		case InputText:
			b.WriteString(c.Text)
		case OutputText:
			b.WriteString(c.Text)
		}
	}
	return b.String()
}
