package cms

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// SubContainer groups further elements and declares the container types it
// can be placed in.
type SubContainer struct {
	Title       string
	Description string
	Types       []string
	Elements    []ContainerElement
}

type xmlSubContainers struct {
	XMLName xml.Name          `xml:"SubContainers"`
	Blocks  []xmlSubContainer `xml:"SubContainer"`
}

type xmlSubContainer struct {
	Language    string       `xml:"language,attr"`
	Title       string       `xml:"Title"`
	Description string       `xml:"Description"`
	Types       []string     `xml:"Type"`
	Elements    []xmlElement `xml:"Element"`
}

type xmlElement struct {
	URI      string `xml:"Uri"`
	ClientID string `xml:"ClientId"`
}

// UnmarshalSubContainer decodes sub-container content and returns the block
// best matching locale. Content without any block is a new, empty
// sub-container.
func UnmarshalSubContainer(content []byte, locale language.Tag) (*SubContainer, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return &SubContainer{}, nil
	}
	var doc xmlSubContainers
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal sub-container: %w", err)
	}
	if len(doc.Blocks) == 0 {
		return &SubContainer{}, nil
	}

	block := doc.Blocks[pickLocale(doc.Blocks, locale)]
	sub := &SubContainer{
		Title:       block.Title,
		Description: block.Description,
		Types:       make([]string, 0, len(block.Types)),
		Elements:    make([]ContainerElement, 0, len(block.Elements)),
	}
	for _, t := range block.Types {
		if t != "" {
			sub.Types = append(sub.Types, t)
		}
	}
	for _, e := range block.Elements {
		id, err := uuid.Parse(e.URI)
		if err != nil {
			return nil, fmt.Errorf("sub-container element %q: %w", e.URI, err)
		}
		element := NewContainerElement(id)
		if e.ClientID != "" {
			element.ClientID = e.ClientID
		}
		sub.Elements = append(sub.Elements, element)
	}
	return sub, nil
}

// MarshalSubContainer encodes sub-container definitions keyed by locale.
func MarshalSubContainer(blocks map[language.Tag]*SubContainer) ([]byte, error) {
	var doc xmlSubContainers
	for tag, sub := range blocks {
		block := xmlSubContainer{
			Language:    tag.String(),
			Title:       sub.Title,
			Description: sub.Description,
			Types:       sub.Types,
		}
		for _, e := range sub.Elements {
			x := xmlElement{URI: e.ElementID.String()}
			if e.ClientID != e.ElementID.String() {
				x.ClientID = e.ClientID
			}
			block.Elements = append(block.Elements, x)
		}
		doc.Blocks = append(doc.Blocks, block)
	}
	return xml.MarshalIndent(doc, "", "  ")
}

func pickLocale(blocks []xmlSubContainer, locale language.Tag) int {
	tags := make([]language.Tag, 0, len(blocks))
	index := make([]int, 0, len(blocks))
	for i, b := range blocks {
		tag, err := language.Parse(b.Language)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		index = append(index, i)
	}
	if len(tags) == 0 {
		return 0
	}
	_, i, confidence := language.NewMatcher(tags).Match(locale)
	if confidence == language.No {
		return index[0]
	}
	return index[i]
}
