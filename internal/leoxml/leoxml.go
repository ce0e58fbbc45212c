// Package leoxml loads outlines stored in the XML outline format.
package leoxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
)

var ErrMissingKey = errors.New("vnode without content key")

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Parse reads <vnodes> for the structure and <tnodes> for the bodies. A vnode whose
// key was seen before becomes a clone of the first occurrence and its content is skipped.
func Parse(r io.Reader) (outline.Outline, *node.Table, error) {
	decoder := xml.NewDecoder(r)
	o := outline.New()
	table := node.NewTable()
	level := 0
	current := -1

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading outline XML: %w", err)
		}
		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "vnodes":
				level = 0
			case "v":
				key, found := attr(element, "t")
				if !found {
					return nil, nil, ErrMissingKey
				}
				marks, _ := attr(element, "a")
				ignx, created := table.Intern(key, "")
				exists := !created
				level++
				if _, err := o.AddNode(level, ignx, strings.Contains(marks, "E")); err != nil {
					return nil, nil, fmt.Errorf("vnode %s: %w", key, err)
				}
				if exists {
					if err := decoder.Skip(); err != nil {
						return nil, nil, err
					}
					level--
					continue
				}
				current = ignx
			case "vh":
				var heading string
				if err := decoder.DecodeElement(&heading, &element); err != nil {
					return nil, nil, err
				}
				if current >= 0 {
					table.SetHeading(current, heading)
				}
			case "t":
				var body string
				if err := decoder.DecodeElement(&body, &element); err != nil {
					return nil, nil, err
				}
				key, _ := attr(element, "tx")
				if ignx, found := table.Find(key); found {
					table.SetBody(ignx, body)
				}
			}
		case xml.EndElement:
			if element.Name.Local == "v" {
				level--
			}
		}
	}
	return o, table, nil
}
