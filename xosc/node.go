// Package xosc implements the XoscPreParser (§4.1, §5's "C5"): enough of
// OpenSCENARIO's XML shape to classify a file and resolve the handful of
// references the rest of the pipeline needs (implicit XODR path, vehicle
// catalog entries). It never attempts full OpenSCENARIO semantics -- the
// external simulator is authoritative for those (§1 Non-goals).
package xosc

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Node is a generic XML element: just enough structure (name, attributes,
// children) to walk the handful of paths §6 names without a full schema.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
}

// Attr returns the value of the named attribute and whether it was present.
func (n Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given element name.
func (n Node) Child(name string) (Node, bool) {
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			return c, true
		}
	}
	return Node{}, false
}

// ChildrenNamed returns every direct child with the given element name.
func (n Node) ChildrenNamed(name string) []Node {
	var out []Node
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			out = append(out, c)
		}
	}
	return out
}

// HasChild reports whether a direct child with the given name exists.
func (n Node) HasChild(name string) bool {
	_, ok := n.Child(name)
	return ok
}

// parseFile reads and parses path into its root Node.
func parseFile(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Node{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return Node{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return root, nil
}
