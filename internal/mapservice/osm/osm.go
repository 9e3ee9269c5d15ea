// Package osm reads OpenStreetMap XML extracts (plain or gzip-compressed) into
// the nodes and highway ways needed to build a road graph.
package osm

import (
	"bufio"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Node is an OSM node reduced to its position.
type Node struct {
	ID  int64
	Lat float64
	Lon float64
}

// Way is a highway way with its node references in travel order.
type Way struct {
	ID      int64
	NodeIDs []int64
	Highway string
	Oneway  bool
}

// Extract is the routable subset of an OSM file.
type Extract struct {
	Nodes map[int64]Node
	Ways  []Way
}

// Load opens path and decodes it. Gzip input is detected from the magic bytes.
func Load(path string) (*Extract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	extract, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return extract, nil
}

// Decode streams OSM XML from r. Node references to nodes not seen earlier in
// the stream are dropped, as are ways without a highway tag.
func Decode(r io.Reader) (*Extract, error) {
	dec := xml.NewDecoder(r)
	extract := &Extract{Nodes: make(map[int64]Node)}

	var current *Way
	reversed := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "node":
				node, err := parseNode(el)
				if err != nil {
					return nil, err
				}
				extract.Nodes[node.ID] = node
			case "way":
				id, err := parseInt(attr(el, "id"))
				if err != nil {
					return nil, fmt.Errorf("way id: %w", err)
				}
				current = &Way{ID: id}
				reversed = false
			case "nd":
				if current == nil {
					continue
				}
				ref, err := parseInt(attr(el, "ref"))
				if err != nil {
					return nil, fmt.Errorf("way %d nd ref: %w", current.ID, err)
				}
				if _, ok := extract.Nodes[ref]; ok {
					current.NodeIDs = append(current.NodeIDs, ref)
				}
			case "tag":
				if current == nil {
					continue
				}
				switch attr(el, "k") {
				case "highway":
					current.Highway = attr(el, "v")
				case "oneway":
					switch attr(el, "v") {
					case "yes", "true", "1":
						current.Oneway = true
					case "-1", "reverse":
						current.Oneway = true
						reversed = true
					}
				}
			}
		case xml.EndElement:
			if el.Name.Local != "way" || current == nil {
				continue
			}
			if current.Highway != "" && len(current.NodeIDs) > 1 {
				if reversed {
					reverse(current.NodeIDs)
				}
				extract.Ways = append(extract.Ways, *current)
			}
			current = nil
		}
	}

	return extract, nil
}

func parseNode(el xml.StartElement) (Node, error) {
	id, err := parseInt(attr(el, "id"))
	if err != nil {
		return Node{}, fmt.Errorf("node id: %w", err)
	}
	lat, err := strconv.ParseFloat(attr(el, "lat"), 64)
	if err != nil {
		return Node{}, fmt.Errorf("node %d lat: %w", id, err)
	}
	lon, err := strconv.ParseFloat(attr(el, "lon"), 64)
	if err != nil {
		return Node{}, fmt.Errorf("node %d lon: %w", id, err)
	}
	return Node{ID: id, Lat: lat, Lon: lon}, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func reverse(ids []int64) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
