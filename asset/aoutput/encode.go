package aoutput

import (
	"bytes"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"soulframe-lang/asset/astrings"
	"soulframe-lang/ds"
)

type jsonDocument struct {
	Order   []string                          `json:"__order"`
	Strings *ds.LinkedHashMap[string, string] `json:"strings"`
}

func EncodeJSON(table *astrings.Table) ([]byte, error) {
	document := jsonDocument{
		Order:   table.Keys(),
		Strings: table.Strings(),
	}
	bs, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "EncodeJSON error")
	}
	return append(bs, '\n'), nil
}

// stringNode forces a scalar to stay a string, so "1.50" or "yes" are quoted
// instead of being read back as numbers or booleans.
func stringNode(value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: value,
	}
}

func EncodeYAML(table *astrings.Table) ([]byte, error) {
	order := &yaml.Node{Kind: yaml.SequenceNode}
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	table.Strings().Each(func(key string, value string) bool {
		order.Content = append(order.Content, stringNode(key))
		mapping.Content = append(mapping.Content, stringNode(key), stringNode(value))
		return true
	})
	if len(order.Content) == 0 {
		order.Style = yaml.FlowStyle
		mapping.Style = yaml.FlowStyle
	}
	document := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			stringNode(OrderKey), order,
			stringNode(StringsKey), mapping,
		},
	}

	buf := bytes.NewBuffer(nil)
	encoder := yaml.NewEncoder(buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(document); err != nil {
		return nil, errors.Wrap(err, "EncodeYAML error")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "EncodeYAML error closing encoder")
	}
	return buf.Bytes(), nil
}

var cborMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// EncodeCBOR uses core deterministic encoding, so map keys are sorted and
// __order is the only record of the key sequence.
func EncodeCBOR(table *astrings.Table) ([]byte, error) {
	document := Document{
		Order:   table.Keys(),
		Strings: make(map[string]string, table.Len()),
	}
	table.Strings().Each(func(key string, value string) bool {
		document.Strings[key] = value
		return true
	})
	bs, err := cborMode.Marshal(document)
	if err != nil {
		return nil, errors.Wrap(err, "EncodeCBOR error")
	}
	return bs, nil
}

func Serialize(table *astrings.Table, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(table)
	case FormatYAML:
		return EncodeYAML(table)
	case FormatCBOR:
		return EncodeCBOR(table)
	}
	return nil, errors.WithStack(ErrUnknownFormat{Format: string(format)})
}
