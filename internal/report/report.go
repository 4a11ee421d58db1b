// Package report serializes parse results to JSON artifacts on a
// hackpadfs filesystem: the structural tree, the noun registry, the
// interaction log, and the diagnostics, one file each.
package report

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/hack-pad/hackpadfs"

	"github.com/correosdelbosque/tsl/pkg/script/diag"
	"github.com/correosdelbosque/tsl/pkg/script/extract"
	"github.com/correosdelbosque/tsl/pkg/script/presence"
)

// Noun is the per-name report record: the authoritative type plus every
// occurrence grouped by scene.
type Noun struct {
	Name     string                          `json:"name"`
	NounType presence.NounType               `json:"noun_type"`
	Scenes   map[string][]*presence.Presence `json:"scenes"`
}

// Nouns flattens the registry into report records in name order.
func Nouns(set *presence.Set) []Noun {
	var out []Noun
	for _, name := range set.Names() {
		e := set.Entry(name)
		out = append(out, Noun{Name: name, NounType: e.Type, Scenes: e.Scenes})
	}
	return out
}

// Write emits the artifacts for one parse under dir, named
// <name>.structure.json, <name>.nouns.json, <name>.interactions.json,
// and <name>.diagnostics.json. diags may be nil.
func Write(fsys hackpadfs.FS, dir, name string, res *extract.Result, diags *diag.List) error {
	if err := hackpadfs.MkdirAll(fsys, dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	artifacts := []struct {
		suffix string
		value  any
	}{
		{"structure", res.Doc},
		{"nouns", Nouns(res.Nouns)},
		{"interactions", res.Links.All},
		{"diagnostics", diags.All()},
	}

	for _, a := range artifacts {
		data, err := json.MarshalIndent(a.value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", a.suffix, err)
		}
		p := path.Join(dir, name+"."+a.suffix+".json")
		if err := hackpadfs.WriteFullFile(fsys, p, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
	}
	return nil
}
