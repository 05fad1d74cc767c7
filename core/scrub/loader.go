package scrub

import (
	"context"
	"fmt"
	"path"
	"strings"

	"procdiff/core/source"
	"procdiff/core/utils"

	"github.com/goccy/go-yaml"
)

// Layout locates rule data in a tabular rules sheet. Indices are zero-based.
type Layout struct {
	// DescriptionColumn holds the rule description (column B by default).
	DescriptionColumn int

	// FirstConditionColumn and LastConditionColumn bound the condition cells
	// (columns C..F by default). The header cell names the condition's column.
	FirstConditionColumn int
	LastConditionColumn  int
}

// DefaultLayout returns the layout of the "Scrub rules" workbook.
func DefaultLayout() Layout {
	return Layout{
		DescriptionColumn:    1,
		FirstConditionColumn: 2,
		LastConditionColumn:  5,
	}
}

// Source provides rule files. *source.Opener satisfies it.
type Source interface {
	Open(ctx context.Context, uri string) (*source.Table, error)
	ReadAll(ctx context.Context, uri string) ([]byte, error)
}

// Load reads a rules file and returns its rule set. YAML files (.yaml, .yml) are parsed
// as documents; everything else is read as a table with the given layout.
func Load(ctx context.Context, src Source, uri string, layout Layout) (*RuleSet, error) {
	switch strings.ToLower(path.Ext(uri)) {
	case ".yaml", ".yml":
		data, err := src.ReadAll(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules %s: %w", uri, err)
		}
		rules, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rules %s: %w", uri, err)
		}
		return NewRuleSet(rules...), nil
	default:
		table, err := src.Open(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules %s: %w", uri, err)
		}
		return NewRuleSet(FromTable(table.Header, table.Rows, layout)...), nil
	}
}

// FromTable builds one rule per data row. Empty condition cells are not conditions,
// so a row without any filled condition cell yields a rule that NewRuleSet drops. A
// cell holding only whitespace is filled and trims to an "" condition.
func FromTable(header []string, rows [][]string, layout Layout) []Rule {
	rules := make([]Rule, 0, len(rows))
	for _, row := range rows {
		r := Rule{
			Conditions:  make(map[string]string),
			Description: cell(row, layout.DescriptionColumn),
		}
		for j := layout.FirstConditionColumn; j <= layout.LastConditionColumn; j++ {
			if j >= len(row) || row[j] == "" {
				continue
			}
			r.Conditions[cell(header, j)] = strings.TrimSpace(row[j])
		}
		rules = append(rules, r)
	}
	return rules
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// yamlDocument is the on-disk shape of a YAML rules file:
//
//	rules:
//	  - description: Drop A1
//	    conditions:
//	      Proc_code: A1
//	      Modifiers: ""
type yamlDocument struct {
	Rules []struct {
		Description string         `yaml:"description"`
		Conditions  map[string]any `yaml:"conditions"`
	} `yaml:"rules"`
}

// ParseYAML decodes a YAML rules document, keeping rule order. Scalar condition values
// are converted to strings; quote values whose formatting matters (e.g. "10.50").
func ParseYAML(data []byte) ([]Rule, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(doc.Rules))
	for _, raw := range doc.Rules {
		r := Rule{
			Conditions:  make(map[string]string, len(raw.Conditions)),
			Description: strings.TrimSpace(raw.Description),
		}
		for col, v := range raw.Conditions {
			r.Conditions[strings.TrimSpace(col)] = strings.TrimSpace(utils.ToString(v))
		}
		rules = append(rules, r)
	}
	return rules, nil
}
