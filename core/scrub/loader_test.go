package scrub

import (
	"context"
	"errors"
	"testing"

	"procdiff/core/reconcile"
	"procdiff/core/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSource is a mock implementation of Source.
type mockSource struct {
	mock.Mock
}

func (m *mockSource) Open(ctx context.Context, uri string) (*source.Table, error) {
	args := m.Called(ctx, uri)
	if t, ok := args.Get(0).(*source.Table); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSource) ReadAll(ctx context.Context, uri string) ([]byte, error) {
	args := m.Called(ctx, uri)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

var rulesHeader = []string{"#", "Description", "Proc_code", "Modifiers", "Rate Eff", "MAxFee"}

func TestFromTable(t *testing.T) {
	rows := [][]string{
		{"1", "Drop A1", "A1", "", "", ""},
		{"2", " Drop 26 ", "", " 26 ", "", ""},
		{"3", "Empty row", "", "", "", ""},
		{"4", "Short"},
	}

	rules := FromTable(rulesHeader, rows, DefaultLayout())
	require.Len(t, rules, 4)
	assert.Equal(t, map[string]string{"Proc_code": "A1"}, rules[0].Conditions)
	assert.Equal(t, "Drop A1", rules[0].Description)
	assert.Equal(t, map[string]string{"Modifiers": "26"}, rules[1].Conditions)
	assert.Equal(t, "Drop 26", rules[1].Description)
	assert.Empty(t, rules[2].Conditions)
	assert.Empty(t, rules[3].Conditions)

	rs := NewRuleSet(rules...)
	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, 2, rs.Dropped())
}

func TestFromTable_IgnoresCellsOutsideLayout(t *testing.T) {
	header := append(rulesHeader, "Notes")
	rows := [][]string{{"1", "Drop A1", "A1", "", "", "", "ignored"}}

	rules := FromTable(header, rows, DefaultLayout())
	require.Len(t, rules, 1)
	assert.Equal(t, map[string]string{"Proc_code": "A1"}, rules[0].Conditions)
}

func TestFromTable_WhitespaceCellIsEmptyCondition(t *testing.T) {
	rows := [][]string{
		{"1", "Drop blank mod A1", "A1", "  ", "", ""},
		{"2", "Whitespace only", "", " ", "", ""},
	}

	rules := FromTable(rulesHeader, rows, DefaultLayout())
	require.Len(t, rules, 2)
	assert.Equal(t, map[string]string{"Proc_code": "A1", "Modifiers": ""}, rules[0].Conditions)
	assert.Equal(t, map[string]string{"Modifiers": ""}, rules[1].Conditions)

	rs := NewRuleSet(rules...)
	assert.Equal(t, 2, rs.Len())
	desc, ok := rs.Evaluate(reconcile.Record{"Proc_code": "A1", "Modifiers": ""})
	assert.True(t, ok)
	assert.Equal(t, "Drop blank mod A1", desc)

	_, ok = NewRuleSet(rules[0]).Evaluate(reconcile.Record{"Proc_code": "A1", "Modifiers": "26"})
	assert.False(t, ok)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
rules:
  - description: Drop A1
    conditions:
      Proc_code: A1
      Modifiers: ""
  - description: Cap
    conditions:
      MAxFee: 10
  - description: Nothing
`)

	rules, err := ParseYAML(data)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, map[string]string{"Proc_code": "A1", "Modifiers": ""}, rules[0].Conditions)
	assert.Equal(t, "Drop A1", rules[0].Description)
	assert.Equal(t, map[string]string{"MAxFee": "10"}, rules[1].Conditions)
	assert.Empty(t, rules[2].Conditions)

	rs := NewRuleSet(rules...)
	desc, ok := rs.Evaluate(reconcile.Record{"Proc_code": "A1", "Modifiers": ""})
	assert.True(t, ok)
	assert.Equal(t, "Drop A1", desc)
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML([]byte("rules: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_Table(t *testing.T) {
	src := new(mockSource)
	src.On("Open", mock.Anything, "rules/Scrub rules.xlsx").Return(&source.Table{
		Header: rulesHeader,
		Rows:   [][]string{{"1", "Drop A1", "A1", "", "", ""}},
	}, nil)

	rs, err := Load(context.Background(), src, "rules/Scrub rules.xlsx", DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
	src.AssertExpectations(t)
}

func TestLoad_YAML(t *testing.T) {
	src := new(mockSource)
	src.On("ReadAll", mock.Anything, "s3://compare/rules/scrub.yml").
		Return([]byte("rules:\n  - description: Drop A1\n    conditions:\n      Proc_code: A1\n"), nil)

	rs, err := Load(context.Background(), src, "s3://compare/rules/scrub.yml", DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
	src.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}

func TestLoad_Error(t *testing.T) {
	src := new(mockSource)
	src.On("Open", mock.Anything, "missing.csv").Return(nil, errors.New("not found"))

	_, err := Load(context.Background(), src, "missing.csv", DefaultLayout())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rules missing.csv")
}
