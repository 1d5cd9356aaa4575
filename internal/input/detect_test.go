// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CatalogueJSON(t *testing.T) {
	data := []byte(`{
		"schema_version": 1,
		"vulnerabilities": [
			{
				"id": 1,
				"name": "SQL Injection",
				"vector": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"
			}
		]
	}`)

	result, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, result.Format)
	require.NotNil(t, result.Catalogue)
	assert.Equal(t, 1, result.Catalogue.SchemaVersion)
	require.Len(t, result.Catalogue.Vulnerabilities, 1)
	assert.Equal(t, "SQL Injection", result.Catalogue.Vulnerabilities[0].Name)
	assert.Equal(t, "1", result.Catalogue.Vulnerabilities[0].ID)
}

func TestParse_PaginatedPage(t *testing.T) {
	data := []byte(`{
		"count": 2,
		"next": null,
		"previous": null,
		"results": [
			{"id": 1, "name": "A", "cvss": "CVSS:3.1/AV:L/AC:L/PR:L/UI:N/S:U/C:H/I:H/A:H"},
			{"id": 2, "name": "B", "metrics": {"AV": "N"}}
		]
	}`)

	result, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, result.Catalogue.Vulnerabilities, 2)
	assert.Equal(t, "CVSS:3.1/AV:L/AC:L/PR:L/UI:N/S:U/C:H/I:H/A:H", result.Catalogue.Vulnerabilities[0].Vector)
	assert.Equal(t, map[string]string{"AV": "N"}, result.Catalogue.Vulnerabilities[1].Metrics)
}

func TestParse_BareList(t *testing.T) {
	result, err := Parse([]byte(`  [{"name": "A"}, {"name": "B"}]`))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, result.Format)
	assert.Len(t, result.Catalogue.Vulnerabilities, 2)
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
schema_version: 1
vulnerabilities:
  - id: 9
    name: Open redirect
    description: Unvalidated redirect target.
    category_of_testing:
      id: 2
      name: Web Application
    metrics:
      AV: N
      AC: L
      PR: N
      UI: R
      S: U
      C: L
      I: L
      A: N
`)

	result, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, result.Format)
	assert.Equal(t, "yaml", result.Format.String())

	require.Len(t, result.Catalogue.Vulnerabilities, 1)
	v := result.Catalogue.Vulnerabilities[0]
	assert.Equal(t, "9", v.ID)
	assert.Equal(t, "Open redirect", v.Name)
	assert.Equal(t, "Web Application", v.Category())
	assert.Equal(t, "Unvalidated redirect target.", v.ExtraString("description"))
	assert.Equal(t, "N", v.Metrics["AV"])
	assert.Equal(t, "N", v.Metrics["A"])
}

func TestParse_YAMLList(t *testing.T) {
	result, err := Parse([]byte("- name: A\n  vector: CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:N\n"))
	require.NoError(t, err)
	require.Len(t, result.Catalogue.Vulnerabilities, 1)
	assert.Equal(t, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:N", result.Catalogue.Vulnerabilities[0].Vector)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"invalid JSON", `{"vulnerabilities": [`},
		{"unrecognized object", `{"SchemaVersion": 2, "Results": []}`},
		{"wrong list type", `{"vulnerabilities": {"name": "A"}}`},
		{"scalar YAML", "just a string"},
		{"invalid YAML", "vulnerabilities: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_EmptyCatalogue(t *testing.T) {
	for _, data := range []string{`[]`, `{"vulnerabilities": []}`, `{"results": []}`} {
		_, err := Parse([]byte(data))
		assert.ErrorIs(t, err, ErrEmptyCatalogue, data)
	}
}
