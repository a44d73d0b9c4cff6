package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVQuotesCellsWithCommas(t *testing.T) {
	table := Table{
		Columns: []string{"Name", "Courses"},
		Rows:    [][]string{{"Ana Diaz", "Biology, Calculus I"}},
	}

	out, err := table.CSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Courses", lines[0])
	assert.Equal(t, `Ana Diaz,"Biology, Calculus I"`, lines[1])
}

func TestCSVRejectsRaggedRows(t *testing.T) {
	table := Table{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"only one cell"}},
	}

	_, err := table.CSV()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cells")
}

func TestCSVRequiresColumns(t *testing.T) {
	_, err := Table{}.CSV()
	require.Error(t, err)
}

func TestPDFProducesDocument(t *testing.T) {
	table := Table{
		Title:   "Departments",
		Columns: []string{"Department", "Courses"},
		Rows:    [][]string{{"Mathematics", "3"}, {"Science", "5"}},
	}

	out, err := table.PDF()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
