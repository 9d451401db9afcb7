package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(20, 40, 101)
	require.Equal(t, 3, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 101, p.Total)
	require.Equal(t, 6, p.TotalPages)
}

func TestNewPaginationClampsDegenerateInputs(t *testing.T) {
	p := NewPagination(0, -5, 5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 1, p.TotalPages)
}

func TestNewPaginationEmptyListing(t *testing.T) {
	p := NewPagination(50, 0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 0, p.Total)
	require.Equal(t, 0, p.TotalPages)
}
