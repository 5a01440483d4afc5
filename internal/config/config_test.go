package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCategoryPrefixes(t *testing.T) {
	prefixes, err := parseCategoryPrefixes("SPEC:SPEC, WRIT:WRIT ,ORAL:ORAL")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"SPEC": "SPEC", "WRIT": "WRIT", "ORAL": "ORAL"}, prefixes)

	_, err = parseCategoryPrefixes("SPEC")
	require.Error(t, err)

	_, err = parseCategoryPrefixes("")
	require.Error(t, err)
}

func TestCategoryForLongestPrefixWins(t *testing.T) {
	cfg := Config{CategoryPrefixes: map[string]string{
		"SP":   "GENERIC",
		"SPEC": "SPEC",
	}}

	category, ok := cfg.CategoryFor("SPEC_C01")
	require.True(t, ok)
	require.Equal(t, "SPEC", category)

	_, ok = cfg.CategoryFor("MATH_C01")
	require.False(t, ok)
}

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":8080", Config{AppPort: "8080"}.HTTPAddress())
	require.Equal(t, ":9000", Config{AppPort: ":9000"}.HTTPAddress())
}
