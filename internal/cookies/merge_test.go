package cookies

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	table := []struct {
		first    string
		second   string
		expected string
	}{
		{first: "a=1; b=2", second: "b=3,c=4", expected: "a=1; b=3; c=4"},
		{first: "", second: "", expected: ""},
		{first: "a=1", second: "", expected: "a=1"},
		{first: "", second: "a=1", expected: "a=1"},
		{first: "a=1;;  ,b=2", second: "", expected: "a=1; b=2"},
		// entries without a name or value are dropped
		{first: "HttpOnly; a=; =b; c=3", second: "", expected: "c=3"},
		// repeated names keep their first position
		{first: "a=1; b=2; c=3", second: "a=9", expected: "a=9; b=2; c=3"},
		{first: "csrftoken=abc", second: "sessionid=xyz; csrftoken=def", expected: "csrftoken=def; sessionid=xyz"},
		// values keep everything after the first '='
		{first: "token=YWJj==", second: "", expected: "token=YWJj=="},
		{first: " a = 1 ", second: "", expected: "a=1"},
	}

	for _, test := range table {
		require.Equal(t, test.expected, Merge(test.first, test.second), "%q + %q", test.first, test.second)
	}
}

func TestMergeIsDeterministic(t *testing.T) {
	first := "z=1; y=2; x=3; w=4"
	second := "v=5, x=6"
	expected := "z=1; y=2; x=6; w=4; v=5"
	for range 20 {
		require.Equal(t, expected, Merge(first, second))
	}
}

func TestHeader(t *testing.T) {
	set := []*http.Cookie{
		{Name: "csrftoken", Value: "abc", Path: "/", HttpOnly: true},
		{Name: "", Value: "ignored"},
		{Name: "sessionid", Value: "xyz", Secure: true},
	}
	require.Equal(t, "csrftoken=abc; sessionid=xyz", Header(set))
	require.Equal(t, "", Header(nil))
}
