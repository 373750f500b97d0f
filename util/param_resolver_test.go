package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveInputParams(t *testing.T) {
	data := map[string]any{
		"params": map[string]any{
			"hotelId": "42",
			"nights":  3.0,
		},
		"flash": map[string]any{
			"bar": "baz",
		},
	}
	params := map[string]any{
		"hotel":   "{$.params.hotelId}",
		"nights":  "{$.params.nights}",
		"summary": "hotel {$.params.hotelId} for {$.params.nights} nights",
		"nested":  map[string]any{"flash": "{$.flash.bar}"},
		"list":    []any{"{$.params.hotelId}", "static", 7},
		"missing": "{$.params.none}",
		"plain":   "no tokens",
		"number":  5,
	}

	res := ResolveInputParams(data, params)
	require.Equal(t, "42", res["hotel"])
	require.Equal(t, 3.0, res["nights"])
	require.Equal(t, "hotel 42 for 3 nights", res["summary"])
	require.Equal(t, map[string]any{"flash": "baz"}, res["nested"])
	require.Equal(t, []any{"42", "static", 7}, res["list"])
	require.Nil(t, res["missing"])
	require.Equal(t, "no tokens", res["plain"])
	require.Equal(t, 5, res["number"])
}

func TestJsonEncoderDecoder(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	encdec := NewJsonEncoderDecoder[payload]()
	data, err := encdec.Encode(payload{Name: "foo"})
	require.NoError(t, err)
	res, err := encdec.Decode(data)
	require.NoError(t, err)
	require.Equal(t, "foo", res.Name)

	_, err = encdec.Decode([]byte("not json"))
	require.Error(t, err)
}
