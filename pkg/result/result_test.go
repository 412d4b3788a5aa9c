package result

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

func TestMarshalTaggedForms(t *testing.T) {
	okBody, err := json.Marshal(Ok([]pair{{Name: "Cat", Symbol: "CAT"}}))
	require.NoError(t, err)
	require.JSONEq(t, `{"Ok":[{"name":"Cat","symbol":"CAT"}]}`, string(okBody))

	errBody, err := json.Marshal(Err[string]("No favorites found"))
	require.NoError(t, err)
	require.JSONEq(t, `{"Err":"No favorites found"}`, string(errBody))
}

func TestOkWithEmptySliceKeepsTag(t *testing.T) {
	body, err := json.Marshal(Ok([]pair{}))
	require.NoError(t, err)
	require.JSONEq(t, `{"Ok":[]}`, string(body))
}

func TestUnmarshal(t *testing.T) {
	var r Result[string]
	require.NoError(t, json.Unmarshal([]byte(`{"Ok":"The price of x is $ 1"}`), &r))
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "The price of x is $ 1", v)

	require.NoError(t, json.Unmarshal([]byte(`{"Err":"Nft not found"}`), &r))
	msg, isErr := r.Error()
	require.True(t, isErr)
	require.Equal(t, "Nft not found", msg)

	require.Error(t, json.Unmarshal([]byte(`{}`), &r))
	require.Error(t, json.Unmarshal([]byte(`{"Ok":"a","Err":"b"}`), &r))
}

func TestFrom(t *testing.T) {
	require.True(t, From("done", nil).IsOk())

	r := From("", errors.New("Failed to get coin price"))
	msg, isErr := r.Error()
	require.True(t, isErr)
	require.Equal(t, "Failed to get coin price", msg)
}
