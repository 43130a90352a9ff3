package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeUnmarshal(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected Code
	}{
		{"Quoted string", `{"code": "2138"}`, "2138"},
		{"Bare number", `{"code": 2138}`, "2138"},
		{"Leading zeros preserved when quoted", `{"code": "0042"}`, "0042"},
		{"Null", `{"code": null}`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var st Station
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &st))
			assert.Equal(t, tc.expected, st.Code)
		})
	}

	t.Run("Marshals back as a string", func(t *testing.T) {
		out, err := json.Marshal(PriceRecord{StationCode: "2138", FuelType: "U91"})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"stationcode":"2138"`)
	})
}

func TestSnapshotIndexes(t *testing.T) {
	snap := &PriceSnapshot{
		Stations: []Station{
			{Code: "100", Name: "first"},
			{Code: "200", Name: "second"},
			{Code: "100", Name: "duplicate"},
		},
		Prices: []PriceRecord{
			{StationCode: "100", FuelType: "U91"},
			{StationCode: "200", FuelType: "U91"},
			{StationCode: "100", FuelType: "P98"},
		},
	}

	t.Run("StationsByCode keeps the first occurrence", func(t *testing.T) {
		byCode := snap.StationsByCode()
		require.Len(t, byCode, 2)
		assert.Equal(t, "first", byCode["100"].Name)
	})

	t.Run("PricesByStation preserves record order", func(t *testing.T) {
		byStation := snap.PricesByStation()
		require.Len(t, byStation["100"], 2)
		assert.Equal(t, "U91", byStation["100"][0].FuelType)
		assert.Equal(t, "P98", byStation["100"][1].FuelType)
	})
}
