package farmos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_AcceptsNumbersAndStrings(t *testing.T) {
	t.Parallel()

	// RESTWS serializes the same id as a number in some responses and a
	// quoted string in others.
	var asset Asset

	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "name": "Dolly"}`), &asset))
	assert.Equal(t, ID(42), asset.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "42", "name": "Dolly"}`), &asset))
	assert.Equal(t, ID(42), asset.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": null}`), &asset))
	assert.Equal(t, ID(0), asset.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id": "forty-two"}`), &asset))
}

func TestFlag_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Flag
		wantErr bool
	}{
		{raw: `"1"`, want: true},
		{raw: `"0"`, want: false},
		{raw: `""`, want: false},
		{raw: `true`, want: true},
		{raw: `false`, want: false},
		{raw: `null`, want: false},
		{raw: `"yes"`, wantErr: true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.raw, func(t *testing.T) {
			t.Parallel()

			var flag Flag

			err := json.Unmarshal([]byte(testCase.raw), &flag)
			if testCase.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFlagValue)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, flag)
		})
	}
}

func TestFlag_MarshalsAsDrupalStrings(t *testing.T) {
	t.Parallel()

	log := Log{Name: "Harvest", Done: NewFlag(true)}

	data, err := json.Marshal(log)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"done":"1"`)
}

func TestFlag_FalseSurvivesMarshal(t *testing.T) {
	t.Parallel()

	// Un-archiving an asset sends archived explicitly as "0"; leaving the
	// field unset must omit it so partial updates do not touch it.
	data, err := json.Marshal(&Asset{ID: 1, Archived: NewFlag(false)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"archived":"0"`)

	data, err = json.Marshal(&Asset{ID: 1})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "archived")

	data, err = json.Marshal(&Log{ID: 7, Done: NewFlag(false)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"done":"0"`)
}

func TestWriteResult_KeepsUnknownFields(t *testing.T) {
	t.Parallel()

	raw := `{"id": "7", "uri": "http://farm.example.com/log/7", "resource": "log", "timestamp": 1700000000}`

	var result WriteResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))

	assert.Equal(t, ID(7), result.ID)
	assert.Equal(t, "http://farm.example.com/log/7", result.URI)
	assert.Equal(t, "log", result.Resource)

	assert.NotContains(t, result.Fields, "id")
	assert.EqualValues(t, 1700000000, result.Fields["timestamp"])
}

func TestArea_DecodesTermAndAreaFields(t *testing.T) {
	t.Parallel()

	raw := `{
		"tid": "5",
		"name": "North field",
		"vocabulary": {"id": "3", "resource": "taxonomy_vocabulary"},
		"area_type": "field",
		"geofield": [{"geom": "POLYGON ((0 0, 1 0, 1 1, 0 0))"}]
	}`

	var area Area
	require.NoError(t, json.Unmarshal([]byte(raw), &area))

	assert.Equal(t, ID(5), area.TID)
	assert.Equal(t, "North field", area.Name)
	require.NotNil(t, area.Vocabulary)
	assert.Equal(t, ID(3), area.Vocabulary.ID)
	assert.Equal(t, "field", area.AreaType)
	require.Len(t, area.Geometry, 1)
	assert.Contains(t, area.Geometry[0].Geom, "POLYGON")
}

func TestLog_ReferenceFields(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": 7,
		"name": "Moved sheep",
		"type": "farm_movement",
		"done": "1",
		"asset": [{"id": "42", "resource": "farm_asset"}],
		"area": [{"id": 5, "resource": "taxonomy_term"}]
	}`

	var log Log
	require.NoError(t, json.Unmarshal([]byte(raw), &log))

	require.NotNil(t, log.Done)
	assert.True(t, bool(*log.Done))
	require.Len(t, log.Assets, 1)
	assert.Equal(t, ID(42), log.Assets[0].ID)
	require.Len(t, log.Areas, 1)
	assert.Equal(t, ID(5), log.Areas[0].ID)
}
