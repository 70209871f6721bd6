package booking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_UnmarshalJSON(t *testing.T) {
	cases := map[string]bool{
		`true`:     true,
		`false`:    false,
		`"on"`:     true,
		`"agreed"`: true,
		`"Yes"`:    true,
		`"no"`:     false,
		`""`:       false,
	}
	for in, want := range cases {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, bool(f), in)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`12`), &f))
}

func TestFlag_UnmarshalParam(t *testing.T) {
	var f Flag
	require.NoError(t, f.UnmarshalParam("on"))
	assert.True(t, bool(f))
	require.NoError(t, f.UnmarshalParam("off"))
	assert.False(t, bool(f))
}

func TestRequest_JSON(t *testing.T) {
	body := `{"date":"2026-10-18","slots":[10,11],"applicant_name":"Kim","applicant_contact":"010",
		"participant_info":{"teen":3},"requested_equipment":["piano"],"agree":"on","facility_id":99}`
	var req Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, []int{10, 11}, req.Slots)
	assert.Equal(t, map[string]int{"teen": 3}, req.ParticipantInfo)
	assert.True(t, bool(req.Agree))
	assert.Zero(t, req.FacilityID, "facility comes from the path")
}
