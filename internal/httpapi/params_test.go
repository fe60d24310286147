package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jalapeno/internal/graphmodel"
)

func TestQueryInt_DefaultsOnAbsentOrMalformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=25&bad=notanumber", nil)
	assert.Equal(t, 25, queryInt(r, "limit", 100))
	assert.Equal(t, 100, queryInt(r, "bad", 100))
	assert.Equal(t, 100, queryInt(r, "missing", 100))
}

func TestQueryUint32_DefaultsOnMalformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/?algo=128&bad=-1", nil)
	assert.Equal(t, uint32(128), queryUint32(r, "algo", 0))
	assert.Equal(t, uint32(0), queryUint32(r, "bad", 0))
}

func TestQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/?a=true&b=0&c=bogus", nil)
	assert.True(t, queryBool(r, "a", false))
	assert.False(t, queryBool(r, "b", true))
	assert.True(t, queryBool(r, "c", true))
	assert.False(t, queryBool(r, "missing", false))
}

func TestQueryCSV_TrimsAndDropsEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/?destinations=a,%20b%20,,c", nil)
	assert.Equal(t, []string{"a", "b", "c"}, queryCSV(r, "destinations"))
}

func TestQueryCSV_AbsentReturnsNil(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, queryCSV(r, "destinations"))
}

func TestExcludedCountrySet_UppercasesCodes(t *testing.T) {
	r := httptest.NewRequest("GET", "/?excluded_countries=us,de", nil)
	set := excludedCountrySet(r)
	_, hasUS := set["US"]
	_, hasDE := set["DE"]
	assert.True(t, hasUS)
	assert.True(t, hasDE)
}

func TestExcludedCountrySet_EmptyIsNil(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, excludedCountrySet(r))
}

func TestDirection_DefaultsToOutbound(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	d, err := direction(r)
	require.NoError(t, err)
	assert.Equal(t, graphmodel.DirectionOutbound, d)
}

func TestDirection_RejectsUnrecognized(t *testing.T) {
	r := httptest.NewRequest("GET", "/?direction=sideways", nil)
	_, err := direction(r)
	require.Error(t, err)
}

func TestDirection_AcceptsKnownValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/?direction=inbound", nil)
	d, err := direction(r)
	require.NoError(t, err)
	assert.Equal(t, graphmodel.DirectionInbound, d)
}

func TestRequireQuery_MissingIsValidationError(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := requireQuery(r, "source")
	require.Error(t, err)
}

func TestRequireQuery_PresentReturnsValue(t *testing.T) {
	r := httptest.NewRequest("GET", "/?source=igp_nodes/a", nil)
	v, err := requireQuery(r, "source")
	require.NoError(t, err)
	assert.Equal(t, "igp_nodes/a", v)
}
