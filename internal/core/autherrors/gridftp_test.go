package autherrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGridFTPResult_NotFromAllowedDomain(t *testing.T) {
	result, err := ParseGridFTPResult(gridFTPNotFromAllowedDomain)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "result#1.0.0", result.DataType)
	assert.Equal(t, "permission_denied", result.Code)
	assert.Equal(t, 403, result.HTTPResponseCode)
	require.NotNil(t, result.Detail)
	assert.Equal(t, DetailNotFromAllowedDomain, result.DetailType())
	assert.Equal(t, []string{"globus.org"}, result.Detail.AllowedDomains)
}

func TestParseGridFTPResult_InvalidCredential(t *testing.T) {
	result, err := ParseGridFTPResult(gridFTPInvalidCredential)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, DetailInvalidCredential, result.DetailType())
	assert.Equal(t, "7b0c2e2a-4f49-4b8b-8c71-3f7a0c2b9d11", result.Detail.UserCredentialID)
}

func TestParseGridFTPResult_NoMarker(t *testing.T) {
	for _, msg := range []string{"", "Directory not found", "530-GridFTP-JSON-Result: {} without end"} {
		result, err := ParseGridFTPResult(msg)
		assert.NoError(t, err)
		assert.Nil(t, result)
	}
}

func TestParseGridFTPResult_RealCRLFDoesNotMatch(t *testing.T) {
	msg := "530-GridFTP-JSON-Result: {\"DATA_TYPE\": \"result#1.0.0\"}\r\n530 End."
	result, err := ParseGridFTPResult(msg)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestParseGridFTPResult_Malformed(t *testing.T) {
	result, err := ParseGridFTPResult(gridFTPMalformed)
	assert.ErrorIs(t, err, ErrMalformedGridFTPResult)
	assert.Nil(t, result)
}

func TestParseGridFTPResult_StringDetail(t *testing.T) {
	result, err := ParseGridFTPResult(gridFTPStringDetail)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Nil(t, result.Detail)
	assert.Equal(t, "", result.DetailType())
}

func TestParseGridFTPResult_EmptyOrNullResult(t *testing.T) {
	for _, msg := range []string{gridFTPEmptyResult, gridFTPNullResult} {
		result, err := ParseGridFTPResult(msg)
		assert.NoError(t, err)
		assert.Nil(t, result)
	}
}
