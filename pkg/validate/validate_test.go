package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Query string `validate:"required,max=10"`
}

func TestStruct_RejectsMissingRequiredField(t *testing.T) {
	err := Struct(&sampleRequest{Query: ""})
	require.Error(t, err)

	fieldErrors := FormatErrors(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "required", fieldErrors[0].Tag)
}

func TestStruct_RejectsOverMaxLength(t *testing.T) {
	err := Struct(&sampleRequest{Query: "this query is way too long"})
	require.Error(t, err)
	assert.Equal(t, "max", FormatErrors(err)[0].Tag)
}

func TestStruct_AcceptsValidField(t *testing.T) {
	assert.NoError(t, Struct(&sampleRequest{Query: "short"}))
}

func TestSanitizeQuery_StripsScriptBlock(t *testing.T) {
	out := SanitizeQuery("bail <script>alert(1)</script> reform")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
}

func TestSanitizeQuery_StripsJavaScriptProtocol(t *testing.T) {
	out := SanitizeQuery("javascript:alert(1) custody dispute")
	assert.Equal(t, "custody dispute", out)
}

func TestSanitizeQuery_LeavesOrdinaryQueryUntouched(t *testing.T) {
	assert.Equal(t, "bail reform", SanitizeQuery("bail reform"))
}
