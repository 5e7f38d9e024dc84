package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aierrors "github.com/studyhall/aibridge/errors"
	"github.com/studyhall/aibridge/providers"
)

// TestBuildPriorityList_Ordering validates that caller-declared order is
// preserved and the operator fallback always lands last.
func TestBuildPriorityList_Ordering(t *testing.T) {
	caller := []providers.Credential{
		{Family: providers.FamilyGemini, Key: "gem-1", Label: "primary"},
		{Family: providers.FamilyOpenAI, Key: "oai-1", Label: "secondary"},
	}
	fallback := providers.Credential{Family: providers.FamilyGemini, Key: "op-1", Label: "fallback"}

	list, err := providers.BuildPriorityList(caller, fallback)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "gem-1", list[0].Credential)
	assert.Equal(t, "oai-1", list[1].Credential)
	assert.Equal(t, "op-1", list[2].Credential)
	assert.Equal(t, "fallback", list[2].Label)
}

// TestBuildPriorityList_FallbackDeduplicated validates the example scenario
// from the design discussion: a fallback textually identical to the
// caller's own credential of the same family adds no value and is omitted.
func TestBuildPriorityList_FallbackDeduplicated(t *testing.T) {
	caller := []providers.Credential{
		{Family: providers.FamilyGemini, Key: "A", Label: "primary"},
	}
	fallback := providers.Credential{Family: providers.FamilyGemini, Key: "A", Label: "fallback"}

	list, err := providers.BuildPriorityList(caller, fallback)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Credential)
	assert.Equal(t, "primary", list[0].Label)
}

// TestBuildPriorityList_SameKeyDifferentFamily validates that dedup is on
// the (family, credential) pair, not the key alone.
func TestBuildPriorityList_SameKeyDifferentFamily(t *testing.T) {
	caller := []providers.Credential{
		{Family: providers.FamilyGemini, Key: "A", Label: "primary"},
	}
	fallback := providers.Credential{Family: providers.FamilyOpenAI, Key: "A", Label: "fallback"}

	list, err := providers.BuildPriorityList(caller, fallback)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

// TestBuildPriorityList_DuplicateCallerCredentials validates dedup among
// caller credentials themselves.
func TestBuildPriorityList_DuplicateCallerCredentials(t *testing.T) {
	caller := []providers.Credential{
		{Family: providers.FamilyGemini, Key: "A", Label: "first"},
		{Family: providers.FamilyGemini, Key: "A", Label: "second"},
		{Family: providers.FamilyOpenAI, Key: "B", Label: "third"},
	}

	list, err := providers.BuildPriorityList(caller, providers.Credential{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Label)
	assert.Equal(t, "third", list[1].Label)
}

// TestBuildPriorityList_Empty validates the terminal no-credentials
// condition: surfaced directly, never reaching the orchestrator.
func TestBuildPriorityList_Empty(t *testing.T) {
	tests := []struct {
		name     string
		caller   []providers.Credential
		fallback providers.Credential
	}{
		{"nothing configured", nil, providers.Credential{}},
		{"blank keys skipped", []providers.Credential{{Family: providers.FamilyGemini, Key: ""}}, providers.Credential{}},
		{"fallback without family skipped", nil, providers.Credential{Key: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := providers.BuildPriorityList(tt.caller, tt.fallback)
			require.ErrorIs(t, err, aierrors.ErrNoCredentials)
			assert.Nil(t, list)
		})
	}
}
