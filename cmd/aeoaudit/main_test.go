package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandNameFromDomainStripsWWWAndTLD(t *testing.T) {
	assert.Equal(t, "example", brandNameFromDomain("https://www.Example.com/page"))
	assert.Equal(t, "acme", brandNameFromDomain("http://acme.co.uk"))
}

func TestBrandNameFromDomainHandlesBareHost(t *testing.T) {
	assert.Equal(t, "localhost", brandNameFromDomain("http://localhost:8080"))
}

func TestLLMClientsReturnsNilWithNoConfiguredProvider(t *testing.T) {
	assert.Nil(t, llmClients())
}

func TestMaxPagesFlagHelpMatchesZeroValueSemantics(t *testing.T) {
	flag := domainCmd.Flags().Lookup("max-pages")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "0 = unlimited")
	assert.NotContains(t, flag.Usage, "config default")
}
