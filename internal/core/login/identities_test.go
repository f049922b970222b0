package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIdentities(t *testing.T) {
	set := []Identity{
		{Sub: "s1", Username: "a@globus.org"},
		{Sub: "s2", Username: "b@example.com"},
	}
	assert.Equal(t, []string{"s1"}, ResolveIdentities([]string{"globus.org"}, set))
}

func TestResolveIdentities_PreservesIdentitySetOrder(t *testing.T) {
	set := []Identity{
		{Sub: "s1", Username: "a@example.com"},
		{Sub: "s2", Username: "b@globus.org"},
		{Sub: "s3", Username: "c@example.com"},
	}
	got := ResolveIdentities([]string{"globus.org", "example.com"}, set)
	assert.Equal(t, []string{"s1", "s2", "s3"}, got)
}

func TestResolveIdentities_SubstringMatch(t *testing.T) {
	set := []Identity{{Sub: "s1", Username: "user@globus.org"}}
	assert.Equal(t, []string{"s1"}, ResolveIdentities([]string{"obus.org"}, set))
}

func TestResolveIdentities_NoMatch(t *testing.T) {
	set := []Identity{{Sub: "s1", Username: "user@example.com"}}
	assert.Empty(t, ResolveIdentities([]string{"globus.org"}, set))
	assert.Empty(t, ResolveIdentities(nil, set))
	assert.Empty(t, ResolveIdentities([]string{"globus.org"}, nil))
}
