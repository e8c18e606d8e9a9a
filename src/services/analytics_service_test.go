package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmail_Normalizes(t *testing.T) {
	assert.Equal(t, HashEmail("jane@example.com"), HashEmail("  Jane@Example.COM "))
	assert.Len(t, HashEmail("jane@example.com"), 64)
	assert.NotEqual(t, HashEmail("a@example.com"), HashEmail("b@example.com"))
}

func TestAnalyticsService_DisabledIsNoop(t *testing.T) {
	svc, err := NewAnalyticsService(AnalyticsConfig{Enabled: true})
	require.NoError(t, err)
	assert.False(t, svc.Enabled(), "missing key disables analytics")

	svc.Track(context.Background(), "a@example.com", EventUserCreated, map[string]interface{}{"role": "admin"})
	assert.NoError(t, svc.Close())

	var nilSvc *AnalyticsService
	assert.False(t, nilSvc.Enabled())
	nilSvc.Track(context.Background(), "a@example.com", EventUserCreated, nil)
}

func TestAnalyticsService_TagsEnvironment(t *testing.T) {
	svc := &AnalyticsService{environment: "staging"}
	props := svc.properties(map[string]interface{}{"role": "admin"})
	assert.Equal(t, "staging", props["environment"])
	assert.Equal(t, "admin", props["role"])

	assert.NotContains(t, (&AnalyticsService{}).properties(nil), "environment")
}
