package customresource

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/cloudfront"
)

func TestParseProperties(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name     string
		props    map[string]interface{}
		expected Properties
		status   cloudfront.Status
		errVal   string
	}{
		{
			name:     "enabled",
			props:    map[string]interface{}{DistributionIDKey: "E1", RealtimeMetricsKey: "true"},
			expected: Properties{DistributionID: "E1", RealtimeMetrics: true},
			status:   cloudfront.Enabled,
		},
		{
			name:     "disabled",
			props:    map[string]interface{}{DistributionIDKey: "E1", RealtimeMetricsKey: "false"},
			expected: Properties{DistributionID: "E1"},
			status:   cloudfront.Disabled,
		},
		{
			name:     "absent flag",
			props:    map[string]interface{}{DistributionIDKey: "E1"},
			expected: Properties{DistributionID: "E1"},
			status:   cloudfront.Disabled,
		},
		{
			name:     "only lowercase true enables",
			props:    map[string]interface{}{DistributionIDKey: "E1", RealtimeMetricsKey: "TRUE"},
			expected: Properties{DistributionID: "E1"},
			status:   cloudfront.Disabled,
		},
		{
			name:     "boolean flag",
			props:    map[string]interface{}{DistributionIDKey: "E1", RealtimeMetricsKey: true},
			expected: Properties{DistributionID: "E1", RealtimeMetrics: true},
			status:   cloudfront.Enabled,
		},
		{
			name:     "nil properties",
			props:    nil,
			expected: Properties{},
			status:   cloudfront.Disabled,
		},
		{
			name:   "wrong types",
			props:  map[string]interface{}{DistributionIDKey: 42.0, RealtimeMetricsKey: 1.0},
			errVal: "`DistributionId` resource property must be a string, got float64; `RealtimeMetrics` resource property must be a string, got float64",
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := ParseProperties(tc.props)
			if tc.errVal != "" {
				assert.EqualError(t, err, tc.errVal, "Must match the expected error message")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, p)
			assert.Equal(t, tc.status, p.Status())
		})
	}
}

func TestPropertiesValidate(t *testing.T) {
	t.Parallel()

	err := Properties{}.Validate()
	assert.ErrorIs(t, err, cloudfront.ErrMissingDistributionID)
	assert.EqualError(t, err, "missing distribution id: `DistributionId` resource property is empty")
	assert.NoError(t, Properties{DistributionID: "E1"}.Validate())
}

func TestPhysicalResourceID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "E1-realtime-metrics", Properties{DistributionID: "E1"}.PhysicalResourceID())
}
