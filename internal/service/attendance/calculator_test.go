package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(hour, minute int) *time.Time {
	return clockSec(hour, minute, 0)
}

func clockSec(hour, minute, second int) *time.Time {
	t := time.Date(2024, 6, 10, hour, minute, second, 0, time.UTC)
	return &t
}

func TestComputeStatus_LateButPresent(t *testing.T) {
	// Setup
	p := policy.Builtin("Engineering")

	// Act
	c, err := ComputeStatus(clock(9, 45), clock(18, 0), p)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 8.25, c.HoursWorked)
	assert.Equal(t, attendance.StatusPresentOnTime, c.Status)
	assert.True(t, c.IsLateLogin)
	assert.Equal(t, 0.0, c.IdleTime)
}

func TestComputeStatus_Thresholds(t *testing.T) {
	p := policy.Builtin("Engineering")

	cases := []struct {
		name   string
		in     *time.Time
		out    *time.Time
		hours  float64
		status attendance.Status
		idle   float64
	}{
		{"below half day", clock(9, 0), clock(12, 59), 3.98, attendance.StatusAbsent, 8.0},
		{"seconds short of half day", clock(9, 0), clockSec(12, 59, 50), 3.98, attendance.StatusAbsent, 8.0},
		{"exactly half day", clock(9, 0), clock(13, 0), 4.0, attendance.StatusHalfDay, 4.0},
		{"between thresholds", clock(9, 0), clock(15, 30), 6.5, attendance.StatusHalfDay, 1.5},
		{"seconds short of full day", clock(9, 0), clockSec(16, 59, 50), 7.98, attendance.StatusHalfDay, 0.02},
		{"exactly full day", clock(9, 0), clock(17, 0), 8.0, attendance.StatusPresentOnTime, 0},
		{"overtime", clock(9, 0), clock(20, 0), 11.0, attendance.StatusPresentOnTime, 0},
		{"zero length", clock(9, 0), clock(9, 0), 0, attendance.StatusAbsent, 8.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ComputeStatus(tc.in, tc.out, p)
			require.NoError(t, err)
			assert.Equal(t, tc.hours, c.HoursWorked)
			assert.Equal(t, tc.status, c.Status)
			assert.Equal(t, tc.idle, c.IdleTime)
		})
	}
}

func TestComputeStatus_LateThresholdIsStrict(t *testing.T) {
	p := policy.Builtin("Engineering")

	c, err := ComputeStatus(clock(9, 30), clock(18, 0), p)
	require.NoError(t, err)
	assert.False(t, c.IsLateLogin)

	late := time.Date(2024, 6, 10, 9, 30, 1, 0, time.UTC)
	c, err = ComputeStatus(&late, clock(18, 0), p)
	require.NoError(t, err)
	assert.True(t, c.IsLateLogin)
}

func TestComputeStatus_MissingPunches(t *testing.T) {
	p := policy.Builtin("Engineering")

	c, err := ComputeStatus(nil, nil, p)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, c.Status)
	assert.False(t, c.IsLateLogin)
	assert.Equal(t, p.FullDayThreshold, c.IdleTime)

	c, err = ComputeStatus(clock(10, 0), nil, p)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, c.Status)
	assert.True(t, c.IsLateLogin)
	assert.Zero(t, c.HoursWorked)
}

func TestComputeStatus_PunchOutBeforePunchIn(t *testing.T) {
	_, err := ComputeStatus(clock(18, 0), clock(9, 0), policy.Builtin("Engineering"))
	assert.ErrorIs(t, err, attendance.ErrPunchOutBeforeIn)
}

func TestComputeStatus_IsDeterministic(t *testing.T) {
	p := policy.Builtin("Engineering")
	first, err := ComputeStatus(clock(9, 12), clock(16, 47), p)
	require.NoError(t, err)
	second, err := ComputeStatus(clock(9, 12), clock(16, 47), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeStatus_UsesDepartmentThresholds(t *testing.T) {
	p := policy.Builtin("Support")
	p.HalfDayThreshold = 3
	p.FullDayThreshold = 6

	c, err := ComputeStatus(clock(9, 0), clock(15, 0), p)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresentOnTime, c.Status)
}
